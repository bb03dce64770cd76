package sink

import (
	"bytes"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
)

// DefaultCreationDate is stamped into every PDF unless overridden, so equal
// layouts produce byte-identical files.
var DefaultCreationDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// PDFOption configures PDF rendering via [RenderPDF].
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	title    string
	author   string
	creator  string
	created  time.Time
	compress bool
}

// WithTitle sets the document title metadata.
func WithTitle(s string) PDFOption { return func(r *pdfRenderer) { r.title = s } }

// WithAuthor sets the document author metadata.
func WithAuthor(s string) PDFOption { return func(r *pdfRenderer) { r.author = s } }

// WithCreator sets the producing application metadata.
func WithCreator(s string) PDFOption { return func(r *pdfRenderer) { r.creator = s } }

// WithCreationDate overrides [DefaultCreationDate].
func WithCreationDate(t time.Time) PDFOption { return func(r *pdfRenderer) { r.created = t } }

// WithCompression toggles content stream compression. On by default.
func WithCompression(on bool) PDFOption { return func(r *pdfRenderer) { r.compress = on } }

func newPDFRenderer(opts ...PDFOption) pdfRenderer {
	r := pdfRenderer{created: DefaultCreationDate, compress: true, creator: "topicsheet"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderPDF renders the layout as a PDF document.
func RenderPDF(l layout.Layout, opts ...PDFOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, l, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDF renders the layout as a PDF document to w. Nothing is written
// unless the whole document was drawn. A failing writer yields an
// [errors.ErrCodeOutputWrite] error.
func WritePDF(w io.Writer, l layout.Layout, opts ...PDFOption) error {
	r := newPDFRenderer(opts...)
	pdf, err := r.draw(l)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write pdf")
	}
	return nil
}

func (r pdfRenderer) draw(l layout.Layout) (*fpdf.Fpdf, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.Width, Ht: l.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(r.created)
	pdf.SetModificationDate(r.created)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(r.title, true)
	pdf.SetAuthor(r.author, true)
	pdf.SetCreator(r.creator, true)
	pdf.SetLineWidth(1)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for _, name := range l.ResourceNames() {
		res := l.Resources[name]
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: res.Type}, bytes.NewReader(res.Data))
	}
	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "embed images")
	}

	flip := func(y float64) float64 { return l.Height - y }
	for _, page := range l.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			c := op.Color
			switch op.Kind {
			case layout.OpFill:
				pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
				pdf.Rect(op.Box.Left, flip(op.Box.Top), op.Box.Width(), op.Box.Height(), "F")
			case layout.OpStroke:
				pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
				pdf.Rect(op.Box.Left, flip(op.Box.Top), op.Box.Width(), op.Box.Height(), "D")
			case layout.OpText:
				core, ok := fonts.Lookup(op.Face.Name)
				if !ok {
					return nil, errors.New(errors.ErrCodeMeasurement, "unsupported font %q", op.Face.Name)
				}
				pdf.SetFont(core.Family, core.Style, op.Face.Size)
				pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
				pdf.Text(op.X, flip(op.Y), translate(op.Text))
			case layout.OpImage:
				res, ok := l.Resources[op.Image]
				if !ok {
					continue
				}
				pdf.ImageOptions(op.Image, op.Box.Left, flip(op.Box.Top), op.Box.Width(), op.Box.Height(),
					false, fpdf.ImageOptions{ImageType: res.Type}, 0, "")
			}
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "draw pdf")
	}
	return pdf, nil
}

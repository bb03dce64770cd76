// Package metrics measures the rendered width of text.
//
// Layout needs string widths before anything is drawn. [CoreMeasurer] answers
// from the PDF core font metrics using a private fpdf document that is never
// output, so measuring has no effect on any document being drawn. The same
// cp1252 translation the PDF sink applies before drawing is applied before
// measuring, which keeps measured and drawn widths identical.
package metrics

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/fonts"
)

// Measurer reports the rendered width of text in points.
//
// Implementations return 0 for the empty string, grow monotonically with
// the text for a fixed face, and fail with an [errors.ErrCodeMeasurement]
// error when the face cannot be measured.
type Measurer interface {
	Width(text string, face fonts.Face) (float64, error)
}

// Identifier is implemented by measurers that can name their metrics. Two
// measurers with the same ID return the same widths, so layouts computed
// with one may be reused for the other.
type Identifier interface {
	MetricsID() string
}

// ID returns the metrics identity of m: its MetricsID when it implements
// [Identifier], otherwise its dynamic type.
func ID(m Measurer) string {
	if id, ok := m.(Identifier); ok {
		return id.MetricsID()
	}
	return fmt.Sprintf("%T", m)
}

// CoreMeasurer measures text with the PDF core font metrics.
// It is not safe for concurrent use; each render owns one.
type CoreMeasurer struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewCoreMeasurer creates a measurer backed by a dry fpdf document.
func NewCoreMeasurer() *CoreMeasurer {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 612, Ht: 792},
	})
	return &CoreMeasurer{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Width implements [Measurer].
func (m *CoreMeasurer) Width(text string, face fonts.Face) (float64, error) {
	c, ok := fonts.Lookup(face.Name)
	if !ok {
		return 0, errors.New(errors.ErrCodeMeasurement, "unsupported font %q", face.Name)
	}
	if face.Size <= 0 {
		return 0, errors.New(errors.ErrCodeMeasurement, "invalid font size %v for %s", face.Size, face.Name)
	}
	if text == "" {
		return 0, nil
	}

	m.pdf.SetFont(c.Family, c.Style, face.Size)
	w := m.pdf.GetStringWidth(m.translate(text))
	if err := m.pdf.Error(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeMeasurement, err, "measure %q in %s", text, face)
	}
	return w, nil
}

// MetricsID implements [Identifier].
func (m *CoreMeasurer) MetricsID() string { return "core" }

// Translate converts UTF-8 text to the single-byte encoding used for core
// fonts. Runes outside cp1252 are replaced with a placeholder byte.
func (m *CoreMeasurer) Translate(s string) string {
	return m.translate(s)
}

// Monospace measures every rune as Advance em wide. It gives layout tests
// round numbers without depending on font tables.
type Monospace struct {
	Advance float64
}

// Width implements [Measurer].
func (m Monospace) Width(text string, face fonts.Face) (float64, error) {
	if face.Size <= 0 {
		return 0, errors.New(errors.ErrCodeMeasurement, "invalid font size %v for %s", face.Size, face.Name)
	}
	return float64(utf8.RuneCountInString(text)) * m.Advance * face.Size, nil
}

// MetricsID implements [Identifier].
func (m Monospace) MetricsID() string { return fmt.Sprintf("monospace:%g", m.Advance) }

var (
	_ Measurer   = (*CoreMeasurer)(nil)
	_ Measurer   = Monospace{}
	_ Identifier = (*CoreMeasurer)(nil)
	_ Identifier = Monospace{}
)

package sink

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/matzehuels/topicsheet/pkg/errors"
)

// Info summarises a rendered PDF.
type Info struct {
	Pages int `json:"pages"`
	Size  int `json:"size"`
}

// Verify parses and validates a PDF and returns its page count.
func Verify(data []byte) (Info, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read pdf")
	}
	if err := api.ValidateContext(ctx); err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "validate pdf")
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "count pages")
	}
	return Info{Pages: ctx.PageCount, Size: len(data)}, nil
}

// ExtractText returns the text of every page, one string per page. Glyphs
// sharing a baseline are joined into one line; lines run top to bottom.
func ExtractText(data []byte) (pages []string, err error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open pdf")
	}

	// The reader panics on malformed content streams.
	defer func() {
		if p := recover(); p != nil {
			pages, err = nil, errors.New(errors.ErrCodeInvalidFormat, "extract text: %v", p)
		}
	}()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, joinLines(page.Content().Text))
	}
	return pages, nil
}

// runGap is the horizontal gap, in em, above which two glyphs on the same
// baseline belong to different text runs.
const runGap = 0.2

// joinLines groups glyphs by baseline, top to bottom, and orders each line
// left to right. Separate runs on one baseline, such as the cells of a
// table row, are joined with a space.
func joinLines(texts []pdf.Text) string {
	byLine := make(map[float64][]pdf.Text)
	for _, t := range texts {
		y := float64(int(t.Y*10)) / 10
		byLine[y] = append(byLine[y], t)
	}

	ys := make([]float64, 0, len(byLine))
	for y := range byLine {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	lines := make([]string, len(ys))
	for i, y := range ys {
		glyphs := byLine[y]
		sort.SliceStable(glyphs, func(a, b int) bool { return glyphs[a].X < glyphs[b].X })

		var b strings.Builder
		for j, g := range glyphs {
			if j > 0 {
				prev := glyphs[j-1]
				gap := g.X - (prev.X + prev.W)
				if gap > runGap*g.FontSize && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// String implements fmt.Stringer.
func (i Info) String() string {
	return fmt.Sprintf("%d pages, %d bytes", i.Pages, i.Size)
}

package sink

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/render/compose"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

func sampleLayout(t *testing.T, fields sheet.FieldMap) layout.Layout {
	t.Helper()
	c, err := compose.New(metrics.NewCoreMeasurer(), compose.DefaultOptions())
	require.NoError(t, err)
	l, err := c.Compose(sheet.Build(fields))
	require.NoError(t, err)
	return l
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestRenderPDF(t *testing.T) {
	l := sampleLayout(t, sheet.FieldMap{"Topic": "Expansion", "Decision": "Proceed"})

	data, err := RenderPDF(l, WithTitle("Q3"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	info, err := Verify(data)
	require.NoError(t, err)
	assert.Equal(t, l.PageCount(), info.Pages)
	assert.Equal(t, len(data), info.Size)

	pages, err := ExtractText(data)
	require.NoError(t, err)
	require.Len(t, pages, l.PageCount())

	page1 := squash(pages[0])
	assert.Contains(t, page1, "TurningPointforGod")
	assert.Contains(t, page1, "Topic")
	assert.Contains(t, page1, "Expansion")
	assert.Contains(t, page1, "PrimaryRecommendation")

	page2 := squash(pages[1])
	assert.Contains(t, page2, "TurningPointforGod")
	assert.Contains(t, page2, "OptionsTable")
	assert.Contains(t, page2, "Proceed")
	assert.Contains(t, page2, "KeyActions:")
	assert.NotContains(t, pages[1], "Option 1Option 2")
}

func glyphs(s string, x, y, advance float64) []pdf.Text {
	out := make([]pdf.Text, 0, len(s))
	for i, r := range s {
		out = append(out, pdf.Text{X: x + float64(i)*advance, Y: y, W: advance, FontSize: 10, S: string(r)})
	}
	return out
}

func TestJoinLines(t *testing.T) {
	var texts []pdf.Text
	texts = append(texts, glyphs("Option 2", 300, 500, 5)...)
	texts = append(texts, glyphs("Option 1", 150, 500, 5)...)
	texts = append(texts, glyphs("Options Table", 50, 600, 5)...)
	texts = append(texts, glyphs("Pros", 50, 480, 5)...)

	got := joinLines(texts)
	assert.Equal(t, "Options Table\nOption 1 Option 2\nPros", got)
}

func TestJoinLinesZeroWidthGlyphs(t *testing.T) {
	// Glyphs without width metrics share the X of their run.
	var texts []pdf.Text
	for _, r := range "Budget" {
		texts = append(texts, pdf.Text{X: 60, Y: 400, FontSize: 10, S: string(r)})
	}
	for _, r := range "Fast" {
		texts = append(texts, pdf.Text{X: 200, Y: 400, FontSize: 10, S: string(r)})
	}
	assert.Equal(t, "Budget Fast", joinLines(texts))
}

func TestRenderPDFDeterministic(t *testing.T) {
	l := sampleLayout(t, sheet.FieldMap{"Topic": "X"})

	a, err := RenderPDF(l)
	require.NoError(t, err)
	b, err := RenderPDF(l)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := RenderPDF(l, WithCreationDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWritePDFOutputFailure(t *testing.T) {
	err := WritePDF(brokenWriter{}, sampleLayout(t, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeOutputWrite))
	assert.True(t, errors.IsFatal(err))
}

func TestRenderPDFUnknownFont(t *testing.T) {
	l := layout.Layout{
		Width:  612,
		Height: 792,
		Pages: []layout.Page{{Number: 1, Ops: []layout.Op{{
			Kind: layout.OpText, X: 50, Y: 700, Text: "x",
			Face: layout.DefaultGeometry().Faces.Value,
		}}}},
	}
	l.Pages[0].Ops[0].Face.Name = "Papyrus"

	_, err := RenderPDF(l)
	assert.True(t, errors.Is(err, errors.ErrCodeMeasurement))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := Verify([]byte("not a pdf"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestRenderJSON(t *testing.T) {
	l := sampleLayout(t, sheet.FieldMap{"Topic": "X"})

	data, err := RenderJSON(l, WithJSONDraft("q3"))
	require.NoError(t, err)

	var out struct {
		Draft string `json:"draft"`
		Pages []struct {
			Number int      `json:"number"`
			Blocks []string `json:"blocks"`
			Ops    []any    `json:"ops"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "q3", out.Draft)
	require.Len(t, out.Pages, 2)
	assert.Contains(t, out.Pages[0].Blocks, "field:Topic")
	assert.Contains(t, out.Pages[1].Blocks, "decision")
	assert.Empty(t, out.Pages[0].Ops)
}

func TestParseJSONRendersSamePDF(t *testing.T) {
	l := sampleLayout(t, sheet.FieldMap{"Topic": "X", "Action3": "Ship it"})

	data, err := RenderJSON(l, WithJSONOps(), WithJSONResources())
	require.NoError(t, err)
	restored, err := ParseJSON(data)
	require.NoError(t, err)

	want, err := RenderPDF(l)
	require.NoError(t, err)
	got, err := RenderPDF(restored)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRenderSVG(t *testing.T) {
	l := sampleLayout(t, sheet.FieldMap{"Topic": "R&D <budget>"})
	svg := string(RenderSVG(l, WithBlockOutlines()))

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.Equal(t, l.PageCount(), strings.Count(svg, `<g id="page-`))
	assert.Contains(t, svg, "R&amp;D &lt;budget&gt;")
	assert.Contains(t, svg, `fill="#262e40"`)
	assert.Contains(t, svg, `data-block="field:Topic"`)
	assert.Contains(t, svg, `viewBox="0 0 612.0 1604.0"`)
}

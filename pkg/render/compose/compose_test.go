package compose

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/images"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

const longAction = "A very long sentence repeated many times to force wrapping across more than one line within the box width of roughly five hundred twelve points"

func compose(t *testing.T, opts Options, fields sheet.FieldMap) layout.Layout {
	t.Helper()
	c, err := New(metrics.NewCoreMeasurer(), opts)
	require.NoError(t, err)
	l, err := c.Compose(sheet.Build(fields))
	require.NoError(t, err)
	return l
}

func block(t *testing.T, l layout.Layout, name string) layout.Placement {
	t.Helper()
	p, ok := l.Block(name)
	require.True(t, ok, "block %s not placed", name)
	return p
}

func TestComposeTopicAndLongAction(t *testing.T) {
	l := compose(t, DefaultOptions(), sheet.FieldMap{
		"Topic":   "X",
		"Action1": longAction,
	})

	assert.GreaterOrEqual(t, l.PageCount(), 2)

	topic := block(t, l, "field:Topic")
	assert.Equal(t, 1, topic.Page)
	assert.Equal(t, []string{"X"}, topic.Lines)
	assert.Equal(t, 14.0+10, topic.Box.Height())

	action := block(t, l, "action:1")
	n := len(action.Lines)
	assert.GreaterOrEqual(t, n, 2)
	assert.Equal(t, 14*float64(n)+10, action.Box.Height())
	assert.Equal(t, longAction, strings.Join(action.Lines, " "))

	for _, f := range sheet.TopFields[1:] {
		p := block(t, l, "field:"+f.Label)
		assert.Empty(t, p.Lines, f.Label)
		assert.Equal(t, 14.0+10, p.Box.Height(), f.Label)
	}
	assert.Empty(t, l.Warnings)
}

func TestComposeEmptyDocument(t *testing.T) {
	l := compose(t, DefaultOptions(), nil)
	require.Equal(t, 2, l.PageCount())

	page1 := l.Texts(1)
	assert.Equal(t, []string{
		"Turning Point for God",
		"Strategic / Ad hoc Topic Summary",
		"Topic",
		"Point Person",
		"Role of Executive Team",
		"Executive Sponsor",
		"Problem Definition",
		"Outcome Description",
		"Primary Recommendation",
	}, page1)

	page2 := l.Texts(2)
	for _, want := range []string{"Options Table", "Option 1", "Option 2", "Option 3", "Description", "Obstacles", "Final Decision", "Key Actions:", "1.", "5."} {
		assert.Contains(t, page2, want)
	}

	require.Len(t, l.Rows, 5)
	for _, r := range l.Rows {
		assert.Equal(t, 2, r.Page)
		assert.Equal(t, 14.0+10, r.Height, r.Label)
	}

	decision := block(t, l, "decision")
	assert.Equal(t, 2, decision.Page)
	for i := 1; i <= 5; i++ {
		a := block(t, l, "action:"+string(rune('0'+i)))
		assert.Equal(t, 14.0+10, a.Box.Height())
		assert.Equal(t, 75.0, a.Box.Left)
		assert.Equal(t, 562.0, a.Box.Right)
	}

	again := compose(t, DefaultOptions(), nil)
	assert.Equal(t, l, again)
}

func TestComposeHeaderOnEveryPage(t *testing.T) {
	fields := sheet.FieldMap{}
	for _, k := range sheet.Keys() {
		fields[k] = strings.Repeat("lorem ipsum dolor sit amet ", 12)
	}
	l := compose(t, DefaultOptions(), fields)
	require.Greater(t, l.PageCount(), 2)

	band := DefaultBranding()
	for _, p := range l.Pages {
		require.NotEmpty(t, p.Ops)
		first := p.Ops[0]
		assert.Equal(t, layout.OpFill, first.Kind, "page %d", p.Number)
		assert.Equal(t, band.BandColor, first.Color)
		assert.Equal(t, 722.0, first.Box.Bottom)
		assert.Equal(t, band.Organisation, p.Ops[1].Text)
	}
}

func TestComposeBlocksStayAboveBottomMargin(t *testing.T) {
	fields := sheet.FieldMap{}
	for _, k := range sheet.Keys() {
		fields[k] = strings.Repeat("strategy ", 80)
	}
	l := compose(t, DefaultOptions(), fields)

	for _, b := range l.Blocks {
		assert.GreaterOrEqual(t, b.Box.Bottom, 60.0, "%s on page %d", b.Name, b.Page)
		assert.LessOrEqual(t, b.Box.Top, 702.0, "%s on page %d", b.Name, b.Page)
	}
	for _, r := range l.Rows {
		for _, col := range r.Columns {
			assert.Equal(t, r.Top, col.Top)
			assert.Equal(t, r.Height, col.Height())
		}
	}
}

func TestComposeKeyActionsKeptWithFirstAction(t *testing.T) {
	fields := sheet.FieldMap{}
	for n := 1; n <= sheet.OptionCount; n++ {
		fields[sheet.OptionKey(n, "Description")] = strings.Repeat("detail ", 150)
	}
	l := compose(t, DefaultOptions(), fields)

	first := block(t, l, "action:1")
	assert.Contains(t, l.Texts(first.Page), "Key Actions:")
}

func TestComposeLogos(t *testing.T) {
	opts := DefaultOptions()
	opts.HeaderLogo = &images.Image{Name: "header", Type: "PNG", Width: 40, Height: 40}
	opts.FooterLogo = &images.Image{Name: "footer", Type: "PNG", Width: 80, Height: 30}
	l := compose(t, opts, nil)

	assert.Equal(t, []string{"footer", "header"}, l.ResourceNames())

	count := func(page layout.Page, name string) int {
		n := 0
		for _, op := range page.Ops {
			if op.Kind == layout.OpImage && op.Image == name {
				n++
			}
		}
		return n
	}
	for _, p := range l.Pages {
		assert.Equal(t, 1, count(p, "header"), "page %d", p.Number)
	}
	last := l.Pages[len(l.Pages)-1]
	assert.Equal(t, 1, count(last, "footer"))
	assert.Equal(t, 0, count(l.Pages[0], "footer"))

	ops := last.Ops
	footer := ops[len(ops)-1]
	assert.Equal(t, layout.BoxAt(50, 50, 80, 30), footer.Box)
}

func TestComposeSummaryOnly(t *testing.T) {
	opts := DefaultOptions()
	opts.SummaryOnly = true
	l := compose(t, opts, sheet.FieldMap{"Topic": "ignored"})

	assert.Equal(t, 1, l.PageCount())
	assert.Equal(t, []string{"Turning Point for God", "Strategic / Ad hoc Topic Summary"}, l.Texts(1))
	assert.Empty(t, l.Blocks)
}

func TestComposeRowLabelFace(t *testing.T) {
	labelFace := func(l layout.Layout) fonts.Face {
		for _, op := range l.Pages[1].Ops {
			if op.Kind == layout.OpText && op.Text == "Description" {
				return op.Face
			}
		}
		t.Fatal("Description label not drawn")
		return fonts.Face{}
	}

	opts := DefaultOptions()
	assert.Equal(t, fonts.HelveticaBold, labelFace(compose(t, opts, nil)).Name)

	opts.BoldRowLabels = false
	assert.Equal(t, fonts.Helvetica, labelFace(compose(t, opts, nil)).Name)
}

func TestComposeOversizedWordIsLogged(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = log.New(&buf)

	l := compose(t, opts, sheet.FieldMap{"Option1Pros": strings.Repeat("x", 120)})

	require.Len(t, l.Warnings, 1)
	assert.Equal(t, layout.WarnOversizedWord, l.Warnings[0].Kind)
	assert.Equal(t, "table:Pros:1", l.Warnings[0].Block)
	assert.Contains(t, buf.String(), "oversized_word")
}

func TestComposeOversizedBlockNamesTheBlock(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = log.New(&buf)

	l := compose(t, opts, sheet.FieldMap{sheet.KeyProblem: strings.Repeat("strategy ", 4000)})

	require.Len(t, l.Warnings, 1)
	w := l.Warnings[0]
	assert.Equal(t, layout.WarnOversizedBlock, w.Kind)
	assert.Equal(t, "field:Problem Definition", w.Block)
	assert.Equal(t, 2, w.Page)
	assert.Contains(t, buf.String(), "field:Problem Definition")
}

type failingMeasurer struct{}

func (failingMeasurer) Width(string, fonts.Face) (float64, error) {
	return 0, errors.New(errors.ErrCodeMeasurement, "no metrics")
}

func TestComposeMeasurementFailure(t *testing.T) {
	c, err := New(failingMeasurer{}, DefaultOptions())
	require.NoError(t, err)

	_, err = c.Compose(sheet.Build(sheet.FieldMap{"Topic": "X"}))
	assert.True(t, errors.Is(err, errors.ErrCodeMeasurement))
	assert.True(t, errors.IsFatal(err))
}

func TestNewRejectsBadGeometry(t *testing.T) {
	opts := DefaultOptions()
	opts.Geometry.Faces.Value.Name = "Wingdings"
	_, err := New(metrics.NewCoreMeasurer(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

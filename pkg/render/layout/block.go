package layout

import (
	"fmt"

	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
)

// TextBlock is wrapped text bound to the one face it is measured and drawn
// with. Height and Draw both wrap through Lines, so a block is always drawn
// with exactly the lines it was sized for.
type TextBlock struct {
	Name     string
	Text     string
	MaxWidth float64
	Face     fonts.Face
}

// Lines wraps the block text.
func (b TextBlock) Lines(m metrics.Measurer) ([]string, error) {
	return Wrap(m, b.Text, b.MaxWidth, b.Face)
}

// Height returns LineHeight * max(1, lines) + padding. An empty block keeps
// the height of one line.
func (b TextBlock) Height(m metrics.Measurer, padding float64) (float64, error) {
	lines, err := b.Lines(m)
	if err != nil {
		return 0, err
	}
	return heightFor(len(lines), b.Face, padding), nil
}

func heightFor(n int, face fonts.Face, padding float64) float64 {
	return face.LineHeight*float64(max(1, n)) + padding
}

// Baseline returns the baseline of line i (0-based) for a block whose box
// top is at top. Half the padding sits above the first line.
func (b TextBlock) Baseline(top, padding float64, i int) float64 {
	return top - padding/2 - float64(i+1)*b.Face.LineHeight + b.Face.Descent()
}

// Draw emits the wrapped lines starting at x, inside a box whose top edge is
// at top, and flags any line wider than MaxWidth. It returns the lines drawn.
func (b TextBlock) Draw(f *Flow, m metrics.Measurer, x, top, padding float64) ([]string, error) {
	lines, err := b.Lines(m)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		f.Text(x, b.Baseline(top, padding, i), line, b.Face, Black)
	}

	wide, err := Oversized(m, lines, b.MaxWidth, b.Face)
	if err != nil {
		return nil, err
	}
	for _, word := range wide {
		f.Warn(Warning{
			Kind:   WarnOversizedWord,
			Block:  b.Name,
			Detail: fmt.Sprintf("word %q does not fit in %.1fpt", word, b.MaxWidth),
		})
	}
	return lines, nil
}

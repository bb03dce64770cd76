package sink

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"

	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	gap     float64
	outline bool
}

// WithPageGap sets the vertical space between stacked pages. Default 20.
func WithPageGap(gap float64) SVGOption { return func(r *svgRenderer) { r.gap = gap } }

// WithBlockOutlines overlays every placed block with a dashed outline.
func WithBlockOutlines() SVGOption { return func(r *svgRenderer) { r.outline = true } }

// RenderSVG renders every page of the layout stacked vertically into one
// SVG preview.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{gap: 20}
	for _, opt := range opts {
		opt(&r)
	}

	n := float64(len(l.Pages))
	total := n*l.Height + max(0, n-1)*r.gap

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, total, l.Width, total)

	for i, p := range l.Pages {
		offset := float64(i) * (l.Height + r.gap)
		fmt.Fprintf(&buf, `  <g id="page-%d" transform="translate(0 %.2f)">`+"\n", p.Number, offset)
		fmt.Fprintf(&buf, `    <rect x="0" y="0" width="%.2f" height="%.2f" fill="white" stroke="#ccc"/>`+"\n", l.Width, l.Height)
		for _, op := range p.Ops {
			r.renderOp(&buf, l, op)
		}
		if r.outline {
			for _, b := range l.Blocks {
				if b.Page == p.Number {
					renderOutline(&buf, l.Height, b)
				}
			}
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderOp(buf *bytes.Buffer, l layout.Layout, op layout.Op) {
	flip := func(y float64) float64 { return l.Height - y }
	b := op.Box
	switch op.Kind {
	case layout.OpFill:
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			b.Left, flip(b.Top), b.Width(), b.Height(), rgb(op.Color))
	case layout.OpStroke:
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
			b.Left, flip(b.Top), b.Width(), b.Height(), rgb(op.Color))
	case layout.OpText:
		family, weight := svgFont(op.Face)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="%s" font-weight="%s" font-size="%g" fill="%s">%s</text>`+"\n",
			op.X, flip(op.Y), family, weight, op.Face.Size, rgb(op.Color), html.EscapeString(op.Text))
	case layout.OpImage:
		res, ok := l.Resources[op.Image]
		if !ok {
			return
		}
		fmt.Fprintf(buf, `    <image x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="none" href="data:%s;base64,%s"/>`+"\n",
			b.Left, flip(b.Top), b.Width(), b.Height(), mimeType(res.Type), base64.StdEncoding.EncodeToString(res.Data))
	}
}

func renderOutline(buf *bytes.Buffer, height float64, p layout.Placement) {
	b := p.Box
	fmt.Fprintf(buf, `    <rect class="block" data-block="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#e33" stroke-dasharray="3 2"/>`+"\n",
		html.EscapeString(p.Name), b.Left, height-b.Top, b.Width(), b.Height())
}

func rgb(c layout.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgFont(f fonts.Face) (family, weight string) {
	weight = "normal"
	c, ok := fonts.Lookup(f.Name)
	if !ok {
		return "sans-serif", weight
	}
	switch c.Family {
	case "Times":
		family = "Times New Roman, serif"
	case "Courier":
		family = "Courier New, monospace"
	default:
		family = "Helvetica, Arial, sans-serif"
	}
	if c.Style == "B" || c.Style == "BI" {
		weight = "bold"
	}
	return family, weight
}

func mimeType(t string) string {
	switch t {
	case "JPG":
		return "image/jpeg"
	case "GIF":
		return "image/gif"
	}
	return "image/png"
}

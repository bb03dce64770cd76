package layout

import (
	"sort"

	"github.com/matzehuels/topicsheet/pkg/fonts"
)

// OpKind identifies a drawing operation.
type OpKind string

const (
	OpStroke OpKind = "stroke" // bordered rectangle
	OpFill   OpKind = "fill"   // filled rectangle
	OpText   OpKind = "text"   // single line of text at a baseline
	OpImage  OpKind = "image"  // raster resource scaled into a box
)

// Color is an RGB color.
type Color struct {
	R uint8 `json:"r" toml:"r" yaml:"r"`
	G uint8 `json:"g" toml:"g" yaml:"g"`
	B uint8 `json:"b" toml:"b" yaml:"b"`
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// Op is one drawing operation on a page. Box is used by stroke, fill and
// image ops; X and Y are the text baseline origin.
type Op struct {
	Kind  OpKind     `json:"kind"`
	Box   Box        `json:"box"`
	X     float64    `json:"x,omitempty"`
	Y     float64    `json:"y,omitempty"`
	Text  string     `json:"text,omitempty"`
	Face  fonts.Face `json:"face"`
	Color Color      `json:"color"`
	Image string     `json:"image,omitempty"`
}

// Page is the ordered list of operations drawn on one page.
type Page struct {
	Number int  `json:"number"`
	Ops    []Op `json:"ops"`
}

// Placement records where a named block landed. Lines are the wrapped lines
// drawn inside it.
type Placement struct {
	Name  string   `json:"name"`
	Page  int      `json:"page"`
	Box   Box      `json:"box"`
	Lines []string `json:"lines,omitempty"`
}

// WarningKind classifies a non-fatal layout condition.
type WarningKind string

const (
	// WarnOversizedWord marks a single word wider than its box. It is drawn
	// on its own line and overflows the box edge.
	WarnOversizedWord WarningKind = "oversized_word"

	// WarnOversizedBlock marks a block taller than a fresh page. It is
	// placed at the top of the page and overflows the bottom margin.
	WarnOversizedBlock WarningKind = "oversized_block"

	// WarnImageMissing marks a logo that could not be loaded and was skipped.
	WarnImageMissing WarningKind = "image_missing"
)

// Warning is a non-fatal condition found during layout.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Page   int         `json:"page"`
	Block  string      `json:"block,omitempty"`
	Detail string      `json:"detail"`
}

// Resource is an embedded raster image referenced by image ops.
type Resource struct {
	Type   string `json:"type"` // "PNG", "JPG" or "GIF"
	Data   []byte `json:"data"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Layout is the immutable result of laying out a document: a page size,
// the paginated drawing operations, and bookkeeping used for verification.
type Layout struct {
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	Pages     []Page              `json:"pages"`
	Blocks    []Placement         `json:"blocks"`
	Rows      []RowPlacement      `json:"rows,omitempty"`
	Resources map[string]Resource `json:"resources,omitempty"`
	Warnings  []Warning           `json:"warnings,omitempty"`
}

// PageCount returns the number of pages.
func (l Layout) PageCount() int { return len(l.Pages) }

// Block returns the first placement with the given name.
func (l Layout) Block(name string) (Placement, bool) {
	for _, p := range l.Blocks {
		if p.Name == name {
			return p, true
		}
	}
	return Placement{}, false
}

// Texts returns the text of every text op on page n (1-based), in drawing order.
func (l Layout) Texts(n int) []string {
	if n < 1 || n > len(l.Pages) {
		return nil
	}
	var out []string
	for _, op := range l.Pages[n-1].Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// ResourceNames returns the resource names in sorted order.
func (l Layout) ResourceNames() []string {
	names := make([]string, 0, len(l.Resources))
	for n := range l.Resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

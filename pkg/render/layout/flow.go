package layout

import (
	"fmt"

	"github.com/matzehuels/topicsheet/pkg/fonts"
)

// HeaderFunc draws the page header. It runs once for every page the flow
// opens, before any content is placed on it.
type HeaderFunc func(f *Flow)

// Flow is the vertical cursor of a document being laid out. It owns the
// pages emitted so far and is the only mutable layout state; a new Flow is
// created for every render.
//
// Blocks are placed atomically: callers [Flow.Reserve] the full height of a
// block before drawing it, so no block is ever split across pages.
type Flow struct {
	geo       Geometry
	header    HeaderFunc
	y         float64
	pages     []Page
	blocks    []Placement
	rows      []RowPlacement
	resources map[string]Resource
	warnings  []Warning
}

// NewFlow opens the first page and draws its header.
func NewFlow(geo Geometry, header HeaderFunc) *Flow {
	f := &Flow{geo: geo, header: header}
	f.newPage()
	return f
}

func (f *Flow) newPage() {
	f.pages = append(f.pages, Page{Number: len(f.pages) + 1})
	f.y = f.geo.ContentTop()
	if f.header != nil {
		f.header(f)
	}
}

// Geometry returns the geometry the flow was created with.
func (f *Flow) Geometry() Geometry { return f.geo }

// Y returns the current cursor position.
func (f *Flow) Y() float64 { return f.y }

// Page returns the current page number (1-based).
func (f *Flow) Page() int { return len(f.pages) }

// Fresh reports whether nothing has been placed on the current page yet.
func (f *Flow) Fresh() bool { return f.y >= f.geo.ContentTop() }

// Reserve makes room for a block of height h below the cursor. If the block
// would cross the bottom margin, the current page is closed, a new one is
// opened with its header, and Reserve returns false.
//
// A block that does not fit even on a fresh page is left where it is and
// flagged with [WarnOversizedBlock] under name; Reserve never opens more
// than one page.
func (f *Flow) Reserve(name string, h float64) bool {
	if f.y-h >= f.geo.BottomMargin {
		return true
	}
	moved := false
	if !f.Fresh() {
		f.newPage()
		moved = true
	}
	if f.y-h < f.geo.BottomMargin {
		f.Warn(Warning{
			Kind:   WarnOversizedBlock,
			Block:  name,
			Detail: fmt.Sprintf("block of %.1fpt exceeds page content height %.1fpt", h, f.y-f.geo.BottomMargin),
		})
	}
	return !moved
}

// Advance moves the cursor down by d without checking the bottom margin.
func (f *Flow) Advance(d float64) { f.y -= d }

// BreakPage closes the current page and opens a new one.
func (f *Flow) BreakPage() { f.newPage() }

func (f *Flow) emit(op Op) {
	p := &f.pages[len(f.pages)-1]
	p.Ops = append(p.Ops, op)
}

// Stroke draws the outline of b.
func (f *Flow) Stroke(b Box, c Color) { f.emit(Op{Kind: OpStroke, Box: b, Color: c}) }

// Fill paints b.
func (f *Flow) Fill(b Box, c Color) { f.emit(Op{Kind: OpFill, Box: b, Color: c}) }

// Text draws s with its baseline origin at (x, y). Empty strings are skipped.
func (f *Flow) Text(x, y float64, s string, face fonts.Face, c Color) {
	if s == "" {
		return
	}
	f.emit(Op{Kind: OpText, X: x, Y: y, Text: s, Face: face, Color: c})
}

// Image draws the named resource scaled into b.
func (f *Flow) Image(name string, b Box) { f.emit(Op{Kind: OpImage, Box: b, Image: name}) }

// AddResource registers an image resource for image ops.
func (f *Flow) AddResource(name string, r Resource) {
	if f.resources == nil {
		f.resources = make(map[string]Resource)
	}
	f.resources[name] = r
}

// Place records where a named block landed.
func (f *Flow) Place(p Placement) { f.blocks = append(f.blocks, p) }

// PlaceRow records where a table row landed.
func (f *Flow) PlaceRow(r RowPlacement) { f.rows = append(f.rows, r) }

// Warn records a non-fatal condition. A zero Page defaults to the current page.
func (f *Flow) Warn(w Warning) {
	if w.Page == 0 {
		w.Page = f.Page()
	}
	f.warnings = append(f.warnings, w)
}

// Finish returns the finished layout. The flow must not be used afterwards.
func (f *Flow) Finish() Layout {
	return Layout{
		Width:     f.geo.PageWidth,
		Height:    f.geo.PageHeight,
		Pages:     f.pages,
		Blocks:    f.blocks,
		Rows:      f.rows,
		Resources: f.resources,
		Warnings:  f.warnings,
	}
}

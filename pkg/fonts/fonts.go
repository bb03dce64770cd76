// Package fonts names the PDF core fonts used for layout and drawing.
//
// Only the standard Type 1 core fonts are supported. They need no embedding,
// every PDF reader ships them, and their advance widths are fixed, which
// keeps measurement deterministic across machines.
package fonts

import (
	"fmt"
	"sort"
)

// PostScript names of the supported core fonts.
const (
	Helvetica            = "Helvetica"
	HelveticaBold        = "Helvetica-Bold"
	HelveticaOblique     = "Helvetica-Oblique"
	HelveticaBoldOblique = "Helvetica-BoldOblique"
	TimesRoman           = "Times-Roman"
	TimesBold            = "Times-Bold"
	TimesItalic          = "Times-Italic"
	TimesBoldItalic      = "Times-BoldItalic"
	Courier              = "Courier"
	CourierBold          = "Courier-Bold"
	CourierOblique       = "Courier-Oblique"
	CourierBoldOblique   = "Courier-BoldOblique"
)

// Core describes how a core font is selected in fpdf and where its glyphs sit
// relative to the baseline.
type Core struct {
	Family string // fpdf family name
	Style  string // fpdf style string: "", "B", "I" or "BI"

	// Descent is the descender depth as a fraction of the font size
	// (from the AFM Descender value).
	Descent float64

	// CapHeight is the capital height as a fraction of the font size.
	CapHeight float64
}

var core = map[string]Core{
	Helvetica:            {Family: "Helvetica", Style: "", Descent: 0.207, CapHeight: 0.718},
	HelveticaBold:        {Family: "Helvetica", Style: "B", Descent: 0.207, CapHeight: 0.718},
	HelveticaOblique:     {Family: "Helvetica", Style: "I", Descent: 0.207, CapHeight: 0.718},
	HelveticaBoldOblique: {Family: "Helvetica", Style: "BI", Descent: 0.207, CapHeight: 0.718},
	TimesRoman:           {Family: "Times", Style: "", Descent: 0.217, CapHeight: 0.662},
	TimesBold:            {Family: "Times", Style: "B", Descent: 0.217, CapHeight: 0.676},
	TimesItalic:          {Family: "Times", Style: "I", Descent: 0.217, CapHeight: 0.653},
	TimesBoldItalic:      {Family: "Times", Style: "BI", Descent: 0.217, CapHeight: 0.669},
	Courier:              {Family: "Courier", Style: "", Descent: 0.157, CapHeight: 0.562},
	CourierBold:          {Family: "Courier", Style: "B", Descent: 0.157, CapHeight: 0.562},
	CourierOblique:       {Family: "Courier", Style: "I", Descent: 0.157, CapHeight: 0.562},
	CourierBoldOblique:   {Family: "Courier", Style: "BI", Descent: 0.157, CapHeight: 0.562},
}

// Lookup returns the core font registered under name.
func Lookup(name string) (Core, bool) {
	c, ok := core[name]
	return c, ok
}

// Names returns the supported font names, sorted.
func Names() []string {
	names := make([]string, 0, len(core))
	for n := range core {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Face is the single (font, size, line height) tuple a text block is both
// measured and drawn with.
type Face struct {
	Name       string  `json:"name" toml:"name" yaml:"name"`
	Size       float64 `json:"size" toml:"size" yaml:"size"`
	LineHeight float64 `json:"line_height" toml:"line_height" yaml:"line_height"`
}

// Validate reports whether the face can be measured.
func (f Face) Validate() error {
	if _, ok := core[f.Name]; !ok {
		return fmt.Errorf("unsupported font %q", f.Name)
	}
	if f.Size <= 0 {
		return fmt.Errorf("font size must be positive, got %v", f.Size)
	}
	if f.LineHeight <= 0 {
		return fmt.Errorf("line height must be positive, got %v", f.LineHeight)
	}
	return nil
}

// Descent returns the descender depth in points. Zero for unknown fonts.
func (f Face) Descent() float64 {
	return core[f.Name].Descent * f.Size
}

// CapHeight returns the capital height in points. Zero for unknown fonts.
func (f Face) CapHeight() float64 {
	return core[f.Name].CapHeight * f.Size
}

// String implements fmt.Stringer.
func (f Face) String() string {
	return fmt.Sprintf("%s %g/%g", f.Name, f.Size, f.LineHeight)
}

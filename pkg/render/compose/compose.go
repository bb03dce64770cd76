// Package compose lays out a summary sheet.
//
// A [Composer] walks a [sheet.Document] through a fresh [layout.Flow] in a
// fixed order:
//
//  1. the header band, redrawn on every page
//  2. the seven top fields, each a label above a bordered value box
//  3. a page break
//  4. the "Options Table" heading and the options table
//  5. the final decision box
//  6. the "Key Actions:" heading kept with the first of five numbered boxes
//  7. the footer logo on the last page, if any
//
// Every box is reserved at full height before it is drawn, so no box is
// split across pages. The footer logo is the exception: it sits at a fixed
// position on the last page and may overlap content.
package compose

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicsheet/pkg/render/images"
	"github.com/matzehuels/topicsheet/pkg/render/layout"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// Branding is the text and color of the header band.
type Branding struct {
	Organisation string       `json:"organisation" toml:"organisation" yaml:"organisation"`
	Title        string       `json:"title" toml:"title" yaml:"title"`
	BandColor    layout.Color `json:"band_color" toml:"band_color" yaml:"band_color"`
	TextColor    layout.Color `json:"text_color" toml:"text_color" yaml:"text_color"`
}

// DefaultBranding returns the stock header band.
func DefaultBranding() Branding {
	return Branding{
		Organisation: "Turning Point for God",
		Title:        "Strategic / Ad hoc Topic Summary",
		BandColor:    layout.Color{R: 38, G: 46, B: 64},
		TextColor:    layout.White,
	}
}

// Options configures a Composer.
type Options struct {
	Geometry layout.Geometry
	Branding Branding

	// BoldRowLabels draws table row labels in the row label face instead
	// of the value face.
	BoldRowLabels bool

	// SummaryOnly renders the header band on a single page and nothing else.
	SummaryOnly bool

	// Logos are optional; a nil logo is skipped.
	HeaderLogo *images.Image
	FooterLogo *images.Image

	Logger *log.Logger
}

// DefaultOptions returns the stock sheet options.
func DefaultOptions() Options {
	return Options{
		Geometry:      layout.DefaultGeometry(),
		Branding:      DefaultBranding(),
		BoldRowLabels: true,
	}
}

// Composer lays out documents. It holds no per-document state, but the
// measurer it wraps may not be shared between goroutines.
type Composer struct {
	m    metrics.Measurer
	opts Options
	log  *log.Logger
}

// New validates the geometry and returns a composer.
func New(m metrics.Measurer, opts Options) (*Composer, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Composer{m: m, opts: opts, log: logger}, nil
}

// Compose lays out doc. A measurement failure aborts the layout; oversized
// words and blocks are recorded as warnings and logged.
func (c *Composer) Compose(doc sheet.Document) (layout.Layout, error) {
	f := layout.NewFlow(c.opts.Geometry, c.header)
	c.addResources(f)

	if err := c.body(f, doc); err != nil {
		return layout.Layout{}, err
	}
	c.footer(f)

	l := f.Finish()
	for _, w := range l.Warnings {
		c.log.Warn("layout", "kind", w.Kind, "page", w.Page, "block", w.Block, "detail", w.Detail)
	}
	c.log.Debug("composed", "pages", l.PageCount(), "blocks", len(l.Blocks), "warnings", len(l.Warnings))
	return l, nil
}

func (c *Composer) body(f *layout.Flow, doc sheet.Document) error {
	if c.opts.SummaryOnly {
		return nil
	}

	for _, fld := range doc.TopFields {
		if err := c.field(f, "field:"+fld.Label, fld); err != nil {
			return err
		}
	}

	f.BreakPage()
	c.heading(f, sheet.OptionsHeading)
	if _, err := layout.Table(f, c.m, doc.Table, c.tableStyle()); err != nil {
		return err
	}

	if err := c.field(f, "decision", doc.Decision); err != nil {
		return err
	}
	return c.actions(f, doc.Actions)
}

func (c *Composer) header(f *layout.Flow) {
	g := f.Geometry()
	b := c.opts.Branding
	fc := g.Faces

	f.Fill(layout.BoxAt(0, g.PageHeight, g.PageWidth, g.HeaderBand), b.BandColor)
	f.Text(g.Margin, g.PageHeight-30, b.Organisation, fc.BandTitle, b.TextColor)
	f.Text(g.Margin, g.PageHeight-50, b.Title, fc.BandSubtitle, b.TextColor)
	if c.opts.HeaderLogo != nil {
		f.Image(c.opts.HeaderLogo.Name, g.HeaderLogo)
	}
}

func (c *Composer) footer(f *layout.Flow) {
	if c.opts.FooterLogo != nil {
		f.Image(c.opts.FooterLogo.Name, f.Geometry().FooterLogo)
	}
}

func (c *Composer) addResources(f *layout.Flow) {
	for _, img := range []*images.Image{c.opts.HeaderLogo, c.opts.FooterLogo} {
		if img == nil {
			continue
		}
		f.AddResource(img.Name, layout.Resource{Type: img.Type, Data: img.Data, Width: img.Width, Height: img.Height})
	}
}

// field draws a label with a full-width value box below it.
func (c *Composer) field(f *layout.Flow, name string, fld sheet.Field) error {
	g := f.Geometry()
	block := layout.TextBlock{
		Name:     name,
		Text:     fld.Value,
		MaxWidth: g.ContentWidth() - 2*g.Inset,
		Face:     g.Faces.Value,
	}
	h, err := block.Height(c.m, g.Padding)
	if err != nil {
		return err
	}

	f.Reserve(name, g.LabelGap+h)
	f.Text(g.Margin, f.Y(), fld.Label, g.Faces.Label, layout.Black)

	top := f.Y() - g.LabelGap
	box := layout.BoxAt(g.Margin, top, g.ContentWidth(), h)
	f.Stroke(box, layout.Black)
	lines, err := block.Draw(f, c.m, g.Margin+g.Inset, top, g.Padding)
	if err != nil {
		return err
	}
	f.Place(layout.Placement{Name: name, Page: f.Page(), Box: box, Lines: lines})
	f.Advance(h + g.FieldGap)
	return nil
}

func (c *Composer) heading(f *layout.Flow, text string) {
	g := f.Geometry()
	f.Text(g.Margin, f.Y(), text, g.Faces.Label, layout.Black)
	f.Advance(g.HeadingGap)
}

func (c *Composer) actionBlock(g layout.Geometry, n int, text string) layout.TextBlock {
	return layout.TextBlock{
		Name:     fmt.Sprintf("action:%d", n),
		Text:     text,
		MaxWidth: g.ContentWidth() - g.ActionIndent - 2*g.Inset,
		Face:     g.Faces.Value,
	}
}

// actions draws the numbered action boxes. The heading is reserved together
// with the first box so it never ends a page on its own.
func (c *Composer) actions(f *layout.Flow, actions []string) error {
	g := f.Geometry()
	if len(actions) == 0 {
		c.heading(f, sheet.ActionsHeading)
		return nil
	}

	lead := c.actionBlock(g, 1, actions[0])
	first, err := lead.Height(c.m, g.Padding)
	if err != nil {
		return err
	}
	f.Reserve(lead.Name, g.HeadingGap+first)
	c.heading(f, sheet.ActionsHeading)

	for i, text := range actions {
		n := i + 1
		block := c.actionBlock(g, n, text)
		h, err := block.Height(c.m, g.Padding)
		if err != nil {
			return err
		}

		f.Reserve(block.Name, h)
		top := f.Y()
		box := layout.BoxAt(g.Margin+g.ActionIndent, top, g.ContentWidth()-g.ActionIndent, h)
		f.Stroke(box, layout.Black)
		f.Text(g.Margin+g.Inset, block.Baseline(top, g.Padding, 0), fmt.Sprintf("%d.", n), g.Faces.ActionNumber, layout.Black)
		lines, err := block.Draw(f, c.m, box.Left+g.Inset, top, g.Padding)
		if err != nil {
			return err
		}
		f.Place(layout.Placement{Name: block.Name, Page: f.Page(), Box: box, Lines: lines})
		f.Advance(h + g.ActionGap)
	}
	return nil
}

func (c *Composer) tableStyle() layout.TableStyle {
	fc := c.opts.Geometry.Faces
	label := fc.Value
	if c.opts.BoldRowLabels {
		label = fc.RowLabel
	}
	return layout.TableStyle{HeaderFace: fc.TableHeader, LabelFace: label, CellFace: fc.Value}
}

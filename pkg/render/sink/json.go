package sink

import (
	"encoding/json"

	"github.com/matzehuels/topicsheet/pkg/render/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	draft     string
	ops       bool
	resources bool
}

// WithJSONDraft records the draft name in the output.
func WithJSONDraft(name string) JSONOption { return func(r *jsonRenderer) { r.draft = name } }

// WithJSONOps includes the per-page drawing operations. Without this, only
// page numbers, block placements, table rows and warnings are exported.
func WithJSONOps() JSONOption { return func(r *jsonRenderer) { r.ops = true } }

// WithJSONResources embeds the raw image data (base64).
func WithJSONResources() JSONOption { return func(r *jsonRenderer) { r.resources = true } }

type jsonOutput struct {
	Draft     string                     `json:"draft,omitempty"`
	Width     float64                    `json:"width"`
	Height    float64                    `json:"height"`
	Pages     []jsonPage                 `json:"pages"`
	Blocks    []layout.Placement         `json:"blocks"`
	Rows      []layout.RowPlacement      `json:"rows,omitempty"`
	Warnings  []layout.Warning           `json:"warnings,omitempty"`
	Resources map[string]layout.Resource `json:"resources,omitempty"`
}

type jsonPage struct {
	Number int         `json:"number"`
	Blocks []string    `json:"blocks"`
	Ops    []layout.Op `json:"ops,omitempty"`
}

// RenderJSON exports the layout for debugging and caching.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Draft:    r.draft,
		Width:    l.Width,
		Height:   l.Height,
		Blocks:   l.Blocks,
		Rows:     l.Rows,
		Warnings: l.Warnings,
	}
	if out.Blocks == nil {
		out.Blocks = []layout.Placement{}
	}
	if r.resources {
		out.Resources = l.Resources
	}

	for _, p := range l.Pages {
		jp := jsonPage{Number: p.Number, Blocks: []string{}}
		for _, b := range l.Blocks {
			if b.Page == p.Number {
				jp.Blocks = append(jp.Blocks, b.Name)
			}
		}
		if r.ops {
			jp.Ops = p.Ops
		}
		out.Pages = append(out.Pages, jp)
	}
	return json.MarshalIndent(out, "", "  ")
}

// ParseJSON restores a layout exported with [WithJSONOps] and
// [WithJSONResources]. Exports without ops parse into pages with no
// drawing operations.
func ParseJSON(data []byte) (layout.Layout, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return layout.Layout{}, err
	}
	l := layout.Layout{
		Width:     in.Width,
		Height:    in.Height,
		Blocks:    in.Blocks,
		Rows:      in.Rows,
		Warnings:  in.Warnings,
		Resources: in.Resources,
	}
	for _, p := range in.Pages {
		l.Pages = append(l.Pages, layout.Page{Number: p.Number, Ops: p.Ops})
	}
	return l, nil
}

// Package render groups the layout engine and its output sinks.
//
// # Overview
//
// Rendering a sheet happens in two steps. Composition turns a document
// into a [layout.Layout]: positioned boxes, text runs and lines per page.
// A sink then draws that layout into an output format. Composition never
// touches the output format, so the same layout serves every sink and can
// be cached as JSON.
//
// Subpackages:
//   - [metrics]: text width measurement for the core fonts
//   - [layout]: page geometry, the layout model and warnings
//   - [compose]: line wrapping, block sizing, page flow and tables
//   - [images]: logo loading and aspect-preserving fitting
//   - [sink]: PDF, JSON and SVG output plus PDF inspection
//
// # Usage
//
//	c, err := compose.New(metrics.NewCoreMeasurer(), compose.Options{})
//	l, err := c.Compose(sheet.Build(fields))
//	pdf, err := sink.RenderPDF(l)
//
// [layout.Layout]: github.com/matzehuels/topicsheet/pkg/render/layout#Layout
// [metrics]: github.com/matzehuels/topicsheet/pkg/render/metrics
// [layout]: github.com/matzehuels/topicsheet/pkg/render/layout
// [compose]: github.com/matzehuels/topicsheet/pkg/render/compose
// [images]: github.com/matzehuels/topicsheet/pkg/render/images
// [sink]: github.com/matzehuels/topicsheet/pkg/render/sink
package render

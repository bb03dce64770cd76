// Package layout computes the paginated geometry of a summary sheet.
//
// # Overview
//
// Layout runs before anything is written. It turns text and fixed geometry
// into a [Layout]: a list of pages, each an ordered list of drawing
// operations ([Op]) in PDF user space (points, origin bottom-left). Sinks in
// [render/sink] turn a Layout into PDF, SVG or JSON bytes.
//
// The building blocks are:
//
//   - [Wrap]: greedy word wrapping against a [metrics.Measurer]
//   - [TextBlock]: wrapped text bound to one [fonts.Face]; its Height and
//     Draw share the same wrap, so sizing and drawing always agree
//   - [Flow]: the vertical cursor with atomic block reservation and page
//     breaks that redraw the page header
//   - [Table]: a uniform grid where every cell of a row shares the height
//     of the tallest cell
//
// # Pagination
//
// Every block reserves its full height before drawing:
//
//	f := layout.NewFlow(geo, drawHeader)
//	h, _ := block.Height(m, geo.Padding)
//	f.Reserve(block.Name, h) // may open a new page
//	block.Draw(f, m, x, f.Y(), geo.Padding)
//	f.Advance(h + gap)
//
// Blocks are never split. A block taller than a fresh page stays on that
// page, overflows the bottom margin and is reported as a [Warning].
//
// [render/sink]: github.com/matzehuels/topicsheet/pkg/render/sink
package layout

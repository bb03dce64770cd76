// Package sink turns a finished [layout.Layout] into bytes.
//
// Three formats are supported:
//
//   - [RenderPDF] / [WritePDF]: the summary sheet itself, drawn with the PDF
//     core fonts via github.com/go-pdf/fpdf
//   - [RenderJSON]: the layout as JSON, for debugging and caching
//   - [RenderSVG]: all pages stacked into one SVG preview
//
// Layout coordinates have their origin at the bottom-left of a page; each
// sink flips them into its own space. Text is converted to cp1252 with the
// same translator the measurer uses, so drawn text is exactly the text that
// was measured.
//
// [Verify] re-reads a rendered PDF with pdfcpu and [ExtractText] pulls its
// text back out with ledongthuc/pdf; both are used by the inspect command
// and by tests.
package sink

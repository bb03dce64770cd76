package layout

import (
	"fmt"

	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
)

// TableRow is one labelled row of a table.
type TableRow struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

// TableSpec is a uniform grid: a label column followed by one column per
// header. Rows with fewer cells than headers are padded with empty cells;
// extra cells are ignored.
type TableSpec struct {
	Headers []string   `json:"headers"`
	Rows    []TableRow `json:"rows"`
}

// TableStyle selects the faces of a table.
type TableStyle struct {
	HeaderFace fonts.Face
	LabelFace  fonts.Face
	CellFace   fonts.Face
}

// RowPlacement records where a table row landed. Every column shares Top
// and Height.
type RowPlacement struct {
	Label   string  `json:"label"`
	Page    int     `json:"page"`
	Top     float64 `json:"top"`
	Height  float64 `json:"height"`
	Columns []Box   `json:"columns"`
}

// ColumnWidth returns the width of each of the k+1 equal columns.
func ColumnWidth(contentWidth float64, k int) float64 {
	return contentWidth / float64(k+1)
}

// Table lays out spec across the content width. The header row has a fixed
// height; every other row is as tall as its tallest cell and is placed
// atomically.
func Table(f *Flow, m metrics.Measurer, spec TableSpec, style TableStyle) ([]RowPlacement, error) {
	g := f.Geometry()
	k := len(spec.Headers)
	colW := ColumnWidth(g.ContentWidth(), k)
	textW := colW - 2*g.Inset

	if err := tableHeader(f, m, spec.Headers, colW, style.HeaderFace); err != nil {
		return nil, err
	}

	rows := make([]RowPlacement, 0, len(spec.Rows))
	for _, row := range spec.Rows {
		blocks := make([]TextBlock, k+1)
		blocks[0] = TextBlock{Name: cellName(row.Label, 0), Text: row.Label, MaxWidth: textW, Face: style.LabelFace}
		for c := 1; c <= k; c++ {
			text := ""
			if c-1 < len(row.Cells) {
				text = row.Cells[c-1]
			}
			blocks[c] = TextBlock{Name: cellName(row.Label, c), Text: text, MaxWidth: textW, Face: style.CellFace}
		}

		rowH := 0.0
		for _, b := range blocks {
			h, err := b.Height(m, g.Padding)
			if err != nil {
				return nil, err
			}
			rowH = max(rowH, h)
		}

		f.Reserve(rowName(row.Label), rowH)
		top := f.Y()
		rp := RowPlacement{Label: row.Label, Page: f.Page(), Top: top, Height: rowH, Columns: make([]Box, k+1)}
		for c, b := range blocks {
			box := BoxAt(g.Margin+float64(c)*colW, top, colW, rowH)
			f.Stroke(box, Black)
			lines, err := b.Draw(f, m, box.Left+g.Inset, top, g.Padding)
			if err != nil {
				return nil, err
			}
			f.Place(Placement{Name: b.Name, Page: f.Page(), Box: box, Lines: lines})
			rp.Columns[c] = box
		}
		f.PlaceRow(rp)
		rows = append(rows, rp)
		f.Advance(rowH + g.RowGap)
	}
	return rows, nil
}

func tableHeader(f *Flow, m metrics.Measurer, headers []string, colW float64, face fonts.Face) error {
	g := f.Geometry()
	f.Reserve(tableHeaderName, g.TableHeaderHeight)
	top := f.Y()
	for c := 0; c <= len(headers); c++ {
		box := BoxAt(g.Margin+float64(c)*colW, top, colW, g.TableHeaderHeight)
		f.Stroke(box, Black)
		if c == 0 {
			continue
		}
		h := headers[c-1]
		w, err := m.Width(h, face)
		if err != nil {
			return err
		}
		f.Text(box.CenterX()-w/2, box.CenterY()-face.CapHeight()/2, h, face, Black)
	}
	f.Place(Placement{
		Name: "table:header",
		Page: f.Page(),
		Box:  BoxAt(g.Margin, top, colW*float64(len(headers)+1), g.TableHeaderHeight),
	})
	f.Advance(g.TableHeaderHeight + g.RowGap)
	return nil
}

// tableHeaderName names the header row in warnings.
const tableHeaderName = "table:header"

func rowName(label string) string {
	return "table:" + label
}

func cellName(label string, col int) string {
	if col == 0 {
		return fmt.Sprintf("table:%s:label", label)
	}
	return fmt.Sprintf("table:%s:%d", label, col)
}

package extraction

import "strings"

// Coordinate represents a point in PDF coordinate space
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox represents a rectangular area in PDF coordinate space
type BoundingBox struct {
	LowerLeft  Coordinate `json:"lower_left"`
	UpperRight Coordinate `json:"upper_right"`
}

// Glyph is one positioned piece of text as reported by the PDF content stream.
// Y grows upwards, so lines higher on the page have larger Y.
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// Word is a run of adjacent glyphs on one baseline.
type Word struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y    float64 `json:"y"`
}

// Center returns the horizontal middle of the word.
func (w Word) Center() float64 {
	return (w.X0 + w.X1) / 2
}

// Line is a group of words sharing a baseline, ordered left to right.
type Line struct {
	Page  int     `json:"page"`
	Y     float64 `json:"y"`
	Words []Word  `json:"words"`
}

// Text joins the line's words with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Cell is one table cell. Multi-line content is joined with "\n".
type Cell struct {
	Text        string      `json:"text"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// Row is one table row; cell 0 holds the row label.
type Row struct {
	Y     float64 `json:"y"`
	Cells []Cell  `json:"cells"`
}

// Texts returns the cell contents of the row.
func (r Row) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}

// Table is a grid recovered from one page.
type Table struct {
	Page int   `json:"page"`
	Rows []Row `json:"rows"`
}

// NewTable builds a table from plain cell text, one slice per row. It is the
// shape produced by callers that already have cell text without geometry.
func NewTable(page int, rows ...[]string) Table {
	t := Table{Page: page, Rows: make([]Row, 0, len(rows))}
	for _, texts := range rows {
		row := Row{Cells: make([]Cell, len(texts))}
		for i, text := range texts {
			row.Cells[i] = Cell{Text: text}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

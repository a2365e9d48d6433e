package extraction

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// minGridDays is the shortest day header accepted (February).
	minGridDays = 28
	// DefaultRowPadding is how far below a row label, in points, cell text
	// still belongs to that row.
	DefaultRowPadding = 15.0
)

// dayColumns holds the horizontal extent of each day column; index 0 is day 1.
type dayColumns struct {
	lo []float64
	hi []float64
}

func (c dayColumns) labelLimit() float64 {
	return c.lo[0]
}

// column returns the zero-based day column containing x, or -1.
func (c dayColumns) column(x float64) int {
	for i := range c.lo {
		if x >= c.lo[i] && x < c.hi[i] {
			return i
		}
	}
	return -1
}

// DetectDayGrids finds roster grids: a header line numbering the days 1..28+
// followed by labelled rows. Every row's cell i (i ≥ 1) holds the text under
// day i; cell 0 holds the row label. Text up to padding points below a label
// line is folded into the same row, which catches secondary acronyms printed
// under the shift number.
func DetectDayGrids(lines []Line, padding float64) []Table {
	if padding <= 0 {
		padding = DefaultRowPadding
	}

	pages := make(map[int][]Line)
	var order []int
	for _, l := range lines {
		if _, seen := pages[l.Page]; !seen {
			order = append(order, l.Page)
		}
		pages[l.Page] = append(pages[l.Page], l)
	}
	sort.Ints(order)

	var tables []Table
	for _, page := range order {
		tables = append(tables, detectOnPage(page, pages[page], padding)...)
	}
	return tables
}

func detectOnPage(page int, lines []Line, padding float64) []Table {
	var tables []Table
	for i := 0; i < len(lines); i++ {
		cols, header, ok := dayHeader(lines[i])
		if !ok {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if _, _, next := dayHeader(lines[j]); next {
				end = j
				break
			}
		}
		table := buildGrid(page, cols, header, lines[i+1:end], padding)
		tables = append(tables, table)
		i = end - 1
	}
	return tables
}

// dayHeader looks for the longest run of words reading 1, 2, 3, ... in a line.
func dayHeader(line Line) (dayColumns, Row, bool) {
	var best, run []Word
	for _, w := range line.Words {
		n, err := strconv.Atoi(strings.TrimSpace(w.Text))
		switch {
		case err != nil:
			continue
		case n == 1:
			run = []Word{w}
		case len(run) > 0 && n == len(run)+1:
			run = append(run, w)
		default:
			run = nil
		}
		if len(run) > len(best) {
			best = run
		}
	}
	if len(best) < minGridDays {
		return dayColumns{}, Row{}, false
	}

	centers := make([]float64, len(best))
	for i, w := range best {
		centers[i] = w.Center()
	}
	cols := dayColumns{lo: make([]float64, len(centers)), hi: make([]float64, len(centers))}
	for i := range centers {
		switch i {
		case 0:
			cols.lo[i] = centers[0] - (centers[1]-centers[0])/2
		default:
			cols.lo[i] = (centers[i-1] + centers[i]) / 2
		}
		switch i {
		case len(centers) - 1:
			cols.hi[i] = centers[i] + (centers[i]-centers[i-1])/2
		default:
			cols.hi[i] = (centers[i] + centers[i+1]) / 2
		}
	}

	header := newRowBuilder(line.Y, cols)
	header.add(line)
	return cols, header.row(), true
}

type rowBuilder struct {
	y     float64
	minY  float64
	cols  dayColumns
	label []string
	cells [][]string
}

func newRowBuilder(y float64, cols dayColumns) *rowBuilder {
	return &rowBuilder{y: y, minY: y, cols: cols, cells: make([][]string, len(cols.lo))}
}

// add distributes one line's words over the label and day columns.
func (b *rowBuilder) add(line Line) {
	perCol := make([][]string, len(b.cells))
	for _, w := range line.Words {
		c := w.Center()
		if c < b.cols.labelLimit() {
			b.label = append(b.label, w.Text)
			continue
		}
		if idx := b.cols.column(c); idx >= 0 {
			perCol[idx] = append(perCol[idx], w.Text)
		}
	}
	for i, words := range perCol {
		if len(words) > 0 {
			b.cells[i] = append(b.cells[i], strings.Join(words, " "))
		}
	}
	b.minY = math.Min(b.minY, line.Y)
}

func (b *rowBuilder) row() Row {
	row := Row{Y: b.y, Cells: make([]Cell, 0, len(b.cells)+1)}
	row.Cells = append(row.Cells, Cell{
		Text: strings.Join(b.label, " "),
		BoundingBox: BoundingBox{
			UpperRight: Coordinate{X: b.cols.labelLimit(), Y: b.y},
			LowerLeft:  Coordinate{Y: b.minY},
		},
	})
	for i, lines := range b.cells {
		row.Cells = append(row.Cells, Cell{
			Text: strings.Join(lines, "\n"),
			BoundingBox: BoundingBox{
				LowerLeft:  Coordinate{X: b.cols.lo[i], Y: b.minY},
				UpperRight: Coordinate{X: b.cols.hi[i], Y: b.y},
			},
		})
	}
	return row
}

func hasLabel(line Line, cols dayColumns) bool {
	for _, w := range line.Words {
		if w.Center() < cols.labelLimit() {
			return true
		}
	}
	return false
}

func buildGrid(page int, cols dayColumns, header Row, body []Line, padding float64) Table {
	table := Table{Page: page, Rows: []Row{header}}

	var current *rowBuilder
	flush := func() {
		if current != nil {
			table.Rows = append(table.Rows, current.row())
		}
		current = nil
	}

	for _, line := range body {
		if hasLabel(line, cols) {
			flush()
			current = newRowBuilder(line.Y, cols)
		}
		if current == nil {
			continue
		}
		if current.y-line.Y > padding {
			flush()
			continue
		}
		current.add(line)
	}
	flush()

	return table
}

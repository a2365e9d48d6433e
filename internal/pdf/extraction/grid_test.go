package extraction

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const charWidth = 4.0

// place lays text out one glyph per character, centred on x.
func place(text string, x, y float64) []Glyph {
	start := x - charWidth*float64(len(text))/2
	out := make([]Glyph, 0, len(text))
	for i, r := range text {
		out = append(out, Glyph{Text: string(r), X: start + charWidth*float64(i), Y: y, W: charWidth, FontSize: 8})
	}
	return out
}

func dayCenter(day int) float64 {
	return 100 + 15*float64(day-1)
}

func rosterGlyphs(days int) []Glyph {
	var glyphs []Glyph
	glyphs = append(glyphs, place("MES", 30, 720)...)
	for d := 1; d <= days; d++ {
		glyphs = append(glyphs, place(strconv.Itoa(d), dayCenter(d), 720)...)
	}

	glyphs = append(glyphs, place("ENERO", 30, 700)...)
	glyphs = append(glyphs, place("708", dayCenter(1), 700)...)
	glyphs = append(glyphs, place("ENF", dayCenter(1), 690)...)
	glyphs = append(glyphs, place("V", dayCenter(3), 700)...)
	glyphs = append(glyphs, place("1308", dayCenter(31), 700)...)

	glyphs = append(glyphs, place("FEB", 30, 660)...)
	glyphs = append(glyphs, place("900", dayCenter(2), 660)...)

	glyphs = append(glyphs, place("nota al pie", dayCenter(10), 500)...)
	return glyphs
}

func TestAssembleLines(t *testing.T) {
	glyphs := append(place("SALARIO", 60, 700), place("BASE", 100, 700)...)
	glyphs = append(glyphs, Glyph{Text: " ", X: 200, Y: 700.5, W: 4, FontSize: 8})
	glyphs = append(glyphs, place("1.253,26", 300, 701)...)
	glyphs = append(glyphs, place("TOTAL", 60, 650)...)

	lines := AssembleLines(1, glyphs)

	require.Len(t, lines, 2)
	assert.Equal(t, "SALARIO BASE 1.253,26", lines[0].Text())
	assert.Equal(t, "TOTAL", lines[1].Text())
	assert.Equal(t, 1, lines[0].Page)
}

func TestAssembleLines_MultiRuneGlyph(t *testing.T) {
	lines := AssembleLines(2, []Glyph{{Text: "PLUS CONVENIO", X: 10, Y: 100, W: 52, FontSize: 8}})

	require.Len(t, lines, 1)
	require.Len(t, lines[0].Words, 2)
	assert.Equal(t, "PLUS", lines[0].Words[0].Text)
	assert.Equal(t, "CONVENIO", lines[0].Words[1].Text)
}

func TestAssembleLines_Empty(t *testing.T) {
	assert.Nil(t, AssembleLines(1, nil))
}

func TestDetectDayGrids(t *testing.T) {
	lines := AssembleLines(1, rosterGlyphs(31))

	tables := DetectDayGrids(lines, 0)

	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, 1, table.Page)

	var labels []string
	for _, row := range table.Rows {
		labels = append(labels, row.Cells[0].Text)
	}
	assert.Equal(t, []string{"MES", "ENERO", "FEB"}, labels)

	enero := table.Rows[1].Texts()
	require.Len(t, enero, 32)
	assert.Equal(t, "708\nENF", enero[1])
	assert.Equal(t, "", enero[2])
	assert.Equal(t, "V", enero[3])
	assert.Equal(t, "1308", enero[31])

	feb := table.Rows[2].Texts()
	assert.Equal(t, "900", feb[2])
	assert.Equal(t, "", feb[10], "text far below the row must not leak in")
}

func TestDetectDayGrids_ShortHeaderIgnored(t *testing.T) {
	lines := AssembleLines(1, rosterGlyphs(20))
	assert.Empty(t, DetectDayGrids(lines, 15))
}

func TestDetectDayGrids_PerPage(t *testing.T) {
	first := AssembleLines(1, rosterGlyphs(31))
	second := AssembleLines(2, rosterGlyphs(30))

	tables := DetectDayGrids(append(first, second...), 15)

	require.Len(t, tables, 2)
	assert.Equal(t, 1, tables[0].Page)
	assert.Equal(t, 2, tables[1].Page)
	assert.Len(t, tables[1].Rows[1].Cells, 31)
}

func TestSegmentRows(t *testing.T) {
	glyphs := append(place("EMPRESA", 40, 700), place("CIF", 200, 700)...)
	glyphs = append(glyphs, place("AMBULANCIAS", 50, 680)...)
	glyphs = append(glyphs, place("SUR", 82, 680)...)
	glyphs = append(glyphs, place("B12345678", 210, 680)...)

	rows := SegmentRows(AssembleLines(1, glyphs), 12)

	assert.Equal(t, [][]string{
		{"EMPRESA", "CIF"},
		{"AMBULANCIAS SUR", "B12345678"},
	}, rows)
}

func TestNewTable(t *testing.T) {
	table := NewTable(3, []string{"ENE", "708"}, []string{"FEB"})
	assert.Equal(t, 3, table.Page)
	assert.Equal(t, []string{"ENE", "708"}, table.Rows[0].Texts())
	assert.Equal(t, []string{"FEB"}, table.Rows[1].Texts())
}

package extraction

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// rowTolerance is the baseline drift, in points, still treated as one line.
	rowTolerance = 2.0
	// wordGapRatio is the horizontal gap, relative to font size, that splits words.
	wordGapRatio = 0.25
	// defaultFontSize is assumed when the content stream does not report one.
	defaultFontSize = 8.0
)

// AssembleLines groups the glyphs of one page into lines of words, top of the
// page first.
func AssembleLines(page int, glyphs []Glyph) []Line {
	glyphs = splitMultiRune(glyphs)
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].Y != glyphs[j].Y {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var (
		lines   []Line
		current []Glyph
		lineY   = glyphs[0].Y
	)
	flush := func() {
		if words := assembleWords(current, lineY); len(words) > 0 {
			lines = append(lines, Line{Page: page, Y: lineY, Words: words})
		}
		current = nil
	}

	for _, g := range glyphs {
		if len(current) > 0 && math.Abs(g.Y-lineY) > rowTolerance {
			flush()
		}
		if len(current) == 0 {
			lineY = g.Y
		}
		current = append(current, g)
	}
	flush()

	return lines
}

func assembleWords(glyphs []Glyph, y float64) []Word {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	var (
		words []Word
		text  strings.Builder
		word  Word
	)
	flush := func() {
		if text.Len() > 0 {
			word.Text = text.String()
			word.Y = y
			words = append(words, word)
		}
		text.Reset()
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.Text) == "" {
			flush()
			continue
		}
		if text.Len() > 0 && g.X-word.X1 > wordGap(g) {
			flush()
		}
		if text.Len() == 0 {
			word = Word{X0: g.X}
		}
		text.WriteString(g.Text)
		word.X1 = math.Max(word.X1, g.X+glyphWidth(g))
	}
	flush()

	return words
}

func wordGap(g Glyph) float64 {
	return math.Max(1.0, fontSize(g)*wordGapRatio)
}

func fontSize(g Glyph) float64 {
	if g.FontSize <= 0 {
		return defaultFontSize
	}
	return g.FontSize
}

func glyphWidth(g Glyph) float64 {
	if g.W > 0 {
		return g.W
	}
	return fontSize(g) * 0.5 * float64(utf8.RuneCountInString(g.Text))
}

// splitMultiRune breaks glyphs carrying several characters into one glyph per
// character, spreading the width evenly, so that embedded spaces split words.
func splitMultiRune(glyphs []Glyph) []Glyph {
	out := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.Text == "" {
			continue
		}
		n := utf8.RuneCountInString(g.Text)
		if n == 1 {
			out = append(out, g)
			continue
		}
		step := glyphWidth(g) / float64(n)
		x := g.X
		for _, r := range g.Text {
			out = append(out, Glyph{Text: string(r), X: x, Y: g.Y, W: step, FontSize: g.FontSize})
			x += step
		}
	}
	return out
}

// SegmentRows splits every line into cells wherever the horizontal gap between
// consecutive words exceeds gap points. Payslip tables rarely have ruling, so
// whitespace is the only column separator left.
func SegmentRows(lines []Line, gap float64) [][]string {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if len(line.Words) == 0 {
			continue
		}
		var (
			cells []string
			cell  = []string{line.Words[0].Text}
		)
		for i := 1; i < len(line.Words); i++ {
			if line.Words[i].X0-line.Words[i-1].X1 > gap {
				cells = append(cells, strings.Join(cell, " "))
				cell = nil
			}
			cell = append(cell, line.Words[i].Text)
		}
		cells = append(cells, strings.Join(cell, " "))
		rows = append(rows, cells)
	}
	return rows
}

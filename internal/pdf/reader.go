package pdf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/roster-audit/internal/pdf/errors"
	"github.com/a3tai/roster-audit/internal/pdf/extraction"
)

// Reader handles PDF file reading operations
type Reader struct {
	validator   *Validator
	maxTextSize int
	layout      LayoutOptions
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64, layout LayoutOptions) *Reader {
	return &Reader{
		validator:   NewValidator(maxFileSize),
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		layout:      layout,
	}
}

// pageContent is what one page contributes to a document
type pageContent struct {
	text   string
	glyphs []extraction.Glyph
}

// ReadDocument extracts the text, lines, roster grids and payslip rows of a
// PDF. Failures are *pdferrors.ExtractionError values.
func (r *Reader) ReadDocument(path string) (*Document, error) {
	if _, err := r.validator.CheckFile(path); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeUnreadable, path, fmt.Errorf("failed to open PDF: %w", err))
	}
	defer f.Close()

	doc := &Document{
		ID:    uuid.NewString(),
		Path:  path,
		Pages: pdfReader.NumPage(),
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		content, ok := r.readPage(pdfReader, pageNum)
		if !ok {
			continue
		}

		if builder.Len()+len(content.text) > r.maxTextSize {
			remaining := r.maxTextSize - builder.Len()
			if remaining > 0 {
				builder.WriteString(truncateText(content.text, remaining))
			}
			break
		}
		builder.WriteString(content.text)
		builder.WriteString("\n")

		doc.Lines = append(doc.Lines, extraction.AssembleLines(pageNum, content.glyphs)...)
	}

	doc.Text = builder.String()
	if strings.TrimSpace(doc.Text) == "" && len(doc.Lines) == 0 {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeNoTextLayer, path, "no text content could be extracted from PDF")
	}
	if strings.TrimSpace(doc.Text) == "" {
		doc.Text = linesText(doc.Lines)
	}

	doc.Tables = extraction.DetectDayGrids(doc.Lines, r.layout.RowPadding)
	doc.Rows = extraction.SegmentRows(doc.Lines, r.layout.ColumnGap)

	return doc, nil
}

// readPage extracts one page, recovering from parser panics on malformed
// content streams
func (r *Reader) readPage(pdfReader *pdf.Reader, pageNum int) (content pageContent, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return pageContent{}, false
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		// Continue with the glyphs even if plain text fails
		text = ""
	}

	for _, t := range page.Content().Text {
		content.glyphs = append(content.glyphs, extraction.Glyph{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	content.text = text

	return content, true
}

func linesText(lines []extraction.Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text())
		b.WriteString("\n")
	}
	return b.String()
}

// truncateText cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateText(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

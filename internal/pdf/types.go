package pdf

import "github.com/a3tai/roster-audit/internal/pdf/extraction"

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Document is the text and layout of one PDF, ready for the roster and
// payroll parsers.
type Document struct {
	ID     string             `json:"id"`
	Path   string             `json:"path"`
	Pages  int                `json:"pages"`
	Text   string             `json:"text"`
	Lines  []extraction.Line  `json:"lines,omitempty"`
	Tables []extraction.Table `json:"tables,omitempty"`
	// Rows are the document lines split into cells at wide gaps.
	Rows [][]string `json:"rows,omitempty"`
}

// LayoutOptions tunes how page geometry is turned into tables
type LayoutOptions struct {
	// RowPadding is how far below a row label cell text still belongs to it.
	RowPadding float64
	// ColumnGap is the horizontal gap that separates payslip cells.
	ColumnGap float64
}

// DefaultLayoutOptions returns the layout settings tuned for roster grids
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		RowPadding: extraction.DefaultRowPadding,
		ColumnGap:  12,
	}
}

// ValidateFileRequest represents a request to validate a PDF file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileResult represents the result of PDF validation
type ValidateFileResult struct {
	Path      string `json:"path"`
	Valid     bool   `json:"valid"`
	Pages     int    `json:"pages,omitempty"`
	Encrypted bool   `json:"encrypted,omitempty"`
	Message   string `json:"message,omitempty"`
}

package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdferrors "github.com/a3tai/roster-audit/internal/pdf/errors"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile performs comprehensive validation on a PDF file. Validation
// failures are reported in the result, not as an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if _, err := v.CheckFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	pages, encrypted, err := v.Inspect(req.Path)
	if err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Pages = pages
	result.Encrypted = encrypted
	result.Valid = true
	return result, nil
}

// CheckFile performs the cheap filesystem checks: existence, extension and size
func (v *Validator) CheckFile(filePath string) (os.FileInfo, error) {
	if filePath == "" {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeInvalidPath, "", "path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeNotFound, filePath, "file does not exist")
	}
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidPath, filePath, fmt.Errorf("cannot access file: %w", err))
	}

	if fileInfo.IsDir() {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeInvalidPath, filePath, "path is a directory, not a file")
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeNotPDF, filePath, "file is not a PDF")
	}

	if fileInfo.Size() == 0 {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeEmptyFile, filePath, "file is empty")
	}

	if fileInfo.Size() > v.maxFileSize {
		return nil, pdferrors.Newf(pdferrors.ErrorTypeTooLarge, filePath,
			"file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize)
	}

	return fileInfo, nil
}

// Inspect parses the document structure with pdfcpu in relaxed mode and
// returns the page count and whether the file is encrypted.
func (v *Validator) Inspect(filePath string) (int, bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, false, pdferrors.New(pdferrors.ErrorTypeUnreadable, filePath, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "encrypt") {
			return 0, true, pdferrors.New(pdferrors.ErrorTypeEncrypted, filePath, err)
		}
		return 0, false, pdferrors.New(pdferrors.ErrorTypeUnreadable, filePath,
			fmt.Errorf("failed to read PDF context: %w", err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, false, pdferrors.New(pdferrors.ErrorTypeUnreadable, filePath,
			fmt.Errorf("failed to ensure page count: %w", err))
	}

	return ctx.PageCount, ctx.Encrypt != nil, nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(filePath string) bool {
	if _, err := v.CheckFile(filePath); err != nil {
		return false
	}
	_, _, err := v.Inspect(filePath)
	return err == nil
}

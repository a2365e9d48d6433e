package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/roster-audit/internal/pdf/errors"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := make([]byte, size)
	for i := range data {
		data[i] = 'x'
	}
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidator_CheckFile(t *testing.T) {
	dir := t.TempDir()
	validator := NewValidator(1024)

	tests := []struct {
		name string
		path string
		want pdferrors.ErrorType
	}{
		{"empty path", "", pdferrors.ErrorTypeInvalidPath},
		{"missing", filepath.Join(dir, "missing.pdf"), pdferrors.ErrorTypeNotFound},
		{"directory", dir, pdferrors.ErrorTypeInvalidPath},
		{"not pdf", writeFile(t, dir, "notes.txt", 10), pdferrors.ErrorTypeNotPDF},
		{"empty file", writeFile(t, dir, "empty.pdf", 0), pdferrors.ErrorTypeEmptyFile},
		{"too large", writeFile(t, dir, "large.pdf", 2048), pdferrors.ErrorTypeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.CheckFile(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.want, pdferrors.TypeOf(err))
		})
	}

	info, err := validator.CheckFile(writeFile(t, dir, "ok.pdf", 100))
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.Size())
}

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	validator := NewValidator(1024 * 1024)

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"non-existent file", "/non/existent/file.pdf"},
		{"garbage content", writeFile(t, dir, "garbage.pdf", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(ValidateFileRequest{Path: tt.path})
			require.NoError(t, err, "validation failures are reported in the result")
			require.NotNil(t, result)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.path, result.Path)
			assert.NotEmpty(t, result.Message)
		})
	}

	assert.False(t, validator.IsValidPDF(filepath.Join(dir, "garbage.pdf")))
}

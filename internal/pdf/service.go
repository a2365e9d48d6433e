package pdf

import (
	"fmt"

	"github.com/sirupsen/logrus"

	pdferrors "github.com/a3tai/roster-audit/internal/pdf/errors"
	"github.com/a3tai/roster-audit/internal/pdf/security"
)

// Service handles PDF file operations by orchestrating the reader, the
// validator and the document-root checks
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	pathValidator *security.PathValidator
	log           logrus.FieldLogger
}

// NewService creates a new PDF service rooted at configuredDirectory
func NewService(maxFileSize int64, configuredDirectory string, layout LayoutOptions, log logrus.FieldLogger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize, layout),
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
		log:           log,
	}, nil
}

// ReadDocument resolves path inside the document root and extracts it
func (s *Service) ReadDocument(path string) (*Document, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return nil, pdferrors.New(pdferrors.ErrorTypeInvalidPath, path, fmt.Errorf("security validation failed: %w", err))
	}

	doc, err := s.reader.ReadDocument(resolved)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"path":  resolved,
			"error": pdferrors.TypeOf(err).String(),
		}).Warn("document extraction failed")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"document": doc.ID,
		"path":     resolved,
		"pages":    doc.Pages,
		"tables":   len(doc.Tables),
	}).Debug("document extracted")
	return doc, nil
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	resolved, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	result, err := s.validator.ValidateFile(ValidateFileRequest{Path: resolved})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}

// ListDocuments lists the PDFs in dir, relative to the document root
func (s *Service) ListDocuments(dir string) ([]FileInfo, error) {
	resolved, err := s.pathValidator.ResolveDir(dir)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return FindPDFsInDirectory(resolved)
}

// ResolveOutput places an output path inside the document root. Relative
// paths are taken from the root; paths that leave it are rejected.
func (s *Service) ResolveOutput(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// Root returns the configured document directory
func (s *Service) Root() string {
	return s.pathValidator.Root()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

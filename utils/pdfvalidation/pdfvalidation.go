package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFLimits defines the validation limits for PDF uploads
type PDFLimits struct {
	MaxFileSizeMB    int
	MaxPages         int
	DocumentTypeName string // For error messages
}

// ResourceLimits are the limits applied to shared study resources
var ResourceLimits = PDFLimits{
	MaxFileSizeMB:    50,
	MaxPages:         500,
	DocumentTypeName: "resource",
}

// ValidationResult contains the result of PDF validation
type ValidationResult struct {
	Valid     bool
	PageCount int
	FileSize  int64
	Error     string
}

// ValidatePDFFile validates an uploaded PDF against the given limits.
// A non-nil error means I/O failed; a failed check is reported in the result.
func ValidatePDFFile(file *multipart.FileHeader, limits PDFLimits) (*ValidationResult, error) {
	result := &ValidationResult{
		FileSize: file.Size,
	}

	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result, nil
	}

	filename := strings.ToLower(file.Filename)
	if !strings.HasSuffix(filename, ".pdf") {
		result.Error = "Only PDF files are supported"
		return result, nil
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		result.Error = fmt.Sprintf("Invalid or corrupted %s PDF", limits.DocumentTypeName)
		return result, nil
	}

	result.PageCount = reader.NumPage()
	if result.PageCount > limits.MaxPages {
		result.Error = fmt.Sprintf("%s exceeds maximum of %d pages", limits.DocumentTypeName, limits.MaxPages)
		return result, nil
	}
	if result.PageCount == 0 {
		result.Error = "PDF contains no pages"
		return result, nil
	}

	result.Valid = true
	return result, nil
}

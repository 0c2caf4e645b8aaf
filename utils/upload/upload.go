package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// AllowedExtensions are the transcript formats accepted for upload.
var AllowedExtensions = []string{"pdf", "docx"}

// Limits bounds an upload.
type Limits struct {
	MaxBytes int64
}

// ValidationResult contains the outcome of checking an upload. Error is a
// user-facing message when Valid is false.
type ValidationResult struct {
	Valid     bool
	Extension string
	FileSize  int64
	PageCount int
	TooLarge  bool
	Error     string
}

// Extension returns the lowercased extension of filename without the dot.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func allowed(ext string) bool {
	for _, a := range AllowedExtensions {
		if a == ext {
			return true
		}
	}
	return false
}

// ValidateTranscriptFile checks size, extension and file signature.
// A non-nil error means the file could not be read at all.
func ValidateTranscriptFile(file *multipart.FileHeader, limits Limits) (*ValidationResult, error) {
	result := &ValidationResult{
		FileSize:  file.Size,
		Extension: Extension(file.Filename),
	}

	if file.Filename == "" {
		result.Error = "No file selected"
		return result, nil
	}

	if limits.MaxBytes > 0 && file.Size > limits.MaxBytes {
		result.TooLarge = true
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxBytes/(1024*1024))
		return result, nil
	}

	if !allowed(result.Extension) {
		result.Error = "Only PDF and DOCX files are supported"
		return result, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch result.Extension {
	case "pdf":
		if !bytes.HasPrefix(content, []byte("%PDF-")) {
			result.Error = "Invalid PDF file: missing PDF header"
			return result, nil
		}
		pages, err := pageCount(content)
		if err != nil {
			result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
			return result, nil
		}
		if pages == 0 {
			result.Error = "PDF has no pages"
			return result, nil
		}
		result.PageCount = pages
	case "docx":
		if !bytes.HasPrefix(content, []byte("PK")) {
			result.Error = "Invalid DOCX file"
			return result, nil
		}
	}

	result.Valid = true
	return result, nil
}

// SaveTemp copies the upload into dir (os.TempDir when empty) under a
// random name keeping the original extension. The returned cleanup
// removes the file.
func SaveTemp(file *multipart.FileHeader, dir string) (string, func(), error) {
	src, err := file.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	if dir == "" {
		dir = os.TempDir()
	}
	name := fmt.Sprintf("transcript-%s.%s", uuid.NewString(), Extension(file.Filename))
	path := filepath.Join(dir, name)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}

// SanitizePDF removes trailing garbage after the last %%EOF marker.
func SanitizePDF(content []byte) []byte {
	if len(content) == 0 {
		return content
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)

	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)

	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if pdfEnd < len(content) {
		return content[:pdfEnd]
	}

	return content
}

func pageCount(content []byte) (int, error) {
	content = SanitizePDF(content)

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return pdfReader.NumPage(), nil
}

package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sahilchouksey/college-hub/utils/upload"
)

var (
	// ErrUnsupportedFileType is returned for extensions other than pdf, docx and doc.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrNoTextExtracted means the document had no readable text.
	ErrNoTextExtracted = errors.New("could not extract text from file")
)

// ExtractText reads the document at path, dispatching on the extension
// of filename (the name the user uploaded, which may differ from path).
func ExtractText(path, filename string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); ext {
	case "pdf":
		return ExtractPDFText(path)
	case "docx", "doc":
		return ExtractDOCXText(path)
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFileType, ext)
	}
}

// ExtractPDFText joins the text of every page with newlines. Pages with
// no text are skipped.
func ExtractPDFText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	content = upload.SanitizePDF(content)

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text := pageText(page); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}

// pageText prefers row extraction, which keeps table lines together, and
// falls back to plain text.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		text, plainErr := page.GetPlainText(nil)
		if plainErr != nil {
			return ""
		}
		return strings.TrimSpace(text)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var line strings.Builder
		for _, word := range row.Content {
			line.WriteString(word.S)
		}
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// ExtractDOCXText returns the non-blank body paragraphs followed by one
// line per table row, cells tab-joined with blank cells omitted.
func ExtractDOCXText(path string) (string, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer rc.Close()

	body, err := readZipFile(rc.File, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}

	paragraphs, rows, err := parseDocumentXML(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse DOCX: %w", err)
	}
	return strings.Join(append(paragraphs, rows...), "\n"), nil
}

func readZipFile(files []*zip.File, target string) ([]byte, error) {
	for _, f := range files {
		if strings.EqualFold(f.Name, target) {
			r, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("file not found: %s", target)
}

// parseDocumentXML walks word/document.xml. Paragraphs inside tables
// belong to their cell; nested tables are flattened into the outer cell.
func parseDocumentXML(body []byte) (paragraphs []string, rows []string, err error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		tableDepth int
		inRun      bool
		inText     bool
		para       strings.Builder
		cell       []string
		row        []string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					row = row[:0]
				}
			case "tc":
				if tableDepth == 1 {
					cell = cell[:0]
				}
			case "p":
				para.Reset()
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					para.WriteString("\t")
				}
			case "br", "cr":
				if inRun {
					para.WriteString("\n")
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				inRun = false
			case "p":
				text := para.String()
				if tableDepth == 0 {
					if strings.TrimSpace(text) != "" {
						paragraphs = append(paragraphs, text)
					}
				} else {
					cell = append(cell, text)
				}
			case "tc":
				if tableDepth == 1 {
					if text := strings.TrimSpace(strings.Join(cell, "\n")); text != "" {
						row = append(row, text)
					}
				}
			case "tr":
				if tableDepth == 1 && len(row) > 0 {
					rows = append(rows, strings.Join(row, "\t"))
				}
			case "tbl":
				tableDepth--
			}
		}
	}

	return paragraphs, rows, nil
}

// Package docparse extracts plain text from uploaded documents so it can be
// embedded into generation prompts.
package docparse

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of a document payload.
type Extractor interface {
	ExtractText(data []byte) (string, error)
}

// PDFExtractor implements Extractor for PDF files.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText parses the PDF and concatenates the text of every page.
func (e *PDFExtractor) ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document payload")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var builder strings.Builder
	pageCount := reader.NumPage()
	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", pageIndex, err)
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
	}

	result := strings.TrimSpace(builder.String())
	if result == "" {
		return "", errors.New("document contains no extractable text")
	}
	return result, nil
}

var _ Extractor = (*PDFExtractor)(nil)

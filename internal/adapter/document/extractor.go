package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// PreviewLength is the number of characters of extracted text shown back
// to the user after an upload.
const PreviewLength = 500

// Extractor reads the plain text out of an uploaded document.
type Extractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// TextExtractor handles PDFs and plain text uploads.
type TextExtractor struct{}

// NewTextExtractor creates a new extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract returns the document text. Failures wrap domain.ErrDocumentExtraction.
func (e *TextExtractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil || len(doc.Data) == 0 {
		return "", fmt.Errorf("empty document: %w", domain.ErrDocumentExtraction)
	}

	if isPlainText(doc) {
		if !utf8.Valid(doc.Data) {
			return "", fmt.Errorf("document is not valid utf-8: %w", domain.ErrDocumentExtraction)
		}
		return string(doc.Data), nil
	}
	return extractPDF(ctx, doc.Data)
}

func isPlainText(doc *domain.Document) bool {
	if strings.HasPrefix(doc.MimeType, "text/") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(doc.Filename), ".txt")
}

func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// the pdf package panics on some malformed object streams
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v: %w", r, domain.ErrDocumentExtraction)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %v: %w", err, domain.ErrDocumentExtraction)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %v: %w", i, err, domain.ErrDocumentExtraction)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Preview returns at most PreviewLength characters of text.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}

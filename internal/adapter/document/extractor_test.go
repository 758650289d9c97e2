package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

func TestExtractPlainText(t *testing.T) {
	e := NewTextExtractor()
	text, err := e.Extract(context.Background(), &domain.Document{
		Data:     []byte("Hemoglobin: 10.2 g/dL"),
		MimeType: "text/plain",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin: 10.2 g/dL", text)

	text, err = e.Extract(context.Background(), &domain.Document{
		Data:     []byte("WBC 11000"),
		Filename: "labs.TXT",
	})
	require.NoError(t, err)
	assert.Equal(t, "WBC 11000", text)
}

func TestExtractFailures(t *testing.T) {
	e := NewTextExtractor()
	cases := map[string]*domain.Document{
		"nil":         nil,
		"empty":       {MimeType: "application/pdf"},
		"garbage pdf": {Data: []byte("this is not a pdf"), MimeType: "application/pdf"},
		"bad utf8":    {Data: []byte{0xff, 0xfe, 0xfd}, MimeType: "text/plain"},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), doc)
			if !errors.Is(err, domain.ErrDocumentExtraction) {
				t.Fatalf("expected ErrDocumentExtraction, got %v", err)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))

	long := strings.Repeat("é", PreviewLength+20)
	p := Preview(long)
	assert.Equal(t, PreviewLength, len([]rune(p)))
}

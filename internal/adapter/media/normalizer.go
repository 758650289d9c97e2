package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

const (
	// DefaultMaxEdge is the longest edge, in pixels, sent to the model.
	DefaultMaxEdge = 1024
	jpegQuality    = 85
)

// Normalizer downsizes uploaded images before they reach a vision model.
type Normalizer struct {
	maxEdge uint
}

// NewNormalizer creates a Normalizer. A non-positive maxEdge uses DefaultMaxEdge.
func NewNormalizer(maxEdge int) *Normalizer {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	return &Normalizer{maxEdge: uint(maxEdge)}
}

// Normalize returns img unchanged when it already fits, otherwise a resized
// copy preserving aspect ratio. PNG stays PNG; everything else becomes JPEG.
func (n *Normalizer) Normalize(img *domain.Image) (*domain.Image, error) {
	if img == nil || len(img.Data) == 0 {
		return img, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config: %w", err)
	}
	if uint(cfg.Width) <= n.maxEdge && uint(cfg.Height) <= n.maxEdge {
		return img, nil
	}

	decoded, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if cfg.Width > cfg.Height {
		decoded = resize.Resize(n.maxEdge, 0, decoded, resize.Lanczos3)
	} else {
		decoded = resize.Resize(0, n.maxEdge, decoded, resize.Lanczos3)
	}

	var buf bytes.Buffer
	mimeType := "image/jpeg"
	if format == "png" {
		mimeType = "image/png"
		err = png.Encode(&buf, decoded)
	} else {
		err = jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &domain.Image{
		Data:     buf.Bytes(),
		MimeType: mimeType,
		Filename: img.Filename,
	}, nil
}

package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeSmallImageUnchanged(t *testing.T) {
	data := encodePNG(t, 40, 30)
	in := &domain.Image{Data: data, MimeType: "image/png", Filename: "rash.png"}

	out, err := NewNormalizer(64).Normalize(in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestNormalizeDownscalesLongEdge(t *testing.T) {
	in := &domain.Image{Data: encodePNG(t, 200, 100), MimeType: "image/png", Filename: "xray.png"}

	out, err := NewNormalizer(64).Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MimeType)
	assert.Equal(t, "xray.png", out.Filename)

	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestNormalizeJPEGPortrait(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 50, 300)), nil))

	out, err := NewNormalizer(100).Normalize(&domain.Image{Data: buf.Bytes(), MimeType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.MimeType)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Height)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	_, err := NewNormalizer(0).Normalize(&domain.Image{Data: []byte("nope"), MimeType: "image/png"})
	assert.Error(t, err)
}

func TestNormalizeNil(t *testing.T) {
	out, err := NewNormalizer(0).Normalize(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

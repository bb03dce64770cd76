package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func sample(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	return img
}

func TestDecode(t *testing.T) {
	var pngBuf, jpgBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, sample(8, 4)))
	require.NoError(t, jpeg.Encode(&jpgBuf, sample(8, 4), nil))
	require.NoError(t, bmp.Encode(&bmpBuf, sample(8, 4)))

	tests := []struct {
		name     string
		data     []byte
		wantType string
	}{
		{"png", pngBuf.Bytes(), "PNG"},
		{"jpeg", jpgBuf.Bytes(), "JPG"},
		{"bmp converted", bmpBuf.Bytes(), "PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode("logo", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.Type)
			assert.Equal(t, 8, img.Width)
			assert.Equal(t, 4, img.Height)

			_, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
			require.NoError(t, err)
			assert.NotEqual(t, "bmp", format)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode("logo", []byte("not an image"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissing)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "footer.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sample(80, 30)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "footer", img.Name)
	assert.Equal(t, 80, img.Width)

	_, err = Load(filepath.Join(dir, "nope.png"))
	assert.ErrorIs(t, err, ErrMissing)
}

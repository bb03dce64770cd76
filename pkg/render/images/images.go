// Package images loads the optional logo images of a sheet.
//
// PDF core writers embed PNG, JPEG and GIF directly. BMP, TIFF and WebP logos
// are decoded with golang.org/x/image and re-encoded as PNG so every sink
// sees one of the three embeddable types.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrMissing is returned when a logo file does not exist. Callers skip the
// logo box instead of failing the render.
var ErrMissing = errors.New("image missing")

// Image is a decoded logo ready to embed.
type Image struct {
	Name   string `json:"name"`
	Type   string `json:"type"` // "PNG", "JPG" or "GIF"
	Data   []byte `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Load reads and decodes the image at path. A missing file yields an error
// wrapping [ErrMissing].
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Decode(name, data)
}

// Decode identifies data and converts it to an embeddable type if needed.
func Decode(name string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMissing, name)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	img := &Image{Name: name, Data: data, Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "png":
		img.Type = "PNG"
	case "jpeg":
		img.Type = "JPG"
	case "gif":
		img.Type = "GIF"
	default:
		if img.Data, err = toPNG(data); err != nil {
			return nil, fmt.Errorf("convert %s from %s: %w", name, format, err)
		}
		img.Type = "PNG"
	}
	return img, nil
}

func toPNG(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

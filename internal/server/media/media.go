// Package media turns uploaded pictures into the square PNG avatars served
// by the API.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// AvatarSize is the edge length, in pixels, of every stored avatar.
const AvatarSize = 250

// MaxSourcePixels bounds width*height of an accepted upload. The header is
// checked before any pixel buffer is allocated.
const MaxSourcePixels = 4096 * 4096

var ErrImageTooLarge = errors.New("image dimensions too large")

// Transcoder converts an uploaded image into the stored avatar format.
type Transcoder interface {
	Transcode(data []byte) ([]byte, error)
}

// PNGResizer decodes JPEG or PNG input, scales it to Width×Height and
// encodes the result as PNG.
type PNGResizer struct {
	Width  int
	Height int
}

// NewAvatarResizer returns a PNGResizer producing AvatarSize×AvatarSize images.
func NewAvatarResizer() *PNGResizer {
	return &PNGResizer{Width: AvatarSize, Height: AvatarSize}
}

func (r *PNGResizer) Transcode(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

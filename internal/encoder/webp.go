package encoder

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
)

// WebPEncoder encodes images to lossy WebP via libwebp bindings.
// WebP carries alpha natively, so all four channels are encoded as-is;
// the alpha plane itself is stored losslessly by libwebp.
type WebPEncoder struct{}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Lossless() bool    { return false }

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("webp quality %d out of range [1,100]", quality)
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

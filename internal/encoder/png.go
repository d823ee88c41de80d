package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// PNGEncoder encodes images to PNG using Go's standard library. PNG is
// lossless, so the param is a compression effort level (0-9, higher =
// smaller output, slower encode) rather than a quality value. Alpha is
// preserved when present.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Lossless() bool    { return true }

func (e *PNGEncoder) Encode(img image.Image, level int) ([]byte, error) {
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("png compression level %d out of range [0,9]", level)
	}

	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	enc := &png.Encoder{CompressionLevel: compressionLevel(level)}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// compressionLevel maps the 0-9 effort scale onto the standard library's
// four compression levels.
func compressionLevel(level int) png.CompressionLevel {
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

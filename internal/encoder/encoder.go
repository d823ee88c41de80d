package encoder

import (
	"image"
)

// Encoder encodes an image to a specific output format.
type Encoder interface {
	// Format returns the output format name ("jpeg", "webp", "png").
	Format() string

	// Extension returns the file extension without dot.
	Extension() string

	// Lossless reports whether this format encodes without distortion.
	// For lossless encoders the param passed to Encode is a compression
	// effort level, not a quality value.
	Lossless() bool

	// Encode converts the image to bytes. For lossy formats param is the
	// quality (1-100); for lossless formats it is the effort level (0-9).
	Encode(img image.Image, param int) ([]byte, error)
}

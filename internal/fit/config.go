package fit

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig wraps every configuration validation failure so
// callers can distinguish bad bounds from encode failures.
var ErrInvalidConfig = errors.New("invalid fit configuration")

// Config holds all parameters for one fit invocation. The zero value is
// not usable; fill in at least the quality bounds (or use a preset).
type Config struct {
	// TargetBytes is the inclusive upper bound for the encoded output.
	// Zero means "encode once at max quality, no fitting".
	TargetBytes int64

	// MinQuality and MaxQuality bound the binary search for lossy
	// formats. Both must be in [1,100] with MinQuality <= MaxQuality.
	MinQuality int
	MaxQuality int

	// MaxDownscaleRounds limits how many 10% downscale rounds may run
	// when no quality in range meets the target.
	MaxDownscaleRounds int

	// Level is the compression effort for lossless formats (0-9).
	// Ignored by lossy formats.
	Level int

	// MaxWidth and MaxHeight, when positive, clamp the image once before
	// any search by a uniform scale preserving aspect ratio.
	MaxWidth  int
	MaxHeight int

	// Observer receives progress callbacks at search decision points.
	// Nil means no reporting.
	Observer Observer
}

// Validate checks the invariants the fitter relies on. It runs before
// any encode attempt.
func (c Config) Validate() error {
	if c.TargetBytes < 0 {
		return fmt.Errorf("%w: target bytes must be non-negative, got %d", ErrInvalidConfig, c.TargetBytes)
	}
	if c.MinQuality < 1 || c.MinQuality > 100 || c.MaxQuality < 1 || c.MaxQuality > 100 {
		return fmt.Errorf("%w: quality bounds [%d,%d] outside [1,100]", ErrInvalidConfig, c.MinQuality, c.MaxQuality)
	}
	if c.MinQuality > c.MaxQuality {
		return fmt.Errorf("%w: min quality %d > max quality %d", ErrInvalidConfig, c.MinQuality, c.MaxQuality)
	}
	if c.MaxDownscaleRounds < 0 {
		return fmt.Errorf("%w: max downscale rounds must be non-negative, got %d", ErrInvalidConfig, c.MaxDownscaleRounds)
	}
	if c.Level < 0 || c.Level > 9 {
		return fmt.Errorf("%w: compression level %d outside [0,9]", ErrInvalidConfig, c.Level)
	}
	if c.MaxWidth < 0 || c.MaxHeight < 0 {
		return fmt.Errorf("%w: max dimensions must be non-negative", ErrInvalidConfig)
	}
	return nil
}

func (c Config) observer() Observer {
	if c.Observer == nil {
		return NopObserver{}
	}
	return c.Observer
}

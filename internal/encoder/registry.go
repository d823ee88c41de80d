package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the encoders keyed by format name.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with all built-in encoders.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&JPEGEncoder{},
		&WebPEncoder{},
		&PNGEncoder{},
	} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns the encoder for the given format name. "jpg" is accepted
// as an alias for "jpeg".
func (r *Registry) Get(format string) (Encoder, error) {
	name := strings.ToLower(format)
	if name == "jpg" {
		name = "jpeg"
	}
	enc, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (supported: %s)",
			format, strings.Join(r.Formats(), ", "))
	}
	return enc, nil
}

// Formats returns the supported format names in priority order.
func (r *Registry) Formats() []string {
	var result []string
	for _, f := range []string{"webp", "jpeg", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

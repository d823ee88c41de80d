// Package fit shrinks an image's encoded size under a byte budget by
// binary-searching encoder quality and, when no quality in range fits,
// downscaling the image 10% per round and retrying.
package fit

import (
	"fmt"
	"image"
	"math"

	"github.com/AnyUserName/imgfit-cli/internal/encoder"
	"github.com/disintegration/imaging"
)

// Result is the outcome of one fit invocation. When MetTarget is false
// Data still holds the smallest encoding achieved, so the caller can
// decide between best-effort output and aborting.
type Result struct {
	// Data is the encoded output. Never nil on a nil-error return.
	Data []byte

	// Quality is the lossy quality used, or the compression level for
	// lossless formats.
	Quality int

	// Width and Height are the pixel dimensions of the encoded image.
	Width  int
	Height int

	// Rounds is the number of downscale rounds performed.
	Rounds int

	// MetTarget reports whether len(Data) <= TargetBytes. Always true
	// when no target was configured.
	MetTarget bool
}

// Size returns the encoded byte length.
func (r *Result) Size() int64 { return int64(len(r.Data)) }

// Fit searches for the highest quality (and, failing that, the largest
// dimensions) whose encoding of img stays within cfg.TargetBytes. The
// returned Result never holds output larger than the target unless
// MetTarget is false. Each round owns its own image; img itself is
// never mutated.
func Fit(img image.Image, enc encoder.Encoder, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	obs := cfg.observer()

	img = clampDimensions(img, cfg.MaxWidth, cfg.MaxHeight)

	if cfg.TargetBytes == 0 {
		return encodeOnce(img, enc, cfg)
	}
	if enc.Lossless() {
		return fitLossless(img, enc, cfg, obs)
	}
	return fitLossy(img, enc, cfg, obs)
}

// encodeOnce handles the no-target mode: a single encode at max quality
// (or the configured level), no search.
func encodeOnce(img image.Image, enc encoder.Encoder, cfg Config) (*Result, error) {
	param := cfg.MaxQuality
	if enc.Lossless() {
		param = cfg.Level
	}
	data, err := enc.Encode(img, param)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	b := img.Bounds()
	return &Result{Data: data, Quality: param, Width: b.Dx(), Height: b.Dy(), MetTarget: true}, nil
}

func fitLossy(img image.Image, enc encoder.Encoder, cfg Config, obs Observer) (*Result, error) {
	img = preScale(img, cfg.TargetBytes, obs)

	var best []byte
	var bestQuality int

	for round := 0; round <= cfg.MaxDownscaleRounds; round++ {
		b := img.Bounds()
		obs.RoundStarted(round, b.Dx(), b.Dy())

		data, quality, err := searchQuality(img, enc, cfg, round, obs)
		if err != nil {
			return nil, err
		}
		best, bestQuality = data, quality

		if int64(len(data)) <= cfg.TargetBytes {
			return &Result{
				Data: data, Quality: quality,
				Width: b.Dx(), Height: b.Dy(),
				Rounds: round, MetTarget: true,
			}, nil
		}
		if round == cfg.MaxDownscaleRounds {
			break
		}
		img = downscale(img)
		nb := img.Bounds()
		obs.Downscaled(round, nb.Dx(), nb.Dy())
	}

	b := img.Bounds()
	return &Result{
		Data: best, Quality: bestQuality,
		Width: b.Dx(), Height: b.Dy(),
		Rounds: cfg.MaxDownscaleRounds, MetTarget: false,
	}, nil
}

// searchQuality binary-searches [MinQuality, MaxQuality] for the highest
// quality whose encoding fits the target. When nothing in range fits it
// returns the min-quality encoding, the smallest this round can produce,
// so the caller can decide to downscale.
func searchQuality(img image.Image, enc encoder.Encoder, cfg Config, round int, obs Observer) ([]byte, int, error) {
	lo, hi := cfg.MinQuality, cfg.MaxQuality

	var best []byte
	bestQuality := 0

	for lo <= hi {
		mid := (lo + hi) / 2
		data, err := enc.Encode(img, mid)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s at quality %d: %w", enc.Format(), mid, err)
		}
		fits := int64(len(data)) <= cfg.TargetBytes
		obs.QualityProbed(round, mid, int64(len(data)), fits)
		if fits {
			best, bestQuality = data, mid
			lo = mid + 1 // try higher quality
		} else {
			hi = mid - 1
		}
	}

	if best != nil {
		return best, bestQuality, nil
	}
	data, err := enc.Encode(img, cfg.MinQuality)
	if err != nil {
		return nil, 0, fmt.Errorf("encode %s at quality %d: %w", enc.Format(), cfg.MinQuality, err)
	}
	return data, cfg.MinQuality, nil
}

// fitLossless drives only the downscale loop: byte size of a lossless
// encoding is a function of content and dimensions, so there is no
// quality to search. The compression level stays fixed.
func fitLossless(img image.Image, enc encoder.Encoder, cfg Config, obs Observer) (*Result, error) {
	var last []byte

	for round := 0; round <= cfg.MaxDownscaleRounds; round++ {
		b := img.Bounds()
		obs.RoundStarted(round, b.Dx(), b.Dy())

		data, err := enc.Encode(img, cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("encode %s at level %d: %w", enc.Format(), cfg.Level, err)
		}
		fits := int64(len(data)) <= cfg.TargetBytes
		obs.QualityProbed(round, cfg.Level, int64(len(data)), fits)
		last = data

		if fits {
			return &Result{
				Data: data, Quality: cfg.Level,
				Width: b.Dx(), Height: b.Dy(),
				Rounds: round, MetTarget: true,
			}, nil
		}
		if round == cfg.MaxDownscaleRounds {
			break
		}
		img = downscale(img)
		nb := img.Bounds()
		obs.Downscaled(round, nb.Dx(), nb.Dy())
	}

	b := img.Bounds()
	return &Result{
		Data: last, Quality: cfg.Level,
		Width: b.Dx(), Height: b.Dy(),
		Rounds: cfg.MaxDownscaleRounds, MetTarget: false,
	}, nil
}

// downscale shrinks the image 10% per dimension: floor-divide with a
// 1-pixel minimum, so repeated rounds converge deterministically.
func downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := downscaleDims(b.Dx(), b.Dy())
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func downscaleDims(w, h int) (int, int) {
	w = w * 9 / 10
	h = h * 9 / 10
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// preScale shrinks very large inputs before the quality search so each
// probe stays cheap. The heuristic assumes at most ~2 bytes per pixel at
// high quality; an image holding more than 4x the pixels the target
// could plausibly pay for is shrunk to ~2x that pixel count. Later
// downscale rounds can still shrink further, so this never affects the
// final fit, only its cost.
func preScale(img image.Image, targetBytes int64, obs Observer) image.Image {
	b := img.Bounds()
	w, h, scaled := EstimatePreScale(b.Dx(), b.Dy(), targetBytes)
	if !scaled {
		return img
	}
	out := imaging.Resize(img, w, h, imaging.Lanczos)
	obs.PreScaled(b.Dx(), b.Dy(), w, h)
	return out
}

// EstimatePreScale reports the dimensions the large-image pre-scale
// would produce for the given input size and target, and whether it
// triggers at all.
func EstimatePreScale(width, height int, targetBytes int64) (int, int, bool) {
	pixels := int64(width) * int64(height)
	maxPixels := targetBytes / 2 // 2 bytes per pixel upper bound
	if pixels <= maxPixels*4 {
		return width, height, false
	}
	scale := math.Sqrt(float64(maxPixels*2) / float64(pixels))
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h, true
}

// clampDimensions applies the optional max width/height bound once, by a
// uniform scale preserving aspect ratio. It never upscales.
func clampDimensions(img image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1.0 {
		return img
	}

	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

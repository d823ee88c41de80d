package fit

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/AnyUserName/imgfit-cli/internal/encoder"
)

// noiseImage builds a deterministic opaque noise image. Noise resists
// compression, so encoded size responds strongly to quality and scale.
func noiseImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	seed := uint32(0x2545f491)
	for i := 0; i < len(img.Pix); i += 4 {
		seed = seed*1664525 + 1013904223
		img.Pix[i+0] = uint8(seed >> 24)
		img.Pix[i+1] = uint8(seed >> 16)
		img.Pix[i+2] = uint8(seed >> 8)
		img.Pix[i+3] = 255
	}
	return img
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func lossyConfig(target int64) Config {
	return Config{
		TargetBytes:        target,
		MinQuality:         1,
		MaxQuality:         95,
		MaxDownscaleRounds: 10,
		Level:              6,
	}
}

func TestFitJPEG_ReachableTarget(t *testing.T) {
	img := noiseImage(256, 192)
	enc := &encoder.JPEGEncoder{}

	// 25 KB keeps 256x192 under the pre-scale threshold, so the search
	// runs on the original dimensions.
	cfg := lossyConfig(25 * 1024)
	res, err := Fit(img, enc, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !res.MetTarget {
		t.Fatalf("expected target met, best %d bytes", res.Size())
	}
	if res.Size() > cfg.TargetBytes {
		t.Errorf("oversized output: %d > %d", res.Size(), cfg.TargetBytes)
	}
	if res.Width != 256 || res.Height != 192 {
		t.Errorf("dimensions changed: %dx%d", res.Width, res.Height)
	}
	if res.Rounds != 0 {
		t.Errorf("rounds: got %d, want 0", res.Rounds)
	}

	// The target is tight enough that max quality must not fit;
	// otherwise the search result is trivial.
	full, err := enc.Encode(img, cfg.MaxQuality)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if int64(len(full)) <= cfg.TargetBytes {
		t.Fatalf("test image too compressible: %d bytes at max quality", len(full))
	}
	if res.Quality < cfg.MinQuality || res.Quality >= cfg.MaxQuality {
		t.Errorf("quality %d outside expected (%d,%d)", res.Quality, cfg.MinQuality, cfg.MaxQuality)
	}
}

func TestFitWebP_LargeImageSmallTarget(t *testing.T) {
	// 12 MP opaque gradient against a 100 KB budget: the pre-scale
	// shrinks the image before the search, then the search fits.
	img := image.NewNRGBA(image.Rect(0, 0, 4000, 3000))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(i)
		img.Pix[i+1] = uint8(i >> 8)
		img.Pix[i+2] = uint8(i >> 16)
		img.Pix[i+3] = 255
	}

	cfg := Config{
		TargetBytes:        100 * 1024,
		MinQuality:         30,
		MaxQuality:         95,
		MaxDownscaleRounds: 10,
	}
	res, err := Fit(img, &encoder.WebPEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !res.MetTarget {
		t.Fatalf("expected target met, best %d bytes", res.Size())
	}
	if res.Size() > cfg.TargetBytes {
		t.Errorf("oversized output: %d", res.Size())
	}
	if res.Quality < cfg.MinQuality || res.Quality > cfg.MaxQuality {
		t.Errorf("quality %d outside [%d,%d]", res.Quality, cfg.MinQuality, cfg.MaxQuality)
	}
	if res.Width <= 0 || res.Width >= 4000 || res.Height <= 0 || res.Height >= 3000 {
		t.Errorf("final dimensions not reduced: %dx%d", res.Width, res.Height)
	}
}

func TestFit_ConvergesToMaxQualityWhenEverythingFits(t *testing.T) {
	img := noiseImage(32, 32)
	cfg := Config{
		TargetBytes:        1 << 20,
		MinQuality:         30,
		MaxQuality:         95,
		MaxDownscaleRounds: 10,
	}
	res, err := Fit(img, &encoder.JPEGEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !res.MetTarget {
		t.Fatal("expected target met")
	}
	if res.Quality != 95 {
		t.Errorf("quality: got %d, want 95 (top of fitting range)", res.Quality)
	}
	if res.Rounds != 0 {
		t.Errorf("rounds: got %d, want 0", res.Rounds)
	}
}

func TestFit_UnreachableTargetExhaustsRounds(t *testing.T) {
	img := noiseImage(20, 20)
	cfg := Config{
		TargetBytes:        1, // unreachable for any encoding
		MinQuality:         1,
		MaxQuality:         95,
		MaxDownscaleRounds: 3,
		Level:              6,
	}

	// Lossless path: no pre-scale, so the downscale chain is exact.
	res, err := Fit(img, &encoder.PNGEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if res.MetTarget {
		t.Fatal("1-byte target should be unreachable")
	}
	if res.Rounds != 3 {
		t.Errorf("rounds: got %d, want 3", res.Rounds)
	}
	if res.Size() <= 1 {
		t.Errorf("best size: got %d, want > 1", res.Size())
	}
	if len(res.Data) == 0 {
		t.Error("failure outcome must carry best-effort bytes")
	}
	// 20 -> 18 -> 16 -> 14 per the floor-divide rule.
	if res.Width != 14 || res.Height != 14 {
		t.Errorf("final dimensions: got %dx%d, want 14x14", res.Width, res.Height)
	}
}

func TestFitLossy_UnreachableTargetReturnsBestEffort(t *testing.T) {
	img := noiseImage(64, 64)
	cfg := Config{
		TargetBytes:        1,
		MinQuality:         1,
		MaxQuality:         95,
		MaxDownscaleRounds: 2,
	}
	res, err := Fit(img, &encoder.JPEGEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if res.MetTarget {
		t.Fatal("1-byte target should be unreachable")
	}
	if res.Rounds != 2 {
		t.Errorf("rounds: got %d, want 2", res.Rounds)
	}
	if res.Quality != 1 {
		t.Errorf("best-effort quality: got %d, want min quality 1", res.Quality)
	}
}

func TestFitLossless_SolidColorFitsRoundZero(t *testing.T) {
	src := solidImage(10, 10, color.NRGBA{10, 120, 200, 255})
	cfg := Config{
		TargetBytes:        1024,
		MinQuality:         1,
		MaxQuality:         95,
		MaxDownscaleRounds: 10,
		Level:              6,
	}
	res, err := Fit(src, &encoder.PNGEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !res.MetTarget {
		t.Fatalf("expected fit, got %d bytes", res.Size())
	}
	if res.Rounds != 0 {
		t.Errorf("rounds: got %d, want 0 (no downscale needed)", res.Rounds)
	}
	if res.Width != 10 || res.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 10x10", res.Width, res.Height)
	}

	decoded, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			wr, wg, wb, wa := src.At(x, y).RGBA()
			gr, gg, gb, ga := decoded.At(x, y).RGBA()
			if wr != gr || wg != gg || wb != gb || wa != ga {
				t.Fatalf("pixel (%d,%d) not lossless", x, y)
			}
		}
	}
}

func TestFit_EncodeOnceWithoutTarget(t *testing.T) {
	img := noiseImage(48, 48)
	cfg := Config{
		MinQuality:         30,
		MaxQuality:         90,
		MaxDownscaleRounds: 10,
	}
	res, err := Fit(img, &encoder.JPEGEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !res.MetTarget {
		t.Error("no-target mode always reports success")
	}
	if res.Quality != 90 {
		t.Errorf("quality: got %d, want max quality 90", res.Quality)
	}
	if res.Rounds != 0 {
		t.Errorf("rounds: got %d, want 0", res.Rounds)
	}
}

func TestFit_InvalidConfig(t *testing.T) {
	img := noiseImage(8, 8)
	cases := []struct {
		name string
		cfg  Config
	}{
		{"min above max", Config{MinQuality: 80, MaxQuality: 40}},
		{"quality zero", Config{MinQuality: 0, MaxQuality: 90}},
		{"quality above 100", Config{MinQuality: 10, MaxQuality: 101}},
		{"negative target", Config{TargetBytes: -1, MinQuality: 10, MaxQuality: 90}},
		{"negative rounds", Config{MinQuality: 10, MaxQuality: 90, MaxDownscaleRounds: -1}},
		{"level above 9", Config{MinQuality: 10, MaxQuality: 90, Level: 10}},
		{"negative max width", Config{MinQuality: 10, MaxQuality: 90, MaxWidth: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fit(img, &encoder.JPEGEncoder{}, tc.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDownscaleDims(t *testing.T) {
	cases := []struct {
		w, h, wantW, wantH int
	}{
		{10, 10, 9, 9},
		{100, 50, 90, 45},
		{5, 3, 4, 2},
		{2, 2, 1, 1},
		{1, 1, 1, 1},
	}
	for _, tc := range cases {
		w, h := downscaleDims(tc.w, tc.h)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("downscaleDims(%d,%d) = %dx%d, want %dx%d",
				tc.w, tc.h, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestClampDimensions(t *testing.T) {
	img := noiseImage(100, 80)

	clamped := clampDimensions(img, 50, 0)
	if b := clamped.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("max width 50: got %dx%d, want 50x40", b.Dx(), b.Dy())
	}

	clamped = clampDimensions(img, 0, 40)
	if b := clamped.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("max height 40: got %dx%d, want 50x40", b.Dx(), b.Dy())
	}

	// Never upscale.
	same := clampDimensions(img, 200, 200)
	if b := same.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("larger bound resized: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestEstimatePreScale(t *testing.T) {
	// 12 MP against 100 KB: far past the 2-bytes-per-pixel budget.
	w, h, scaled := EstimatePreScale(4000, 3000, 100*1024)
	if !scaled {
		t.Fatal("expected pre-scale to trigger")
	}
	if w >= 4000 || h >= 3000 {
		t.Errorf("not shrunk: %dx%d", w, h)
	}
	maxPixels := int64(100*1024) / 2
	if int64(w)*int64(h) > maxPixels*4 {
		t.Errorf("still above threshold: %d pixels", w*h)
	}
	// Aspect ratio roughly preserved.
	if ratio := float64(w) / float64(h); ratio < 1.2 || ratio > 1.5 {
		t.Errorf("aspect ratio drifted: %.2f", ratio)
	}

	if _, _, scaled := EstimatePreScale(100, 100, 100*1024); scaled {
		t.Error("small image should not pre-scale")
	}
}

// recordingObserver counts fitter callbacks.
type recordingObserver struct {
	preScaled  int
	rounds     int
	probes     int
	downscales int
}

func (o *recordingObserver) PreScaled(fromW, fromH, toW, toH int) { o.preScaled++ }

func (o *recordingObserver) RoundStarted(round, width, height int) { o.rounds++ }

func (o *recordingObserver) QualityProbed(round, quality int, size int64, fits bool) {
	o.probes++
}

func (o *recordingObserver) Downscaled(round, width, height int) { o.downscales++ }

func TestFit_ObserverSeesDecisionPoints(t *testing.T) {
	obs := &recordingObserver{}
	cfg := Config{
		TargetBytes:        1,
		MinQuality:         1,
		MaxQuality:         95,
		MaxDownscaleRounds: 2,
		Level:              6,
		Observer:           obs,
	}
	if _, err := Fit(noiseImage(20, 20), &encoder.PNGEncoder{}, cfg); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if obs.rounds != 3 {
		t.Errorf("round callbacks: got %d, want 3", obs.rounds)
	}
	if obs.downscales != 2 {
		t.Errorf("downscale callbacks: got %d, want 2", obs.downscales)
	}
	if obs.probes != 3 {
		t.Errorf("probe callbacks: got %d, want 3 (one per lossless round)", obs.probes)
	}
}

func TestFit_LossyObserverProbesWithinSearchDepth(t *testing.T) {
	obs := &recordingObserver{}
	cfg := Config{
		TargetBytes:        1 << 20,
		MinQuality:         30,
		MaxQuality:         95,
		MaxDownscaleRounds: 5,
		Observer:           obs,
	}
	if _, err := Fit(noiseImage(16, 16), &encoder.JPEGEncoder{}, cfg); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if obs.rounds != 1 {
		t.Errorf("round callbacks: got %d, want 1", obs.rounds)
	}
	// Binary search over 66 values probes at most 7 times.
	if obs.probes < 1 || obs.probes > 7 {
		t.Errorf("probe callbacks: got %d, want 1..7", obs.probes)
	}
	if obs.downscales != 0 {
		t.Errorf("downscale callbacks: got %d, want 0", obs.downscales)
	}
}

func TestFit_PreScaleOnlyForLossy(t *testing.T) {
	obs := &recordingObserver{}
	img := noiseImage(400, 400) // 160k pixels against a 10 KB target
	cfg := Config{
		TargetBytes:        10 * 1024,
		MinQuality:         1,
		MaxQuality:         95,
		MaxDownscaleRounds: 0,
		Level:              6,
		Observer:           obs,
	}
	res, err := Fit(img, &encoder.JPEGEncoder{}, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if obs.preScaled != 1 {
		t.Errorf("pre-scale callbacks: got %d, want 1", obs.preScaled)
	}
	if res.Width >= 400 {
		t.Errorf("width not pre-scaled: %d", res.Width)
	}

	obs = &recordingObserver{}
	cfg.Observer = obs
	cfg.TargetBytes = 1 << 20
	if _, err := Fit(img, &encoder.PNGEncoder{}, cfg); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if obs.preScaled != 0 {
		t.Errorf("lossless path must not pre-scale, got %d callbacks", obs.preScaled)
	}
}

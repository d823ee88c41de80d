package fit

// Observer receives progress callbacks from the fitter at its decision
// points. Implementations must not retain the arguments; the fitter
// calls synchronously from the search loop.
type Observer interface {
	// PreScaled reports the one-time shrink of a very large input before
	// the quality search starts.
	PreScaled(fromW, fromH, toW, toH int)

	// RoundStarted reports the dimensions under test for a search round.
	// Round 0 is the original (possibly pre-scaled) image.
	RoundStarted(round, width, height int)

	// QualityProbed reports one encode attempt: the quality (or level,
	// for lossless formats), the resulting byte size, and whether it met
	// the target.
	QualityProbed(round, quality int, size int64, fits bool)

	// Downscaled reports that round produced no fit and the image was
	// shrunk to width x height for the next round.
	Downscaled(round, width, height int)
}

// NopObserver discards all callbacks.
type NopObserver struct{}

func (NopObserver) PreScaled(fromW, fromH, toW, toH int) {}

func (NopObserver) RoundStarted(round, width, height int) {}

func (NopObserver) QualityProbed(round, quality int, size int64, fits bool) {}

func (NopObserver) Downscaled(round, width, height int) {}

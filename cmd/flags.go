package cmd

import (
	"github.com/AnyUserName/imgfit-cli/internal/fit"
	"github.com/AnyUserName/imgfit-cli/internal/preset"
	"github.com/spf13/cobra"
)

// fitFlags is the flag surface shared by the fit and batch commands.
// Unset flags take their values from the selected preset.
type fitFlags struct {
	targetKB   int64
	format     string
	presetName string
	minQuality int
	maxQuality int
	maxRounds  int
	pngLevel   int
	maxWidth   int
	maxHeight  int
}

func (f *fitFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Int64Var(&f.targetKB, "target-kb", 0, "target size in KB, inclusive upper bound (0 = encode once, no fitting)")
	fl.StringVar(&f.format, "format", "", "output format: jpeg, webp, or png (default from preset)")
	fl.StringVar(&f.presetName, "preset", "default", "fit preset: default, thumbnail, archive")
	fl.IntVar(&f.minQuality, "min-quality", 30, "min quality 1-100; if still too big, downscale")
	fl.IntVar(&f.maxQuality, "max-quality", 95, "max quality 1-100")
	fl.IntVar(&f.maxRounds, "max-downscale-rounds", 10, "downscale rounds to attempt when min quality is still too large")
	fl.IntVar(&f.pngLevel, "png-level", 6, "png compression effort 0-9 (higher = smaller, slower)")
	fl.IntVar(&f.maxWidth, "max-width", 0, "optional max width, applied before fitting")
	fl.IntVar(&f.maxHeight, "max-height", 0, "optional max height, applied before fitting")
}

// resolve merges preset defaults with explicitly set flags and returns
// the fit configuration plus the output format name.
func (f *fitFlags) resolve(cmd *cobra.Command) (fit.Config, string) {
	p := preset.Get(f.presetName)

	format := p.Format
	if cmd.Flags().Changed("format") {
		format = f.format
	}

	cfg := fit.Config{
		TargetBytes:        f.targetKB * 1024,
		MinQuality:         p.MinQuality,
		MaxQuality:         p.MaxQuality,
		MaxDownscaleRounds: p.MaxDownscaleRounds,
		Level:              p.Level,
		MaxWidth:           f.maxWidth,
		MaxHeight:          f.maxHeight,
	}
	if cmd.Flags().Changed("min-quality") {
		cfg.MinQuality = f.minQuality
	}
	if cmd.Flags().Changed("max-quality") {
		cfg.MaxQuality = f.maxQuality
	}
	if cmd.Flags().Changed("max-downscale-rounds") {
		cfg.MaxDownscaleRounds = f.maxRounds
	}
	if cmd.Flags().Changed("png-level") {
		cfg.Level = f.pngLevel
	}
	return cfg, format
}

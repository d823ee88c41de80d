package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgfit-cli/internal/encoder"
	"github.com/AnyUserName/imgfit-cli/internal/fit"
	"github.com/AnyUserName/imgfit-cli/internal/hasher"
	"github.com/AnyUserName/imgfit-cli/internal/loader"
	"github.com/AnyUserName/imgfit-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	fitOpts       fitFlags
	fitStrict     bool
	fitReportPath string
)

var fitCmd = &cobra.Command{
	Use:   "fit <input> <output>",
	Short: "Compress one image to fit the target size",
	Long: `Decodes the input image, then searches for the highest encoder
quality whose output stays within --target-kb. If even the minimum
quality overshoots, the image is downscaled 10% per round and the
search restarts, up to --max-downscale-rounds.

For PNG output there is no quality to search; the image is encoded at
--png-level and only the downscale loop runs.

When the target is unreachable the best-effort (smallest) output is
written with a warning, unless --strict is set.`,
	Args: cobra.ExactArgs(2),
	RunE: runFit,
}

func init() {
	fitOpts.register(fitCmd)
	fitCmd.Flags().BoolVar(&fitStrict, "strict", false, "fail without writing output when the target is unreachable")
	fitCmd.Flags().StringVar(&fitReportPath, "report", "", "write a JSON fit report to this path")
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	cfg, format := fitOpts.resolve(cmd)
	if verbose {
		cfg.Observer = stderrObserver{}
	}

	enc, err := encoder.NewRegistry().Get(format)
	if err != nil {
		return err
	}

	img, srcFormat, err := loader.Load(input)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	logVerbose("input: %s (%s, %dx%d)", input, srcFormat, bounds.Dx(), bounds.Dy())
	if cfg.TargetBytes > 0 {
		logVerbose("target: %s (%s)", formatBytes(cfg.TargetBytes), enc.Format())
	}

	res, err := fit.Fit(img, enc, cfg)
	if err != nil {
		return err
	}

	if !res.MetTarget {
		if fitStrict {
			return fmt.Errorf("target %s unreachable after %d downscale rounds: best %s at %dx%d",
				formatBytes(cfg.TargetBytes), res.Rounds, formatBytes(res.Size()), res.Width, res.Height)
		}
		fmt.Fprintf(os.Stderr,
			"[imgfit] warning: could not reach target %s; writing best effort %s (%dx%d, quality=%d)\n",
			formatBytes(cfg.TargetBytes), formatBytes(res.Size()), res.Width, res.Height, res.Quality)
	}

	if err := os.WriteFile(output, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Printf("%s -> %s  %s  %dx%d  quality=%d  format=%s\n",
		filepath.Base(input), filepath.Base(output),
		formatBytes(res.Size()), res.Width, res.Height, res.Quality, enc.Format())

	if fitReportPath != "" {
		rep := report.New()
		rep.Add(report.Entry{
			Input:          input,
			Output:         output,
			Format:         enc.Format(),
			TargetBytes:    cfg.TargetBytes,
			OutputBytes:    res.Size(),
			Quality:        res.Quality,
			Rounds:         res.Rounds,
			MetTarget:      res.MetTarget,
			OriginalWidth:  bounds.Dx(),
			OriginalHeight: bounds.Dy(),
			Width:          res.Width,
			Height:         res.Height,
			Hash:           hasher.ContentHash(res.Data, 16),
		})
		if err := report.WriteJSON(rep, fitReportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

// stderrObserver prints fitter progress; installed only with --verbose.
type stderrObserver struct{}

func (stderrObserver) PreScaled(fromW, fromH, toW, toH int) {
	fmt.Fprintf(os.Stderr, "[imgfit] pre-scaling %dx%d -> %dx%d (image too large for target)\n",
		fromW, fromH, toW, toH)
}

func (stderrObserver) RoundStarted(round, width, height int) {
	fmt.Fprintf(os.Stderr, "[imgfit] round %d: testing %dx%d\n", round, width, height)
}

func (stderrObserver) QualityProbed(round, quality int, size int64, fits bool) {
	verdict := "too large"
	if fits {
		verdict = "fits"
	}
	fmt.Fprintf(os.Stderr, "[imgfit]   q=%d -> %s (%s)\n", quality, formatBytes(size), verdict)
}

func (stderrObserver) Downscaled(round, width, height int) {
	fmt.Fprintf(os.Stderr, "[imgfit] downscaling to %dx%d and retrying\n", width, height)
}

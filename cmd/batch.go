package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/imgfit-cli/internal/pipeline"
	"github.com/AnyUserName/imgfit-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	batchOpts    fitFlags
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Fit every image in a directory into the same byte budget",
	Long: `Scans the input directory for images (png, jpg, jpeg, webp, gif,
bmp, tiff), fits each one with the same configuration, and writes
content-addressed outputs plus a JSON report.

Output filenames are <key>.<w>.<h>.<hash>.<ext>. Files are processed
in parallel; each individual fit runs sequentially.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchOpts.register(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./imgfit_out", "output directory")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	cfg, format := batchOpts.resolve(cmd)
	logVerbose("input:  %s", absInput)
	logVerbose("output: %s", absOutput)
	logVerbose("target: %s (%s)", formatBytes(cfg.TargetBytes), format)

	p, err := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Format:    format,
		Fit:       cfg,
		Workers:   batchWorkers,
		Verbose:   verbose,
	})
	if err != nil {
		return err
	}

	rep, err := p.Run()
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	reportPath := filepath.Join(absOutput, "imgfit.report.json")
	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printBatchReport(rep, time.Since(start))
	return nil
}

func printBatchReport(rep *report.Report, elapsed time.Duration) {
	s := rep.Stats
	fmt.Printf("Processed:  %d images\n", s.TotalInputs)
	fmt.Printf("Met target: %d\n", s.MetTarget)
	if s.Missed > 0 {
		fmt.Printf("Missed:     %d (best-effort output written)\n", s.Missed)
	}
	if s.Failed > 0 {
		fmt.Printf("Failed:     %d\n", s.Failed)
	}
	fmt.Printf("Output:     %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("Time:       %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Report:     imgfit.report.json\n")
}

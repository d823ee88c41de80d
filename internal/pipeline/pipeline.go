// Package pipeline runs the fitter over every image in a directory
// tree. Parallelism is across files only; each individual fit is
// sequential.
package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/imgfit-cli/internal/encoder"
	"github.com/AnyUserName/imgfit-cli/internal/fit"
	"github.com/AnyUserName/imgfit-cli/internal/report"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string

	// Format selects the output encoder for every file.
	Format string

	// Fit carries the shared fit parameters. Its Observer is ignored;
	// per-file progress would interleave across workers.
	Fit fit.Config

	Workers int
	Verbose bool
}

// Pipeline fits every image under a directory into the same byte budget.
type Pipeline struct {
	cfg Config
	enc encoder.Encoder
}

// New creates a configured pipeline, resolving the output encoder.
func New(cfg Config) (*Pipeline, error) {
	enc, err := encoder.NewRegistry().Get(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Fit.Observer = nil
	return &Pipeline{cfg: cfg, enc: enc}, nil
}

// Run scans the input directory, fits each image, writes the outputs,
// and returns the collected report. Individual file failures are
// recorded in the report; Run fails only when nothing succeeded.
func (p *Pipeline) Run() (*report.Report, error) {
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[imgfit] found %d images\n", len(sources))
	}

	entries := make([]report.Entry, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{} // acquire
			defer func() { <-sem }()

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[imgfit] processing: %s\n", s.Key)
			}
			entries[idx] = p.processSource(s)
			if p.cfg.Verbose && entries[idx].Error == "" {
				fmt.Fprintf(os.Stderr, "[imgfit] done: %s (%d bytes)\n",
					s.Key, entries[idx].OutputBytes)
			}
		}(i, src)
	}
	wg.Wait()

	rep := report.New()
	failed := 0
	for _, e := range entries {
		if e.Error != "" {
			failed++
			fmt.Fprintf(os.Stderr, "[imgfit] error: %s: %s\n", e.Input, e.Error)
		}
		rep.Add(e)
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to process", failed)
	}
	rep.ComputeStats()
	return rep, nil
}

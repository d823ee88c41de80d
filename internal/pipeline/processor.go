package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgfit-cli/internal/fit"
	"github.com/AnyUserName/imgfit-cli/internal/hasher"
	"github.com/AnyUserName/imgfit-cli/internal/loader"
	"github.com/AnyUserName/imgfit-cli/internal/report"
)

// processSource fits one image and writes the content-addressed output:
// <key>.<w>.<h>.<hash8>.<ext>.
func (p *Pipeline) processSource(src Source) report.Entry {
	entry := report.Entry{
		Input:       src.RelPath,
		Format:      p.enc.Format(),
		TargetBytes: p.cfg.Fit.TargetBytes,
	}

	img, _, err := loader.Load(src.AbsPath)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	bounds := img.Bounds()
	entry.OriginalWidth = bounds.Dx()
	entry.OriginalHeight = bounds.Dy()

	res, err := fit.Fit(img, p.enc, p.cfg.Fit)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	contentHash := hasher.ContentHash(res.Data, 16)
	fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
		filepath.Base(src.Key), res.Width, res.Height, contentHash[:8], p.enc.Extension())

	keyDir := filepath.Dir(src.Key)
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))
	outPath := filepath.Join(p.cfg.OutputDir, relPath)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			entry.Error = err.Error()
			return entry
		}
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.Output = relPath
	entry.OutputBytes = res.Size()
	entry.Quality = res.Quality
	entry.Rounds = res.Rounds
	entry.MetTarget = res.MetTarget
	entry.Width = res.Width
	entry.Height = res.Height
	entry.Hash = contentHash
	return entry
}

package cmd

import (
	"fmt"

	"github.com/AnyUserName/imgfit-cli/internal/encoder"
	"github.com/AnyUserName/imgfit-cli/internal/fit"
	"github.com/AnyUserName/imgfit-cli/internal/loader"
	"github.com/spf13/cobra"
)

var inspectTargetKB int64

var inspectCmd = &cobra.Command{
	Use:   "inspect <input>",
	Short: "Show image properties relevant to fitting",
	Long: `Decodes an image and prints its dimensions, source format and alpha
presence. With --target-kb it also reports whether the large-image
pre-scale would trigger for that budget, and at what dimensions the
quality search would start.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Int64Var(&inspectTargetKB, "target-kb", 0, "target size in KB to evaluate the pre-scale against")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	input := args[0]

	img, format, err := loader.Load(input)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	alpha := "no"
	if encoder.HasAlpha(img) {
		alpha = "yes"
	}

	fmt.Printf("Input:      %s\n", input)
	fmt.Printf("Format:     %s\n", format)
	fmt.Printf("Dimensions: %dx%d (%.1f MP)\n", w, h, float64(w)*float64(h)/1e6)
	fmt.Printf("Alpha:      %s\n", alpha)

	if inspectTargetKB > 0 {
		target := inspectTargetKB * 1024
		pw, ph, scaled := fit.EstimatePreScale(w, h, target)
		if scaled {
			fmt.Printf("Pre-scale:  %dx%d -> %dx%d for a %s target\n",
				w, h, pw, ph, formatBytes(target))
		} else {
			fmt.Printf("Pre-scale:  not needed for a %s target\n", formatBytes(target))
		}
	}
	return nil
}

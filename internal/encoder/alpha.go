package encoder

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// HasAlpha reports whether the image contains any non-opaque pixel.
// NRGBA/RGBA are scanned over raw pixel data; YCbCr and Gray can never
// carry alpha.
func HasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA:
		return pixHasAlpha(src.Pix)
	case *image.RGBA:
		return pixHasAlpha(src.Pix)
	case *image.YCbCr, *image.Gray:
		return false
	default:
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a < 0xffff {
					return true
				}
			}
		}
		return false
	}
}

func pixHasAlpha(pix []uint8) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 255 {
			return true
		}
	}
	return false
}

// Flatten composites the image onto an opaque white matte. Fully
// transparent pixels become white; partially transparent pixels blend.
func Flatten(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	matte := imaging.New(bounds.Dx(), bounds.Dy(), color.NRGBA{255, 255, 255, 255})
	return imaging.Overlay(matte, img, image.Pt(0, 0), 1.0)
}

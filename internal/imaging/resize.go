package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Resampling kernel names accepted by Resize and Scale.
const (
	ResampleNearest  = "nearest"
	ResampleBox      = "box"
	ResampleBilinear = "bilinear"
	ResampleHamming  = "hamming"
	ResampleBicubic  = "bicubic"
	ResampleLanczos  = "lanczos"
)

var resampleMap = map[string]imaging.ResampleFilter{
	ResampleNearest:  imaging.NearestNeighbor,
	ResampleBox:      imaging.Box,
	ResampleBilinear: imaging.Linear,
	ResampleHamming:  imaging.Hamming,
	ResampleBicubic:  imaging.CatmullRom,
	ResampleLanczos:  imaging.Lanczos,
}

// ValidResampleMode reports whether mode names a supported kernel.
func ValidResampleMode(mode string) bool {
	_, ok := resampleMap[mode]
	return ok
}

// Resize scales an image to exactly w×h pixels using the named
// resampling kernel.
func Resize(src image.Image, w, h int, mode string) (*image.NRGBA, error) {
	filter, ok := resampleMap[mode]
	if !ok {
		return nil, fmt.Errorf("unknown resample mode %q", mode)
	}
	return imaging.Resize(src, w, h, filter), nil
}

// Scale resizes an image by a factor; target dimensions are
// floor-rounded.
func Scale(src image.Image, factor float64, mode string) (*image.NRGBA, error) {
	w := int(math.Floor(float64(src.Bounds().Dx()) * factor))
	h := int(math.Floor(float64(src.Bounds().Dy()) * factor))
	return Resize(src, w, h, mode)
}

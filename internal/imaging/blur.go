package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// Blur kinds accepted by Blur.
const (
	BlurGaussian = "gaussian"
	BlurBox      = "box"
)

// ValidBlurType reports whether kind names a supported blur.
func ValidBlurType(kind string) bool {
	return kind == BlurGaussian || kind == BlurBox
}

// Blur applies a gaussian or box blur with the given radius. A radius
// of zero returns an unmodified copy.
func Blur(src image.Image, kind string, radius float64) (*image.RGBA, error) {
	switch kind {
	case BlurGaussian:
		return blur.Gaussian(src, radius), nil
	case BlurBox:
		return blur.Box(src, radius), nil
	default:
		return nil, fmt.Errorf("unknown blur type %q", kind)
	}
}

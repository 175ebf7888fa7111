package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
)

// Lerp remaps every color channel linearly from [0,255] onto
// [min,max]. Alpha is preserved.
func Lerp(src image.Image, minVal, maxVal int) *image.RGBA {
	span := float64(maxVal - minVal)
	return adjust.Apply(src, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: lerpChannel(c.R, span, minVal),
			G: lerpChannel(c.G, span, minVal),
			B: lerpChannel(c.B, span, minVal),
			A: c.A,
		}
	})
}

// InverseLerp remaps every color channel from [min,max] back onto
// [0,255], clamping values outside the input range. The caller must
// guarantee max > min.
func InverseLerp(src image.Image, minVal, maxVal int) *image.RGBA {
	span := float64(maxVal - minVal)
	return adjust.Apply(src, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: inverseLerpChannel(c.R, span, minVal),
			G: inverseLerpChannel(c.G, span, minVal),
			B: inverseLerpChannel(c.B, span, minVal),
			A: c.A,
		}
	})
}

func lerpChannel(v uint8, span float64, minVal int) uint8 {
	return uint8(float64(v)/255*span + float64(minVal))
}

func inverseLerpChannel(v uint8, span float64, minVal int) uint8 {
	t := (float64(v) - float64(minVal)) / span
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return uint8(t * 255)
}

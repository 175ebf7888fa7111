package safety

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// redactionBlurRadius is the gaussian radius applied to flagged
// images before the caution overlay goes on.
const redactionBlurRadius = 32

// Redact returns the redacted rendition of a flagged image: a heavy
// gaussian blur with the caution overlay composited at the origin.
func Redact(src image.Image) image.Image {
	blurred := blur.Gaussian(src, redactionBlurRadius)

	overlay := cautionOverlay(src.Bounds().Dx(), src.Bounds().Dy())
	draw.Draw(blurred, overlay.Bounds(), overlay, image.Point{}, draw.Over)
	return blurred
}

// cautionOverlay renders the warning banner: a translucent black
// band with yellow hazard stripes along its top and bottom edges. It
// covers the top quarter of the image, capped at 96 pixels.
func cautionOverlay(w, h int) *image.NRGBA {
	bandH := h / 4
	if bandH > 96 {
		bandH = 96
	}
	if bandH < 8 {
		bandH = 8
	}

	band := image.NewNRGBA(image.Rect(0, 0, w, bandH))
	bg := color.NRGBA{A: 192}
	stripe := color.NRGBA{R: 255, G: 204, A: 230}

	for y := 0; y < bandH; y++ {
		edge := y < 4 || y >= bandH-4
		for x := 0; x < w; x++ {
			if edge && (x/8+y)%2 == 0 {
				band.SetNRGBA(x, y, stripe)
			} else {
				band.SetNRGBA(x, y, bg)
			}
		}
	}
	return band
}

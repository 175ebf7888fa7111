package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// CropWithPadding crops an image to a w×h rectangle whose top-left
// corner is at (x, y) in source coordinates. The rectangle may extend
// outside the source bounds; uncovered regions stay fully transparent.
func CropWithPadding(src image.Image, x, y, w, h int) *image.NRGBA {
	canvas := imaging.New(w, h, color.NRGBA{0, 0, 0, 0})
	return imaging.Paste(canvas, src, image.Pt(-x, -y))
}

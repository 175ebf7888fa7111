package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// PasteExpand composites overlay onto base at offset (x, y). The
// result canvas is the union of the base box and the offset overlay
// box, so negative offsets or oversized overlays grow the canvas
// instead of clipping. Without a mask the overlay replaces the base
// region outright, alpha included. A non-nil mask gates the overlay
// paste; white mask pixels let the overlay through.
func PasteExpand(base, overlay image.Image, x, y int, mask *image.Gray) *image.NRGBA {
	baseW := base.Bounds().Dx()
	baseH := base.Bounds().Dy()
	overW := overlay.Bounds().Dx()
	overH := overlay.Bounds().Dy()

	minX := min(0, x)
	minY := min(0, y)
	maxX := max(baseW, overW+x)
	maxY := max(baseH, overH+y)

	canvas := imaging.New(maxX-minX, maxY-minY, color.NRGBA{0, 0, 0, 0})
	canvas = imaging.Paste(canvas, base, image.Pt(-minX, -minY))

	overPos := image.Pt(max(0, x), max(0, y))
	if mask == nil {
		return imaging.Paste(canvas, overlay, overPos)
	}

	rect := image.Rectangle{Min: overPos, Max: overPos.Add(overlay.Bounds().Size())}
	draw.DrawMask(canvas, rect, overlay, overlay.Bounds().Min, maskToAlpha(mask), mask.Bounds().Min, draw.Over)
	return canvas
}

// maskToAlpha reinterprets a grayscale mask as an alpha mask so it can
// gate a composite.
func maskToAlpha(mask *image.Gray) *image.Alpha {
	b := mask.Bounds()
	alpha := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			alpha.SetAlpha(x, y, color.Alpha{A: mask.GrayAt(x, y).Y})
		}
	}
	return alpha
}

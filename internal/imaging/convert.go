package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/channel"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Color modes accepted by Convert.
const (
	ModeL     = "L"
	ModeLA    = "LA"
	ModeRGB   = "RGB"
	ModeRGBA  = "RGBA"
	ModeCMYK  = "CMYK"
	ModeYCbCr = "YCbCr"
	ModeHSV   = "HSV"
	ModeLAB   = "LAB"
)

var validModes = map[string]bool{
	ModeL: true, ModeLA: true, ModeRGB: true, ModeRGBA: true,
	ModeCMYK: true, ModeYCbCr: true, ModeHSV: true, ModeLAB: true,
}

// ValidMode reports whether mode names a supported color mode.
func ValidMode(mode string) bool {
	return validModes[mode]
}

// Convert re-expresses an image in the requested color mode. Modes
// without a native Go image type (HSV, LAB, YCbCr) store their
// components in the R, G, B channels of an opaque RGB image, scaled
// to the 8-bit range, which is how they survive PNG encoding.
func Convert(src image.Image, mode string) (image.Image, error) {
	switch mode {
	case ModeL:
		return ToGray(imaging.Grayscale(src)), nil
	case ModeLA:
		return grayAlpha(src), nil
	case ModeRGB:
		return stripAlpha(src), nil
	case ModeRGBA:
		return imaging.Clone(src), nil
	case ModeCMYK:
		dst := image.NewCMYK(src.Bounds())
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst, nil
	case ModeYCbCr:
		return mapPixels(src, func(r, g, b uint8) (uint8, uint8, uint8) {
			return color.RGBToYCbCr(r, g, b)
		}), nil
	case ModeHSV:
		return mapColorful(src, func(c colorful.Color) (float64, float64, float64) {
			h, s, v := c.Hsv()
			return h / 360, s, v
		}), nil
	case ModeLAB:
		return mapColorful(src, func(c colorful.Color) (float64, float64, float64) {
			l, a, b := c.Lab()
			// a and b are roughly in [-1, 1]; recenter onto [0, 1].
			return l, (a + 1) / 2, (b + 1) / 2
		}), nil
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}
}

// grayAlpha keeps luminance in the color channels and preserves the
// source alpha.
func grayAlpha(src image.Image) *image.NRGBA {
	gray := ToGray(imaging.Grayscale(src))
	alpha := channel.Extract(src, channel.Alpha)
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := gray.GrayAt(x, y).Y
			dst.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: alpha.GrayAt(x, y).Y})
		}
	}
	return dst
}

func stripAlpha(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := imaging.Clone(src)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

func mapPixels(src image.Image, fn func(r, g, b uint8) (uint8, uint8, uint8)) *image.NRGBA {
	in := imaging.Clone(src)
	b := in.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := in.PixOffset(x, y)
			c0, c1, c2 := fn(in.Pix[i], in.Pix[i+1], in.Pix[i+2])
			dst.SetNRGBA(x, y, color.NRGBA{R: c0, G: c1, B: c2, A: 0xff})
		}
	}
	return dst
}

func mapColorful(src image.Image, fn func(colorful.Color) (float64, float64, float64)) *image.NRGBA {
	return mapPixels(src, func(r, g, b uint8) (uint8, uint8, uint8) {
		c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		c0, c1, c2 := fn(c)
		return clamp8(c0), clamp8(c1), clamp8(c2)
	})
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/disintegration/imaging"
)

// AlphaToMask extracts the alpha channel of an image as a grayscale
// mask. Inverting twice is the identity.
func AlphaToMask(src image.Image, invert bool) *image.Gray {
	mask := channel.Extract(src, channel.Alpha)
	if invert {
		return Invert(mask)
	}
	return mask
}

// Invert returns the photometric negative of a grayscale image.
func Invert(src *image.Gray) *image.Gray {
	inverted := imaging.Invert(src)
	return ToGray(inverted)
}

// ToGray coerces any image to grayscale. Gray sources pass through;
// color sources collapse to their red channel, which for stored masks
// (written as grayscale PNGs) equals the luminance.
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	return channel.Extract(src, channel.Red)
}

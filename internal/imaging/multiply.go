package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blend"
)

// Multiply blends two images multiplicatively, channel by channel.
// Where either input is black the result is black; white acts as the
// identity.
func Multiply(a, b image.Image) *image.RGBA {
	return blend.Multiply(a, b)
}

package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 1))
	for x := 0; x < 256; x++ {
		v := uint8(x)
		img.SetNRGBA(x, 0, color.NRGBA{R: v, G: v, B: v, A: 255})
	}
	return img
}

func TestLerp_RemapsOntoTargetRange(t *testing.T) {
	out := Lerp(rampImage(), 64, 192)

	assert.Equal(t, uint8(64), out.RGBAAt(0, 0).R, "black maps to min")
	assert.Equal(t, uint8(192), out.RGBAAt(255, 0).R, "white maps to max")

	mid := out.RGBAAt(128, 0).R
	assert.InDelta(t, 128, int(mid), 1, "midpoint stays near center")
}

func TestInverseLerp_ClampsOutsideInputRange(t *testing.T) {
	out := InverseLerp(rampImage(), 64, 192)

	assert.Equal(t, uint8(0), out.RGBAAt(0, 0).R, "below min clamps to 0")
	assert.Equal(t, uint8(0), out.RGBAAt(64, 0).R, "min maps to 0")
	assert.Equal(t, uint8(255), out.RGBAAt(192, 0).R, "max maps to 255")
	assert.Equal(t, uint8(255), out.RGBAAt(255, 0).R, "above max clamps to 255")
}

func TestLerpInverseLerp_RoundTripWithinQuantization(t *testing.T) {
	src := rampImage()

	// For the full (0, 255) range lerp and inverse-lerp are each
	// other's inverse up to 8-bit quantization error.
	lerped := Lerp(src, 0, 255)
	restored := InverseLerp(lerped, 0, 255)

	for x := 0; x < 256; x++ {
		want := src.NRGBAAt(x, 0).R
		got := restored.RGBAAt(x, 0).R
		require.InDelta(t, int(want), int(got), 1, "x=%d", x)
	}
}

func TestLerp_PreservesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	out := Lerp(img, 10, 20)
	assert.Equal(t, uint8(255), out.RGBAAt(0, 0).A)
}

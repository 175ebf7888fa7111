package safety

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return img
}

func TestRedact_PreservesDimensions(t *testing.T) {
	src := checkerboard(128, 96)
	out := Redact(src)
	assert.Equal(t, src.Bounds().Size(), out.Bounds().Size())
}

func TestRedact_ChangesPixels(t *testing.T) {
	src := checkerboard(128, 96)
	out := Redact(src)

	differs := false
	for y := 0; y < 96 && !differs; y++ {
		for x := 0; x < 128; x++ {
			sr, sg, sb, _ := src.At(x, y).RGBA()
			or, og, ob, _ := out.At(x, y).RGBA()
			if sr != or || sg != og || sb != ob {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs, "redacted image must differ from the source")
}

func TestRedact_OverlayAtOrigin(t *testing.T) {
	// A uniform white image only changes where the overlay lands.
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	out := Redact(src)

	r, g, b, _ := out.At(5, 5).RGBA()
	require.True(t, r < 0xffff || g < 0xffff || b < 0xffff,
		"overlay band should darken the top-left corner")

	br, bg, bb, _ := out.At(32, 60).RGBA()
	assert.Equal(t, uint32(0xffff), br, "bottom stays white")
	assert.Equal(t, uint32(0xffff), bg, "bottom stays white")
	assert.Equal(t, uint32(0xffff), bb, "bottom stays white")
}

func TestResolveDevice(t *testing.T) {
	cpu := ResolveDevice(DeviceCPU)
	assert.Equal(t, DeviceCPU, cpu.Name)

	unknown := ResolveDevice("tpu")
	assert.Equal(t, DeviceCPU, unknown.Name)
}

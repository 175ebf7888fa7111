package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Gray(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := Convert(src, ModeL)
	require.NoError(t, err)

	gray, ok := out.(*image.Gray)
	require.True(t, ok, "L mode should produce a single-channel image")
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
}

func TestConvert_RGBDropsAlpha(t *testing.T) {
	src := solidImage(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 100})

	out, err := Convert(src, ModeRGB)
	require.NoError(t, err)

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, uint8(255), nrgba.NRGBAAt(0, 0).A)
}

func TestConvert_LAKeepsAlpha(t *testing.T) {
	src := solidImage(2, 2, color.NRGBA{R: 200, G: 200, B: 200, A: 77})

	out, err := Convert(src, ModeLA)
	require.NoError(t, err)

	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok)
	px := nrgba.NRGBAAt(0, 0)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)
	assert.Equal(t, uint8(77), px.A)
}

func TestConvert_CMYK(t *testing.T) {
	src := solidImage(2, 2, color.NRGBA{R: 255, A: 255})

	out, err := Convert(src, ModeCMYK)
	require.NoError(t, err)

	_, ok := out.(*image.CMYK)
	assert.True(t, ok)
}

func TestConvert_HSVComponents(t *testing.T) {
	// Pure red: H=0, S=1, V=1.
	src := solidImage(1, 1, color.NRGBA{R: 255, A: 255})

	out, err := Convert(src, ModeHSV)
	require.NoError(t, err)

	nrgba := out.(*image.NRGBA)
	px := nrgba.NRGBAAt(0, 0)
	assert.Equal(t, uint8(0), px.R, "hue of red is zero")
	assert.Equal(t, uint8(255), px.G, "saturation is full")
	assert.Equal(t, uint8(255), px.B, "value is full")
}

func TestConvert_YCbCrComponents(t *testing.T) {
	src := solidImage(1, 1, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	out, err := Convert(src, ModeYCbCr)
	require.NoError(t, err)

	nrgba := out.(*image.NRGBA)
	px := nrgba.NRGBAAt(0, 0)
	wantY, wantCb, wantCr := color.RGBToYCbCr(128, 128, 128)
	assert.Equal(t, wantY, px.R)
	assert.Equal(t, wantCb, px.G)
	assert.Equal(t, wantCr, px.B)
}

func TestConvert_UnknownMode(t *testing.T) {
	src := solidImage(1, 1, opaqueRed)
	_, err := Convert(src, "P")
	assert.Error(t, err)
}

func TestValidMode(t *testing.T) {
	for _, mode := range []string{"L", "LA", "RGB", "RGBA", "CMYK", "YCbCr", "HSV", "LAB"} {
		assert.True(t, ValidMode(mode), mode)
	}
	assert.False(t, ValidMode("F"))
}

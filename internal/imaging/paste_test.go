package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasteExpand_CanvasIsUnionOfBoxes(t *testing.T) {
	tests := []struct {
		name                   string
		baseW, baseH           int
		overW, overH           int
		x, y                   int
		wantW, wantH           int
	}{
		{
			name:  "overlay inside base",
			baseW: 100, baseH: 100, overW: 20, overH: 20, x: 10, y: 10,
			wantW: 100, wantH: 100,
		},
		{
			name:  "overlay hangs off bottom right",
			baseW: 100, baseH: 100, overW: 40, overH: 40, x: 90, y: 80,
			wantW: 130, wantH: 120,
		},
		{
			name:  "negative offset grows top left",
			baseW: 100, baseH: 100, overW: 40, overH: 40, x: -30, y: -10,
			wantW: 130, wantH: 110,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := solidImage(tt.baseW, tt.baseH, opaqueRed)
			overlay := solidImage(tt.overW, tt.overH, color.NRGBA{G: 255, A: 255})

			out := PasteExpand(base, overlay, tt.x, tt.y, nil)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestPasteExpand_OverlayPixels(t *testing.T) {
	base := solidImage(50, 50, opaqueRed)
	green := color.NRGBA{G: 255, A: 255}
	overlay := solidImage(10, 10, green)

	out := PasteExpand(base, overlay, 20, 20, nil)

	assert.Equal(t, green, out.NRGBAAt(25, 25))
	assert.Equal(t, opaqueRed, out.NRGBAAt(5, 5))
}

func TestPasteExpand_UnmaskedPasteReplacesAlpha(t *testing.T) {
	base := solidImage(50, 50, opaqueRed)
	transparent := color.NRGBA{}
	overlay := solidImage(10, 10, transparent)

	out := PasteExpand(base, overlay, 20, 20, nil)

	// A mask-less paste replaces the region outright; the transparent
	// overlay must not let the base show through.
	assert.Equal(t, transparent, out.NRGBAAt(25, 25))
	assert.Equal(t, opaqueRed, out.NRGBAAt(5, 5))
}

func TestPasteExpand_MaskGatesOverlay(t *testing.T) {
	base := solidImage(20, 20, opaqueRed)
	green := color.NRGBA{G: 255, A: 255}
	overlay := solidImage(10, 10, green)

	// Left half of the mask is opaque, right half transparent.
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	out := PasteExpand(base, overlay, 0, 0, mask)
	require.Equal(t, 20, out.Bounds().Dx())

	assert.Equal(t, uint8(255), out.NRGBAAt(2, 2).G, "masked-in region should show overlay")
	assert.Equal(t, uint8(255), out.NRGBAAt(7, 2).R, "masked-out region should keep base")
}

package invocations

import (
	"context"
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/testutils"
)

func newTestContext(fake *testutils.FakeImageService) *Context {
	return &Context{
		Images:         fake,
		Logger:         testutils.QuietLogger(),
		SessionID:      "sess-1",
		NodeID:         "node-1",
		IsIntermediate: true,
	}
}

func invoke(t *testing.T, ic *Context, typeTag, params string) Output {
	t.Helper()
	inv, err := New(typeTag, json.RawMessage(params))
	require.NoError(t, err)
	out, err := inv.Invoke(context.Background(), ic)
	require.NoError(t, err)
	return out
}

func TestLoadImage_PassesReferenceWithoutWriting(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "input.png", testutils.GradientImage(100, 80))
	ic := newTestContext(fake)

	out := invoke(t, ic, "load_image", `{"image":{"image_name":"input.png"}}`)

	img, ok := out.(*ImageOutput)
	require.True(t, ok)
	assert.Equal(t, "input.png", img.Image.ImageName)
	assert.Equal(t, 100, img.Width)
	assert.Equal(t, 80, img.Height)
	assert.Equal(t, 0, fake.CreatedCount())
}

func TestLoadImage_MissingImage(t *testing.T) {
	fake := testutils.NewFakeImageService()
	ic := newTestContext(fake)

	inv, err := New("load_image", json.RawMessage(`{"image":{"image_name":"gone.png"}}`))
	require.NoError(t, err)

	_, err = inv.Invoke(context.Background(), ic)
	assert.ErrorIs(t, err, imgdomain.ErrImageNotFound)
}

func TestShowImage_PassesReferenceWithoutWriting(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "shown.png", testutils.SolidImage(40, 30, color.NRGBA{R: 255, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "show_image", `{"image":{"image_name":"shown.png"}}`)

	img := out.(*ImageOutput)
	assert.Equal(t, "shown.png", img.Image.ImageName)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 30, img.Height)
	assert.Equal(t, 0, fake.CreatedCount())
}

func TestImageCrop_OutputDimensions(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.GradientImage(100, 80))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_crop",
		`{"image":{"image_name":"src.png"},"x":25,"y":10,"width":50,"height":60}`)

	img := out.(*ImageOutput)
	assert.Equal(t, 50, img.Width)
	assert.Equal(t, 60, img.Height)
	assert.NotEqual(t, "src.png", img.Image.ImageName)
	assert.Equal(t, 1, fake.CreatedCount())

	record, err := fake.GetRecord(context.Background(), img.Image.ImageName)
	require.NoError(t, err)
	assert.Equal(t, imgdomain.OriginInternal, record.Origin)
	assert.Equal(t, imgdomain.CategoryGeneral, record.Category)
	assert.Equal(t, "sess-1", record.SessionID)
	assert.Equal(t, "node-1", record.NodeID)
	assert.True(t, record.IsIntermediate)
}

func TestImageCrop_BoxOutsideSourceIsTransparent(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.SolidImage(32, 32, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	ic := newTestContext(fake)

	// Crop starting left of the source: the first 16 columns have no
	// source pixels behind them.
	out := invoke(t, ic, "img_crop",
		`{"image":{"image_name":"src.png"},"x":-16,"y":0,"width":32,"height":32}`)

	img := out.(*ImageOutput)
	assert.Equal(t, 32, img.Width)
	assert.Equal(t, 32, img.Height)

	result, err := fake.GetImage(context.Background(), img.Image.ImageName)
	require.NoError(t, err)
	_, _, _, a := result.At(0, 0).RGBA()
	assert.Zero(t, a, "padding should be transparent")
	_, _, _, a = result.At(20, 0).RGBA()
	assert.NotZero(t, a, "source region should be opaque")
}

func TestImagePaste_ExpandsCanvas(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "base.png", testutils.SolidImage(64, 64, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))
	fake.Seed(t, "over.png", testutils.SolidImage(32, 32, color.NRGBA{R: 250, A: 255}))
	ic := newTestContext(fake)

	tests := []struct {
		name   string
		x, y   int
		width  int
		height int
	}{
		{"inside base", 16, 16, 64, 64},
		{"past bottom right", 48, 48, 80, 80},
		{"negative offset", -16, -16, 80, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := invoke(t, ic, "img_paste", `{
				"base_image":{"image_name":"base.png"},
				"image":{"image_name":"over.png"},
				"x":`+jsonInt(tt.x)+`,"y":`+jsonInt(tt.y)+`}`)

			img := out.(*ImageOutput)
			assert.Equal(t, tt.width, img.Width)
			assert.Equal(t, tt.height, img.Height)
		})
	}
}

func jsonInt(v int) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func TestImagePaste_WhiteMaskProtectsBase(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "base.png", testutils.SolidImage(32, 32, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	fake.Seed(t, "over.png", testutils.SolidImage(32, 32, color.NRGBA{R: 200, G: 200, B: 200, A: 255}))
	fake.Seed(t, "mask.png", testutils.SolidImage(32, 32, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_paste", `{
		"base_image":{"image_name":"base.png"},
		"image":{"image_name":"over.png"},
		"mask":{"image_name":"mask.png"},
		"x":0,"y":0}`)

	img := out.(*ImageOutput)
	result, err := fake.GetImage(context.Background(), img.Image.ImageName)
	require.NoError(t, err)

	// An all-white mask fully protects the base, so the overlay must
	// not show anywhere.
	r, g, b, _ := result.At(16, 16).RGBA()
	assert.Equal(t, uint32(10), r>>8)
	assert.Equal(t, uint32(20), g>>8)
	assert.Equal(t, uint32(30), b>>8)
}

func TestImagePaste_BlackMaskAdmitsOverlay(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "base.png", testutils.SolidImage(32, 32, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
	fake.Seed(t, "over.png", testutils.SolidImage(32, 32, color.NRGBA{R: 200, G: 200, B: 200, A: 255}))
	fake.Seed(t, "mask.png", testutils.SolidImage(32, 32, color.NRGBA{A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_paste", `{
		"base_image":{"image_name":"base.png"},
		"image":{"image_name":"over.png"},
		"mask":{"image_name":"mask.png"},
		"x":0,"y":0}`)

	img := out.(*ImageOutput)
	result, err := fake.GetImage(context.Background(), img.Image.ImageName)
	require.NoError(t, err)

	r, _, _, _ := result.At(16, 16).RGBA()
	assert.Equal(t, uint32(200), r>>8)
}

func TestMaskFromAlpha_ProducesMaskOutput(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.AlphaGradientImage(48, 48))
	ic := newTestContext(fake)

	out := invoke(t, ic, "tomask", `{"image":{"image_name":"src.png"}}`)

	mask, ok := out.(*MaskOutput)
	require.True(t, ok)
	assert.Equal(t, OutputTypeMask, mask.Kind())
	assert.Equal(t, 48, mask.Width)
	assert.Equal(t, 48, mask.Height)

	record, err := fake.GetRecord(context.Background(), mask.Mask.ImageName)
	require.NoError(t, err)
	assert.Equal(t, imgdomain.CategoryMask, record.Category)
}

func TestMaskFromAlpha_Invert(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.SolidImage(16, 16, color.NRGBA{R: 100, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "tomask", `{"image":{"image_name":"src.png"},"invert":true}`)

	mask := out.(*MaskOutput)
	result, err := fake.GetImage(context.Background(), mask.Mask.ImageName)
	require.NoError(t, err)

	// Fully opaque source, inverted: mask is black.
	r, _, _, _ := result.At(8, 8).RGBA()
	assert.Zero(t, r>>8)
}

func TestImageMultiply_WhiteIsIdentityBlackAnnihilates(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "color.png", testutils.SolidImage(16, 16, color.NRGBA{R: 120, G: 60, B: 30, A: 255}))
	fake.Seed(t, "white.png", testutils.SolidImage(16, 16, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	fake.Seed(t, "black.png", testutils.SolidImage(16, 16, color.NRGBA{A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_mul",
		`{"image1":{"image_name":"color.png"},"image2":{"image_name":"white.png"}}`)
	result, err := fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, g, b, _ := result.At(8, 8).RGBA()
	assert.Equal(t, uint32(120), r>>8)
	assert.Equal(t, uint32(60), g>>8)
	assert.Equal(t, uint32(30), b>>8)

	out = invoke(t, ic, "img_mul",
		`{"image1":{"image_name":"color.png"},"image2":{"image_name":"black.png"}}`)
	result, err = fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, g, b, _ = result.At(8, 8).RGBA()
	assert.Zero(t, r>>8)
	assert.Zero(t, g>>8)
	assert.Zero(t, b>>8)
}

func TestImageChannel_ExtractsRed(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.SolidImage(16, 16, color.NRGBA{R: 200, G: 50, B: 25, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_chan",
		`{"image":{"image_name":"src.png"},"channel":"R"}`)

	result, err := fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, g, b, _ := result.At(8, 8).RGBA()
	assert.Equal(t, uint32(200), r>>8)
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
}

func TestImageConvert_GrayscaleCollapsesChannels(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.SolidImage(16, 16, color.NRGBA{R: 120, G: 60, B: 30, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_conv",
		`{"image":{"image_name":"src.png"},"mode":"L"}`)

	img := out.(*ImageOutput)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 16, img.Height)

	result, err := fake.GetImage(context.Background(), img.Image.ImageName)
	require.NoError(t, err)
	r, g, b, _ := result.At(8, 8).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, r, b)
}

func TestImageBlur_SolidImageStaysSolid(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.SolidImage(32, 32, color.NRGBA{R: 90, G: 90, B: 90, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_blur",
		`{"image":{"image_name":"src.png"},"radius":4,"blur_type":"gaussian"}`)

	img := out.(*ImageOutput)
	assert.Equal(t, 32, img.Width)
	assert.Equal(t, 32, img.Height)

	result, err := fake.GetImage(context.Background(), img.Image.ImageName)
	require.NoError(t, err)
	r, _, _, _ := result.At(16, 16).RGBA()
	assert.Equal(t, uint32(90), r>>8)
}

func TestImageResize_ExactDimensions(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.GradientImage(128, 128))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_resize",
		`{"image":{"image_name":"src.png"},"width":64,"height":80}`)

	img := out.(*ImageOutput)
	assert.Equal(t, 64, img.Width)
	assert.Equal(t, 80, img.Height)
}

func TestImageScale_FloorRoundsDimensions(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "src.png", testutils.GradientImage(101, 61))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_scale",
		`{"image":{"image_name":"src.png"},"scale_factor":0.5}`)

	img := out.(*ImageOutput)
	assert.Equal(t, 50, img.Width)
	assert.Equal(t, 30, img.Height)
}

func TestImageLerp_RemapsOntoRange(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "black.png", testutils.SolidImage(8, 8, color.NRGBA{A: 255}))
	fake.Seed(t, "white.png", testutils.SolidImage(8, 8, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_lerp",
		`{"image":{"image_name":"black.png"},"min":64,"max":128}`)
	result, err := fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, _, _, _ := result.At(4, 4).RGBA()
	assert.Equal(t, uint32(64), r>>8)

	out = invoke(t, ic, "img_lerp",
		`{"image":{"image_name":"white.png"},"min":64,"max":128}`)
	result, err = fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, _, _, _ = result.At(4, 4).RGBA()
	assert.Equal(t, uint32(128), r>>8)
}

func TestImageInverseLerp_RemapsAndClamps(t *testing.T) {
	fake := testutils.NewFakeImageService()
	fake.Seed(t, "mid.png", testutils.SolidImage(8, 8, color.NRGBA{R: 64, G: 64, B: 64, A: 255}))
	fake.Seed(t, "above.png", testutils.SolidImage(8, 8, color.NRGBA{R: 200, G: 200, B: 200, A: 255}))
	ic := newTestContext(fake)

	out := invoke(t, ic, "img_ilerp",
		`{"image":{"image_name":"mid.png"},"min":0,"max":128}`)
	result, err := fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, _, _, _ := result.At(4, 4).RGBA()
	assert.Equal(t, uint32(127), r>>8)

	// Values above max clamp to full white.
	out = invoke(t, ic, "img_ilerp",
		`{"image":{"image_name":"above.png"},"min":0,"max":128}`)
	result, err = fake.GetImage(context.Background(), out.(*ImageOutput).Image.ImageName)
	require.NoError(t, err)
	r, _, _, _ = result.At(4, 4).RGBA()
	assert.Equal(t, uint32(255), r>>8)
}

package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
)

// ImageWatermark embeds an invisible watermark into an image's
// frequency domain. When disabled the stored output stays
// byte-identical to the input.
type ImageWatermark struct {
	Image    imgdomain.ImageField `json:"image"`
	Text     string               `json:"text"`
	Enabled  *bool                `json:"enabled,omitempty"`
	Metadata json.RawMessage      `json:"metadata,omitempty"`
}

func init() {
	register("img_watermark", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageWatermark{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		return inv, nil
	})
}

func (i *ImageWatermark) Type() string { return "img_watermark" }

func (i *ImageWatermark) enabled(ic *Context) bool {
	if i.Enabled != nil {
		return *i.Enabled
	}
	return ic.WatermarkEnabled
}

func (i *ImageWatermark) text(ic *Context) string {
	if i.Text != "" {
		return i.Text
	}
	return ic.WatermarkText
}

func (i *ImageWatermark) Invoke(ctx context.Context, ic *Context) (Output, error) {
	if !i.enabled(ic) {
		return i.passThrough(ctx, ic)
	}

	if ic.Watermark == nil {
		return nil, fmt.Errorf("invisible watermark requested but not configured")
	}

	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	ic.Logger.Info(ctx).Str("image_name", i.Image.ImageName).Msg("running invisible watermarker")

	marked, err := ic.Watermark.Embed(img, []byte(i.text(ic)))
	if err != nil {
		return nil, fmt.Errorf("watermark embedding failed: %w", err)
	}

	record, err := saveImage(ctx, ic, marked, imgdomain.CategoryGeneral, i.Metadata)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

func (i *ImageWatermark) passThrough(ctx context.Context, ic *Context) (Output, error) {
	data, err := ic.Images.GetImageBytes(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	record, err := saveImageBytes(ctx, ic, data, i.Metadata)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

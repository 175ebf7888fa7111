package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/safety"
)

// ImageNSFWBlur runs the NSFW checker over an image and redacts it
// with a heavy blur and caution overlay when a concept is found. When
// the checker is disabled the stored output stays byte-identical to
// the input.
type ImageNSFWBlur struct {
	Image    imgdomain.ImageField `json:"image"`
	Enabled  *bool                `json:"enabled,omitempty"`
	Metadata json.RawMessage      `json:"metadata,omitempty"`
}

func init() {
	register("img_nsfw", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageNSFWBlur{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		return inv, nil
	})
}

func (i *ImageNSFWBlur) Type() string { return "img_nsfw" }

func (i *ImageNSFWBlur) enabled(ic *Context) bool {
	if i.Enabled != nil {
		return *i.Enabled
	}
	return ic.SafetyEnabled
}

func (i *ImageNSFWBlur) Invoke(ctx context.Context, ic *Context) (Output, error) {
	if !i.enabled(ic) {
		return i.passThrough(ctx, ic)
	}

	if ic.Safety == nil {
		return nil, fmt.Errorf("NSFW checker requested but not configured")
	}

	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	ic.Logger.Info(ctx).Str("image_name", i.Image.ImageName).Msg("running NSFW checker")

	flagged, score, err := ic.Safety.Check(img)
	if err != nil {
		return nil, fmt.Errorf("NSFW check failed: %w", err)
	}

	ic.Logger.Info(ctx).
		Bool("nsfw", flagged).
		Float32("score", score).
		Str("image_name", i.Image.ImageName).
		Msg("NSFW scan result")

	if flagged {
		img = safety.Redact(img)
	}

	record, err := saveImage(ctx, ic, img, imgdomain.CategoryGeneral, i.Metadata)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

// passThrough stores a byte-identical copy of the input
func (i *ImageNSFWBlur) passThrough(ctx context.Context, ic *Context) (Output, error) {
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

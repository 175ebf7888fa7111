package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageScale resizes an image by a factor. Output dimensions are the
// floor of source dimensions times the factor.
type ImageScale struct {
	Image        imgdomain.ImageField `json:"image"`
	ScaleFactor  float64              `json:"scale_factor"`
	ResampleMode string               `json:"resample_mode"`
}

func init() {
	register("img_scale", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageScale{ScaleFactor: 2.0, ResampleMode: imaging.ResampleBicubic}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if inv.ScaleFactor <= 0 {
			return nil, fmt.Errorf("%w: scale factor must be positive, got %v",
				ErrInvalidParams, inv.ScaleFactor)
		}
		if !imaging.ValidResampleMode(inv.ResampleMode) {
			return nil, fmt.Errorf("%w: unknown resample mode %q",
				ErrInvalidParams, inv.ResampleMode)
		}
		return inv, nil
	})
}

func (i *ImageScale) Type() string { return "img_scale" }

func (i *ImageScale) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	scaled, err := imaging.Scale(img, i.ScaleFactor, i.ResampleMode)
	if err != nil {
		return nil, err
	}

	record, err := saveImage(ctx, ic, scaled, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

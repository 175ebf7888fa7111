package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageBlur blurs an image with a gaussian or box kernel.
type ImageBlur struct {
	Image    imgdomain.ImageField `json:"image"`
	Radius   float64              `json:"radius"`
	BlurType string               `json:"blur_type"`
}

func init() {
	register("img_blur", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageBlur{Radius: 8.0, BlurType: imaging.BlurGaussian}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if inv.Radius < 0 {
			return nil, fmt.Errorf("%w: blur radius must be non-negative, got %v",
				ErrInvalidParams, inv.Radius)
		}
		if !imaging.ValidBlurType(inv.BlurType) {
			return nil, fmt.Errorf("%w: unknown blur type %q", ErrInvalidParams, inv.BlurType)
		}
		return inv, nil
	})
}

func (i *ImageBlur) Type() string { return "img_blur" }

func (i *ImageBlur) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	blurred, err := imaging.Blur(img, i.BlurType, i.Radius)
	if err != nil {
		return nil, err
	}

	record, err := saveImage(ctx, ic, blurred, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

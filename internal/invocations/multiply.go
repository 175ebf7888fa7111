package invocations

import (
	"context"
	"encoding/json"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageMultiply multiplies two images together channel by channel.
type ImageMultiply struct {
	Image1 imgdomain.ImageField `json:"image1"`
	Image2 imgdomain.ImageField `json:"image2"`
}

func init() {
	register("img_mul", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageMultiply{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image1, "image1"); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image2, "image2"); err != nil {
			return nil, err
		}
		return inv, nil
	})
}

func (i *ImageMultiply) Type() string { return "img_mul" }

func (i *ImageMultiply) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img1, err := ic.Images.GetImage(ctx, i.Image1.ImageName)
	if err != nil {
		return nil, err
	}

	img2, err := ic.Images.GetImage(ctx, i.Image2.ImageName)
	if err != nil {
		return nil, err
	}

	multiplied := imaging.Multiply(img1, img2)

	record, err := saveImage(ctx, ic, multiplied, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

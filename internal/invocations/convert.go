package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageConvert re-expresses an image in a different color mode.
type ImageConvert struct {
	Image imgdomain.ImageField `json:"image"`
	Mode  string               `json:"mode"`
}

func init() {
	register("img_conv", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageConvert{Mode: imaging.ModeL}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if !imaging.ValidMode(inv.Mode) {
			return nil, fmt.Errorf("%w: unknown color mode %q", ErrInvalidParams, inv.Mode)
		}
		return inv, nil
	})
}

func (i *ImageConvert) Type() string { return "img_conv" }

func (i *ImageConvert) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	converted, err := imaging.Convert(img, i.Mode)
	if err != nil {
		return nil, err
	}

	record, err := saveImage(ctx, ic, converted, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

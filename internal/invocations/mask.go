package invocations

import (
	"context"
	"encoding/json"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// MaskFromAlpha extracts the alpha channel of an image as a mask.
type MaskFromAlpha struct {
	Image  imgdomain.ImageField `json:"image"`
	Invert bool                 `json:"invert"`
}

func init() {
	register("tomask", func(params json.RawMessage) (Invocation, error) {
		inv := &MaskFromAlpha{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		return inv, nil
	})
}

func (i *MaskFromAlpha) Type() string { return "tomask" }

func (i *MaskFromAlpha) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	mask := imaging.AlphaToMask(img, i.Invert)

	record, err := saveImage(ctx, ic, mask, imgdomain.CategoryMask, nil)
	if err != nil {
		return nil, err
	}

	return maskOutput(record), nil
}

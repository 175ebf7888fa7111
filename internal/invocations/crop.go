package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageCrop crops an image to a specified box. The box can extend
// outside the source; the excess is transparent.
type ImageCrop struct {
	Image  imgdomain.ImageField `json:"image"`
	X      int                  `json:"x"`
	Y      int                  `json:"y"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
}

func init() {
	register("img_crop", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageCrop{Width: 512, Height: 512}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if inv.Width <= 0 || inv.Height <= 0 {
			return nil, fmt.Errorf("%w: crop dimensions must be positive, got %dx%d",
				ErrInvalidParams, inv.Width, inv.Height)
		}
		return inv, nil
	})
}

func (i *ImageCrop) Type() string { return "img_crop" }

func (i *ImageCrop) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	cropped := imaging.CropWithPadding(img, i.X, i.Y, i.Width, i.Height)

	record, err := saveImage(ctx, ic, cropped, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageResize resizes an image to exact dimensions. Target dimensions
// must be at least 64 pixels and a multiple of 8, matching the tile
// geometry downstream diffusion stages expect.
type ImageResize struct {
	Image        imgdomain.ImageField `json:"image"`
	Width        int                  `json:"width"`
	Height       int                  `json:"height"`
	ResampleMode string               `json:"resample_mode"`
}

func init() {
	register("img_resize", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageResize{ResampleMode: imaging.ResampleBicubic}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if err := validateTargetDim("width", inv.Width); err != nil {
			return nil, err
		}
		if err := validateTargetDim("height", inv.Height); err != nil {
			return nil, err
		}
		if !imaging.ValidResampleMode(inv.ResampleMode) {
			return nil, fmt.Errorf("%w: unknown resample mode %q",
				ErrInvalidParams, inv.ResampleMode)
		}
		return inv, nil
	})
}

func validateTargetDim(name string, v int) error {
	if v < 64 {
		return fmt.Errorf("%w: %s must be at least 64, got %d", ErrInvalidParams, name, v)
	}
	if v%8 != 0 {
		return fmt.Errorf("%w: %s must be a multiple of 8, got %d", ErrInvalidParams, name, v)
	}
	return nil
}

func (i *ImageResize) Type() string { return "img_resize" }

func (i *ImageResize) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	resized, err := imaging.Resize(img, i.Width, i.Height, i.ResampleMode)
	if err != nil {
		return nil, err
	}

	record, err := saveImage(ctx, ic, resized, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

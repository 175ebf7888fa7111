package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageLerp remaps every color channel linearly onto [min, max].
type ImageLerp struct {
	Image imgdomain.ImageField `json:"image"`
	Min   int                  `json:"min"`
	Max   int                  `json:"max"`
}

// ImageInverseLerp remaps every color channel from [min, max] back to
// the full [0, 255] range, clamping inputs outside the source range.
type ImageInverseLerp struct {
	Image imgdomain.ImageField `json:"image"`
	Min   int                  `json:"min"`
	Max   int                  `json:"max"`
}

func init() {
	register("img_lerp", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageLerp{Min: 0, Max: 255}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if err := validateLerpBounds(inv.Min, inv.Max); err != nil {
			return nil, err
		}
		return inv, nil
	})

	register("img_ilerp", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageInverseLerp{Min: 0, Max: 255}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if err := validateLerpBounds(inv.Min, inv.Max); err != nil {
			return nil, err
		}
		// A degenerate source range would divide by zero
		if inv.Min == inv.Max {
			return nil, fmt.Errorf("%w: min and max must differ, both are %d",
				ErrInvalidParams, inv.Min)
		}
		return inv, nil
	})
}

func validateLerpBounds(minVal, maxVal int) error {
	if minVal < 0 || minVal > 255 {
		return fmt.Errorf("%w: min must be in [0, 255], got %d", ErrInvalidParams, minVal)
	}
	if maxVal < 0 || maxVal > 255 {
		return fmt.Errorf("%w: max must be in [0, 255], got %d", ErrInvalidParams, maxVal)
	}
	return nil
}

func (i *ImageLerp) Type() string { return "img_lerp" }

func (i *ImageLerp) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	lerped := imaging.Lerp(img, i.Min, i.Max)

	record, err := saveImage(ctx, ic, lerped, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

func (i *ImageInverseLerp) Type() string { return "img_ilerp" }

func (i *ImageInverseLerp) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	ilerped := imaging.InverseLerp(img, i.Min, i.Max)

	record, err := saveImage(ctx, ic, ilerped, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

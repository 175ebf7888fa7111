package invocations

import (
	"context"
	"encoding/json"

	imgdomain "image-pipeline/internal/domain/image"
)

// LoadImage resolves a stored image and passes its reference forward
// without writing anything.
type LoadImage struct {
	Image imgdomain.ImageField `json:"image"`
}

func init() {
	register("load_image", func(params json.RawMessage) (Invocation, error) {
		inv := &LoadImage{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		return inv, nil
	})
}

func (i *LoadImage) Type() string { return "load_image" }

func (i *LoadImage) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	return &ImageOutput{
		Type:   OutputTypeImage,
		Image:  i.Image,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

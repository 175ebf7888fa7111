package invocations

import (
	"context"
	"encoding/json"
	"image"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImagePaste composites an image onto a base image at an offset,
// expanding the canvas to the union of both boxes. The optional mask
// is inverted before use: white mask pixels protect the base, black
// pixels let the pasted image through.
type ImagePaste struct {
	BaseImage imgdomain.ImageField  `json:"base_image"`
	Image     imgdomain.ImageField  `json:"image"`
	Mask      *imgdomain.ImageField `json:"mask,omitempty"`
	X         int                   `json:"x"`
	Y         int                   `json:"y"`
}

func init() {
	register("img_paste", func(params json.RawMessage) (Invocation, error) {
		inv := &ImagePaste{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.BaseImage, "base_image"); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if inv.Mask != nil {
			if err := requireImageRef(*inv.Mask, "mask"); err != nil {
				return nil, err
			}
		}
		return inv, nil
	})
}

func (i *ImagePaste) Type() string { return "img_paste" }

func (i *ImagePaste) Invoke(ctx context.Context, ic *Context) (Output, error) {
	base, err := ic.Images.GetImage(ctx, i.BaseImage.ImageName)
	if err != nil {
		return nil, err
	}

	overlay, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	var mask *image.Gray
	if i.Mask != nil {
		maskImg, err := ic.Images.GetImage(ctx, i.Mask.ImageName)
		if err != nil {
			return nil, err
		}
		mask = imaging.Invert(imaging.ToGray(maskImg))
	}

	pasted := imaging.PasteExpand(base, overlay, i.X, i.Y, mask)

	record, err := saveImage(ctx, ic, pasted, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

package invocations

import (
	"context"
	"encoding/json"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/imaging"
)

// ImageChannel extracts a single channel from an image as grayscale.
type ImageChannel struct {
	Image   imgdomain.ImageField `json:"image"`
	Channel string               `json:"channel"`
}

func init() {
	register("img_chan", func(params json.RawMessage) (Invocation, error) {
		inv := &ImageChannel{Channel: imaging.ChannelAlpha}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		if !imaging.ValidChannel(inv.Channel) {
			return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidParams, inv.Channel)
		}
		return inv, nil
	})
}

func (i *ImageChannel) Type() string { return "img_chan" }

func (i *ImageChannel) Invoke(ctx context.Context, ic *Context) (Output, error) {
	img, err := ic.Images.GetImage(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	extracted, err := imaging.ExtractChannel(img, i.Channel)
	if err != nil {
		return nil, err
	}

	record, err := saveImage(ctx, ic, extracted, imgdomain.CategoryGeneral, nil)
	if err != nil {
		return nil, err
	}

	return imageOutput(record), nil
}

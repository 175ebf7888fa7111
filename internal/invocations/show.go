package invocations

import (
	"context"
	"encoding/json"

	imgdomain "image-pipeline/internal/domain/image"
)

// ShowImage surfaces a stored image as a structured log event and
// passes the reference forward unchanged. In a headless service there
// is no display to pop; the log event is the observable artifact.
type ShowImage struct {
	Image imgdomain.ImageField `json:"image"`
}

func init() {
	register("show_image", func(params json.RawMessage) (Invocation, error) {
		inv := &ShowImage{}
		if err := unmarshalParams(params, inv); err != nil {
			return nil, err
		}
		if err := requireImageRef(inv.Image, "image"); err != nil {
			return nil, err
		}
		return inv, nil
	})
}

func (i *ShowImage) Type() string { return "show_image" }

func (i *ShowImage) Invoke(ctx context.Context, ic *Context) (Output, error) {
	record, err := ic.Images.GetRecord(ctx, i.Image.ImageName)
	if err != nil {
		return nil, err
	}

	ic.Logger.Info(ctx).
		Str("event", "show_image").
		Str("image_name", record.Name).
		Str("storage_path", record.StoragePath).
		Int("width", record.Width).
		Int("height", record.Height).
		Str("session_id", ic.SessionID).
		Str("node_id", ic.NodeID).
		Msg("image displayed")

	return &ImageOutput{
		Type:   OutputTypeImage,
		Image:  i.Image,
		Width:  record.Width,
		Height: record.Height,
	}, nil
}

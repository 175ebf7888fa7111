// Package invocations is the catalog of image pipeline nodes. Every
// invocation follows the same contract: typed parameters validated at
// construction, stored inputs fetched through the image service, one
// transform, one persisted output, and a reference with authoritative
// dimensions returned.
package invocations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/observability"
	"image-pipeline/internal/safety"
	"image-pipeline/internal/watermark"
)

// Output type tags carried in serialized invocation results
const (
	OutputTypeImage = "image_output"
	OutputTypeMask  = "mask_output"
)

var (
	ErrInvalidParams = errors.New("invalid invocation parameters")
	ErrUnknownType   = errors.New("unknown invocation type")
)

// Context carries the collaborators and per-run identity an
// invocation executes against
type Context struct {
	Images imgdomain.Service
	Logger *observability.Logger

	// Safety and Watermark are nil when the corresponding feature is
	// disabled in configuration.
	Safety    *safety.Checker
	Watermark *watermark.Encoder

	// Config-level defaults for invocations that do not set their own
	SafetyEnabled    bool
	WatermarkEnabled bool
	WatermarkText    string

	SessionID      string
	NodeID         string
	IsIntermediate bool
}

// Invocation is one unit of image work
type Invocation interface {
	// Type returns the invocation's type tag
	Type() string

	// Invoke fetches inputs, runs the transform and persists the output
	Invoke(ctx context.Context, ic *Context) (Output, error)
}

// Output is a serializable invocation result
type Output interface {
	Kind() string
}

// ImageOutput references a stored image result
type ImageOutput struct {
	Type   string               `json:"type"`
	Image  imgdomain.ImageField `json:"image"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
}

func (o *ImageOutput) Kind() string { return o.Type }

// MaskOutput references a stored mask result
type MaskOutput struct {
	Type   string               `json:"type"`
	Mask   imgdomain.ImageField `json:"mask"`
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
}

func (o *MaskOutput) Kind() string { return o.Type }

func imageOutput(record *imgdomain.Record) *ImageOutput {
	return &ImageOutput{
		Type:   OutputTypeImage,
		Image:  imgdomain.ImageField{ImageName: record.Name},
		Width:  record.Width,
		Height: record.Height,
	}
}

func maskOutput(record *imgdomain.Record) *MaskOutput {
	return &MaskOutput{
		Type:   OutputTypeMask,
		Mask:   imgdomain.ImageField{ImageName: record.Name},
		Width:  record.Width,
		Height: record.Height,
	}
}

// saveImage performs the single persisting write of an invocation
func saveImage(ctx context.Context, ic *Context, img image.Image, category imgdomain.ImageCategory, metadata json.RawMessage) (*imgdomain.Record, error) {
	return ic.Images.Create(ctx, img, &imgdomain.CreateRequest{
		Origin:         imgdomain.OriginInternal,
		Category:       category,
		NodeID:         ic.NodeID,
		SessionID:      ic.SessionID,
		IsIntermediate: ic.IsIntermediate,
		Metadata:       metadata,
	})
}

// saveImageBytes persists already-encoded PNG bytes, keeping the
// stored object byte-identical to its source
func saveImageBytes(ctx context.Context, ic *Context, data []byte, metadata json.RawMessage) (*imgdomain.Record, error) {
	return ic.Images.CreateFromBytes(ctx, data, &imgdomain.CreateRequest{
		Origin:         imgdomain.OriginInternal,
		Category:       imgdomain.CategoryGeneral,
		NodeID:         ic.NodeID,
		SessionID:      ic.SessionID,
		IsIntermediate: ic.IsIntermediate,
		Metadata:       metadata,
	})
}

// unmarshalParams decodes raw parameters into the invocation struct.
// Defaults are applied by pre-populating the struct before decoding.
func unmarshalParams(params json.RawMessage, into interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// requireImageRef validates a mandatory image reference parameter
func requireImageRef(field imgdomain.ImageField, name string) error {
	if err := imgdomain.ValidateName(field.ImageName); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParams, name, err)
	}
	return nil
}

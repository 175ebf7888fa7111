package image

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// ResourceOrigin describes where a stored image came from.
type ResourceOrigin string

const (
	// OriginInternal marks images produced by pipeline invocations.
	OriginInternal ResourceOrigin = "internal"
	// OriginExternal marks images uploaded or imported from outside the pipeline.
	OriginExternal ResourceOrigin = "external"
)

// ImageCategory classifies the role of a stored image.
type ImageCategory string

const (
	// CategoryGeneral is the default category for pipeline results.
	CategoryGeneral ImageCategory = "general"
	// CategoryMask marks single-channel mask images.
	CategoryMask ImageCategory = "mask"
	// CategoryControl marks conditioning/control images.
	CategoryControl ImageCategory = "control"
)

// ImageField references a stored image by name. It is the only way
// invocations refer to pixel data; resolution is delegated to the
// image service.
type ImageField struct {
	ImageName string `json:"image_name"`
}

// Record is the persisted metadata for one stored image. Width and
// height are authoritative post-storage values read back from the
// decoded object, not caller-supplied.
type Record struct {
	Name           string          `json:"name" db:"name"`
	StoragePath    string          `json:"storage_path" db:"storage_path"`
	Width          int             `json:"width" db:"width"`
	Height         int             `json:"height" db:"height"`
	Origin         ResourceOrigin  `json:"origin" db:"origin"`
	Category       ImageCategory   `json:"category" db:"category"`
	NodeID         string          `json:"node_id" db:"node_id"`
	SessionID      string          `json:"session_id" db:"session_id"`
	IsIntermediate bool            `json:"is_intermediate" db:"is_intermediate"`
	Metadata       json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	FileSize       int64           `json:"file_size" db:"file_size"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// CreateRequest carries everything needed to persist a freshly
// produced image. Exactly one write happens per invocation that
// derives an image; inputs are never mutated in place.
type CreateRequest struct {
	Origin         ResourceOrigin
	Category       ImageCategory
	NodeID         string
	SessionID      string
	IsIntermediate bool
	Metadata       json.RawMessage
}

// Domain errors
var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidName     = errors.New("invalid image name")
	ErrInvalidOrigin   = errors.New("invalid resource origin")
	ErrInvalidCategory = errors.New("invalid image category")
	ErrInvalidMetadata = errors.New("invalid metadata")
	ErrEmptyImage      = errors.New("image has no pixel data")
)

const (
	MaxNameLen     = 255
	MaxMetadataLen = 64 * 1024
)

var validOrigins = map[ResourceOrigin]bool{
	OriginInternal: true,
	OriginExternal: true,
}

var validCategories = map[ImageCategory]bool{
	CategoryGeneral: true,
	CategoryMask:    true,
	CategoryControl: true,
}

// Valid reports whether the origin is a known value.
func (o ResourceOrigin) Valid() bool { return validOrigins[o] }

// Valid reports whether the category is a known value.
func (c ImageCategory) Valid() bool { return validCategories[c] }

// Validate checks the record's invariants.
func (r *Record) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if !r.Origin.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrigin, r.Origin)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, r.Width, r.Height)
	}
	return validateMetadata(r.Metadata)
}

// Validate checks the request before any storage write happens.
func (r *CreateRequest) Validate() error {
	if !r.Origin.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrigin, r.Origin)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, r.Category)
	}
	return validateMetadata(r.Metadata)
}

// ValidateName checks that an image name is usable as a storage key.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidName, MaxNameLen)
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: name contains invalid UTF-8", ErrInvalidName)
	}
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return fmt.Errorf("%w: name contains path separator", ErrInvalidName)
		}
	}
	return nil
}

func validateMetadata(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if len(raw) > MaxMetadataLen {
		return fmt.Errorf("%w: metadata too large (max %d bytes)", ErrInvalidMetadata, MaxMetadataLen)
	}
	var tmp interface{}
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return nil
}

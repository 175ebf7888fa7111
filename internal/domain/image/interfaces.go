package image

import (
	"context"
	"image"
	"io"
)

// Repository defines the interface for image record persistence.
type Repository interface {
	// Create inserts a new image record.
	Create(ctx context.Context, record *Record) error

	// GetByName retrieves a record by its image name.
	GetByName(ctx context.Context, name string) (*Record, error)

	// ListBySession retrieves all records produced within a session.
	ListBySession(ctx context.Context, sessionID string) ([]*Record, error)

	// Delete removes a record.
	Delete(ctx context.Context, name string) error

	// ExistsByName checks whether a record with the given name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ObjectStore defines the interface for pixel data persistence.
type ObjectStore interface {
	// Store saves encoded image bytes and returns the storage path.
	Store(ctx context.Context, name string, contentType string, data io.Reader, size int64) (string, error)

	// Retrieve gets encoded image bytes from storage.
	Retrieve(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes an object from storage.
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists in storage.
	Exists(ctx context.Context, path string) (bool, error)
}

// RecordCache defines the interface for caching image records.
type RecordCache interface {
	// GetRecord retrieves a cached record, or an error on miss.
	GetRecord(ctx context.Context, name string) (*Record, error)

	// SetRecord caches a record.
	SetRecord(ctx context.Context, record *Record) error

	// DeleteRecord removes a record from the cache.
	DeleteRecord(ctx context.Context, name string) error
}

// Service is the storage collaborator every invocation runs against:
// fetch referenced inputs, persist exactly one derived output.
type Service interface {
	// GetImage fetches and decodes a stored image by name.
	GetImage(ctx context.Context, name string) (image.Image, error)

	// GetImageBytes fetches the stored encoded bytes without decoding.
	GetImageBytes(ctx context.Context, name string) ([]byte, error)

	// GetRecord fetches the metadata record for a stored image.
	GetRecord(ctx context.Context, name string) (*Record, error)

	// Create persists a decoded image as a new stored image and
	// returns the record with authoritative dimensions.
	Create(ctx context.Context, img image.Image, req *CreateRequest) (*Record, error)

	// CreateFromBytes persists already-encoded PNG bytes unchanged,
	// preserving byte-identity for pass-through invocations.
	CreateFromBytes(ctx context.Context, data []byte, req *CreateRequest) (*Record, error)

	// Delete removes a stored image: record, object and cache entry.
	Delete(ctx context.Context, name string) error
}

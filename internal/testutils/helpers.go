package testutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/observability"
)

// QuietLogger returns a logger that only emits fatal events, keeping
// test output clean.
func QuietLogger() *observability.Logger {
	return observability.NewLogger(observability.Config{
		ServiceName: "image-pipeline-test",
		LogLevel:    "fatal",
	})
}

// SolidImage returns a w by h NRGBA image filled with a single color.
func SolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// GradientImage returns a w by h NRGBA image with a horizontal
// luminance ramp and full alpha. Useful for transforms whose output
// depends on pixel variation.
func GradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// AlphaGradientImage returns a w by h NRGBA image whose alpha ramps
// vertically from transparent to opaque.
func AlphaGradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		a := uint8(y * 255 / max(h-1, 1))
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: a})
		}
	}
	return img
}

// EncodePNG encodes an image to PNG bytes, failing the test on error.
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FakeImageService is an in-memory image service for invocation tests.
// Stored bytes are kept verbatim so byte-identity assertions hold.
type FakeImageService struct {
	mu      sync.Mutex
	records map[string]*imgdomain.Record
	blobs   map[string][]byte
	seq     int

	// CreateErr, when set, is returned from both create paths.
	CreateErr error
}

// NewFakeImageService returns an empty in-memory image service.
func NewFakeImageService() *FakeImageService {
	return &FakeImageService{
		records: make(map[string]*imgdomain.Record),
		blobs:   make(map[string][]byte),
	}
}

// Seed stores a decoded image under the given name and returns its
// record, bypassing request validation.
func (f *FakeImageService) Seed(t *testing.T, name string, img image.Image) *imgdomain.Record {
	t.Helper()
	data := EncodePNG(t, img)
	return f.SeedBytes(t, name, data)
}

// SeedBytes stores already-encoded PNG bytes under the given name.
func (f *FakeImageService) SeedBytes(t *testing.T, name string, data []byte) *imgdomain.Record {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	record := &imgdomain.Record{
		Name:        name,
		StoragePath: "test/" + name,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Origin:      imgdomain.OriginExternal,
		Category:    imgdomain.CategoryGeneral,
		FileSize:    int64(len(data)),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[name] = record
	f.blobs[name] = data
	return record
}

// GetImage fetches and decodes a stored image by name.
func (f *FakeImageService) GetImage(_ context.Context, name string) (image.Image, error) {
	data, err := f.GetImageBytes(context.Background(), name)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %q: %w", name, err)
	}
	return img, nil
}

// GetImageBytes fetches the stored encoded bytes without decoding.
func (f *FakeImageService) GetImageBytes(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", imgdomain.ErrImageNotFound, name)
	}
	return data, nil
}

// GetRecord fetches the metadata record for a stored image.
func (f *FakeImageService) GetRecord(_ context.Context, name string) (*imgdomain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", imgdomain.ErrImageNotFound, name)
	}
	return record, nil
}

// Create persists a decoded image under a generated name.
func (f *FakeImageService) Create(_ context.Context, img image.Image, req *imgdomain.CreateRequest) (*imgdomain.Record, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return f.store(buf.Bytes(), img.Bounds().Dx(), img.Bounds().Dy(), req), nil
}

// CreateFromBytes persists already-encoded PNG bytes unchanged.
func (f *FakeImageService) CreateFromBytes(_ context.Context, data []byte, req *imgdomain.CreateRequest) (*imgdomain.Record, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image config: %w", err)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	return f.store(stored, cfg.Width, cfg.Height, req), nil
}

func (f *FakeImageService) store(data []byte, width, height int, req *imgdomain.CreateRequest) *imgdomain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	name := fmt.Sprintf("generated-%03d.png", f.seq)

	record := &imgdomain.Record{
		Name:           name,
		StoragePath:    "test/" + name,
		Width:          width,
		Height:         height,
		Origin:         req.Origin,
		Category:       req.Category,
		NodeID:         req.NodeID,
		SessionID:      req.SessionID,
		IsIntermediate: req.IsIntermediate,
		Metadata:       req.Metadata,
		FileSize:       int64(len(data)),
	}
	f.records[name] = record
	f.blobs[name] = data
	return record
}

// Delete removes a stored image and its record.
func (f *FakeImageService) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[name]; !ok {
		return fmt.Errorf("%w: %s", imgdomain.ErrImageNotFound, name)
	}
	delete(f.records, name)
	delete(f.blobs, name)
	return nil
}

// CreatedCount returns how many images the service has persisted via
// the create paths.
func (f *FakeImageService) CreatedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

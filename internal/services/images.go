package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for externally uploaded images
	"image/png"
	"io"
	"strconv"
	"time"

	"image-pipeline/internal/observability"

	imgdomain "image-pipeline/internal/domain/image"
)

// imageService implements the domain image Service: it decodes stored
// objects on read and performs the single record+object write every
// invocation output goes through.
type imageService struct {
	repo   imgdomain.Repository
	store  imgdomain.ObjectStore
	cache  imgdomain.RecordCache // can be nil
	logger *observability.Logger
}

// NewImageService creates a new image service
func NewImageService(
	repo imgdomain.Repository,
	store imgdomain.ObjectStore,
	cache imgdomain.RecordCache,
	logger *observability.Logger,
) imgdomain.Service {
	return &imageService{
		repo:   repo,
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// GetImage fetches and decodes a stored image by name
func (s *imageService) GetImage(ctx context.Context, name string) (image.Image, error) {
	data, err := s.GetImageBytes(ctx, name)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	return img, nil
}

// GetImageBytes fetches the stored encoded bytes without decoding
func (s *imageService) GetImageBytes(ctx context.Context, name string) ([]byte, error) {
	record, err := s.GetRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Retrieve(ctx, record.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve image %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", name, err)
	}

	return data, nil
}

// GetRecord fetches the metadata record for a stored image,
// cache first when a cache is wired
func (s *imageService) GetRecord(ctx context.Context, name string) (*imgdomain.Record, error) {
	if err := imgdomain.ValidateName(name); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if record, err := s.cache.GetRecord(ctx, name); err == nil {
			return record, nil
		}
	}

	record, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetRecord(ctx, record); cacheErr != nil {
			s.logger.Warn(ctx).Err(cacheErr).Str("image_name", name).
				Msg("failed to cache image record")
		}
	}

	return record, nil
}

// Create encodes the image as PNG and persists it as a new stored image
func (s *imageService) Create(ctx context.Context, img image.Image, req *imgdomain.CreateRequest) (*imgdomain.Record, error) {
	if img == nil {
		return nil, imgdomain.ErrEmptyImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return s.createEncoded(ctx, buf.Bytes(), img.Bounds().Dx(), img.Bounds().Dy(), req)
}

// CreateFromBytes persists already-encoded PNG bytes unchanged. The
// stored object is byte-identical to the input; dimensions are read
// from the PNG header.
func (s *imageService) CreateFromBytes(ctx context.Context, data []byte, req *imgdomain.CreateRequest) (*imgdomain.Record, error) {
	if len(data) == 0 {
		return nil, imgdomain.ErrEmptyImage
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read PNG header: %w", err)
	}

	return s.createEncoded(ctx, data, cfg.Width, cfg.Height, req)
}

func (s *imageService) createEncoded(ctx context.Context, data []byte, width, height int, req *imgdomain.CreateRequest) (*imgdomain.Record, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := generateImageName(req.SessionID, req.NodeID)

	storagePath, err := s.store.Store(ctx, name, "image/png",
		bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	record := &imgdomain.Record{
		Name:           name,
		StoragePath:    storagePath,
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

	if err := s.repo.Create(ctx, record); err != nil {
		// Roll back the object write so storage and records stay in sync
		if deleteErr := s.store.Delete(ctx, storagePath); deleteErr != nil {
			s.logger.Warn(ctx).Err(deleteErr).Str("storage_path", storagePath).
				Msg("failed to clean up orphaned object")
		}
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetRecord(ctx, record); cacheErr != nil {
			s.logger.Warn(ctx).Err(cacheErr).Str("image_name", name).
				Msg("failed to cache image record")
		}
	}

	s.logger.Debug(ctx).
		Str("image_name", name).
		Int("width", width).
		Int("height", height).
		Int64("file_size", record.FileSize).
		Msg("stored image")

	return record, nil
}

// Delete removes the record first so readers stop resolving the name,
// then the object, then the cache entry
func (s *imageService) Delete(ctx context.Context, name string) error {
	record, err := s.GetRecord(ctx, name)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	if err := s.store.Delete(ctx, record.StoragePath); err != nil {
		s.logger.Warn(ctx).Err(err).Str("storage_path", record.StoragePath).
			Msg("failed to delete stored object")
	}

	if s.cache != nil {
		if err := s.cache.DeleteRecord(ctx, name); err != nil {
			s.logger.Warn(ctx).Err(err).Str("image_name", name).
				Msg("failed to evict cached record")
		}
	}

	return nil
}

// generateImageName builds a unique PNG name from the session, node
// and a short hash of the creation instant
func generateImageName(sessionID, nodeID string) string {
	hasher := sha256.New()
	hasher.Write([]byte(sessionID + "/" + nodeID + "/" + strconv.FormatInt(time.Now().UnixNano(), 10)))
	hash := hex.EncodeToString(hasher.Sum(nil))[:16]

	return hash + ".png"
}

// Package handlers exposes the invocation catalog and the image store
// over HTTP.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"image-pipeline/internal/config"
	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/invocations"
	"image-pipeline/internal/observability"
	"image-pipeline/internal/platform/cache"
	"image-pipeline/internal/platform/storage"
	"image-pipeline/internal/safety"
	"image-pipeline/internal/services"
	"image-pipeline/internal/watermark"
)

type Handler struct {
	images imgdomain.Service
	repo   imgdomain.Repository
	config *config.Config
	logger *observability.Logger

	safetyChecker    *safety.Checker
	watermarkEncoder *watermark.Encoder

	// Probed by readiness checks; any of these may be nil.
	db             *sql.DB
	cacheClient    *cache.RedisClient
	storageService *storage.Service
}

// NewWithContainer builds a handler from the dependency container.
func NewWithContainer(c *services.Container) *Handler {
	return &Handler{
		images:           c.ImageService(),
		repo:             c.ImageRepository(),
		config:           c.Config(),
		logger:           c.Logger(),
		safetyChecker:    c.SafetyChecker(),
		watermarkEncoder: c.WatermarkEncoder(),
		db:               c.DB(),
		cacheClient:      c.CacheClient(),
		storageService:   c.StorageService(),
	}
}

// New builds a handler from its core collaborators. Readiness probes
// report only on what is wired.
func New(images imgdomain.Service, repo imgdomain.Repository, cfg *config.Config, logger *observability.Logger) *Handler {
	return &Handler{
		images: images,
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(observability.TracingMiddleware(observability.GetTracer()))

	r.Get("/healthz", h.healthzHandler)
	r.Get("/readyz", h.readyzHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/invocations", func(r chi.Router) {
			r.Get("/", h.listInvocationTypesHandler)
			r.Post("/", h.invokeHandler)
		})
		r.Route("/images", func(r chi.Router) {
			r.Post("/", h.uploadImageHandler)
			r.Get("/{name}", h.getImageRecordHandler)
			r.Get("/{name}/data", h.getImageDataHandler)
			r.Delete("/{name}", h.deleteImageHandler)
		})
		r.Get("/sessions/{sessionID}/images", h.listSessionImagesHandler)
	})

	return r
}

// invocationContext builds the execution context for one invocation run
func (h *Handler) invocationContext(sessionID, nodeID string, isIntermediate bool) *invocations.Context {
	return &invocations.Context{
		Images:           h.images,
		Logger:           h.logger,
		Safety:           h.safetyChecker,
		Watermark:        h.watermarkEncoder,
		SafetyEnabled:    h.config.Safety.Enabled,
		WatermarkEnabled: h.config.Watermark.Enabled,
		WatermarkText:    h.config.Watermark.DefaultText,
		SessionID:        sessionID,
		NodeID:           nodeID,
		IsIntermediate:   isIntermediate,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload) //nolint:errcheck // Best effort response
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps domain errors onto HTTP status codes
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, imgdomain.ErrImageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, imgdomain.ErrInvalidName),
		errors.Is(err, imgdomain.ErrInvalidMetadata),
		errors.Is(err, imgdomain.ErrEmptyImage):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

package handlers

import (
	"bytes"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	imgdomain "image-pipeline/internal/domain/image"
)

const maxUploadSize = 32 << 20

// uploadImageHandler accepts a multipart image upload and stores it as
// an external image. PNG payloads are stored byte-identical; other
// formats are re-encoded to PNG.
func (h *Handler) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	req := &imgdomain.CreateRequest{
		Origin:    imgdomain.OriginExternal,
		Category:  imgdomain.CategoryGeneral,
		SessionID: r.FormValue("session_id"),
		NodeID:    r.FormValue("node_id"),
	}

	var record *imgdomain.Record
	if header.Header.Get("Content-Type") == "image/png" {
		record, err = h.images.CreateFromBytes(r.Context(), data, req)
	} else {
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			writeError(w, http.StatusBadRequest, "unsupported image format: "+err.Error())
			return
		}
		record, err = h.images.Create(r.Context(), img, req)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.logger.Info(r.Context()).
		Str("image_name", record.Name).
		Str("filename", header.Filename).
		Int64("file_size", record.FileSize).
		Msg("image uploaded")

	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) getImageRecordHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	record, err := h.images.GetRecord(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) getImageDataHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := h.images.GetImageBytes(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data) //nolint:errcheck // Best effort response
}

func (h *Handler) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.images.Delete(r.Context(), name); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSessionImagesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	records, err := h.repo.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if records == nil {
		records = []*imgdomain.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"images":     records,
		"count":      len(records),
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	imgdomain "image-pipeline/internal/domain/image"
	"image-pipeline/internal/invocations"
)

// invocationEnvelope is the wire form of one invocation request. The
// params payload is decoded by the invocation's own factory.
type invocationEnvelope struct {
	Type           string          `json:"type"`
	SessionID      string          `json:"session_id"`
	NodeID         string          `json:"node_id"`
	IsIntermediate bool            `json:"is_intermediate"`
	Params         json.RawMessage `json:"params"`
}

const maxInvocationBodySize = 1 << 20 // params are references, not pixels

func (h *Handler) invokeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInvocationBodySize)

	var envelope invocationEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if envelope.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	if envelope.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	inv, err := invocations.New(envelope.Type, envelope.Params)
	if err != nil {
		switch {
		case errors.Is(err, invocations.ErrUnknownType):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	ic := h.invocationContext(envelope.SessionID, envelope.NodeID, envelope.IsIntermediate)

	output, err := inv.Invoke(r.Context(), ic)
	if err != nil {
		h.logger.Error(r.Context()).Err(err).
			Str("invocation_type", envelope.Type).
			Str("session_id", envelope.SessionID).
			Str("node_id", envelope.NodeID).
			Msg("invocation failed")

		if errors.Is(err, imgdomain.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) listInvocationTypesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"types": invocations.Types()})
}

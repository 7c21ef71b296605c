package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modelkeep/modelkeep/internal/auth"
	"github.com/modelkeep/modelkeep/internal/handler/dto"
	"github.com/modelkeep/modelkeep/internal/service"
)

// MetadataHandler handles owner-scoped metadata requests.
// All routes sit behind the auth middleware, so the requester identity is
// always present in the context.
type MetadataHandler struct {
	svc    *service.MetadataService
	logger *slog.Logger
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(svc *service.MetadataService, logger *slog.Logger) *MetadataHandler {
	return &MetadataHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/metadata.
func (h *MetadataHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustUserIDFromContext(r.Context())

	records, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Create handles POST /api/metadata.
func (h *MetadataHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustUserIDFromContext(r.Context())

	var req dto.UploadMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "file_name and metadata are required")
		return
	}

	record, err := h.svc.Upload(r.Context(), ownerID, req.FileName, req.Metadata)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "file_name and metadata are required")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	h.logger.Info("metadata_uploaded",
		"record_id", record.ID,
		"owner_id", ownerID,
		"file_name", record.FileName,
	)

	writeMessage(w, http.StatusCreated, "Metadata uploaded successfully")
}

// Delete handles DELETE /api/metadata/{id}.
func (h *MetadataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.MustUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, service.ErrMetadataNotFound) {
			// Unknown ids and other users' records answer identically.
			writeError(w, http.StatusNotFound, "Metadata not found")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	h.logger.Info("metadata_deleted",
		"record_id", id,
		"owner_id", ownerID,
	)

	writeMessage(w, http.StatusOK, "Metadata deleted successfully")
}

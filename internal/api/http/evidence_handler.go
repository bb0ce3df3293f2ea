package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"rentloop-backend/internal/apperr"
	"rentloop-backend/internal/storage"
)

// maxEvidenceBytes caps a single damage photo upload.
const maxEvidenceBytes = 10 << 20

// EvidenceHandler stores and serves damage-report photos. Clients upload
// first, then reference the returned URLs when filing the report.
type EvidenceHandler struct {
	store storage.Storage
}

func NewEvidenceHandler(store storage.Storage) *EvidenceHandler {
	return &EvidenceHandler{store: store}
}

func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxEvidenceBytes); err != nil {
		writeError(w, apperr.Validation("invalid multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.Validation("missing file field"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		writeError(w, apperr.Validation("unsupported image type"))
		return
	}

	key := uuid.NewString() + ext
	if err := h.store.SaveFile(key, io.LimitReader(file, maxEvidenceBytes)); err != nil {
		writeError(w, apperr.Internal(err, "failed to store evidence"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": h.store.PublicURL(key),
	})
}

func (h *EvidenceHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, err := h.store.ReadFile(key)
	if err != nil {
		writeError(w, apperr.NotFound("evidence not found"))
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}

package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/config"
	"github.com/folioforge/folioforge/internal/core"
)

type UploadHandler struct {
	objectclient core.ObjectClient
	extractor    core.TextExtractor
	cfg          *config.Config
	log          *zap.Logger
}

func NewUploadHandler(obj core.ObjectClient, ext core.TextExtractor, cfg *config.Config, log *zap.Logger) *UploadHandler {
	return &UploadHandler{objectclient: obj, extractor: ext, cfg: cfg, log: log}
}

// UploadResume accepts a résumé file, archives it in object storage and
// returns the extracted plain text ready to submit as a resume source.
func (h *UploadHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	maxResumeBytes := int64(h.cfg.MaxUploadMB) << 20

	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > maxResumeBytes {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Sanitize the filename to strip any path components.
	cleanFilename := filepath.Base(header.Filename)
	key := fmt.Sprintf("%s/%s/%s", userID, uuid.NewString(), cleanFilename)

	uploadCtx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	url, err := h.objectclient.UploadFile(uploadCtx, h.cfg.BucketName, key, data, contentType)
	if err != nil {
		h.log.Error("resume upload failed", zap.String("key", key), zap.Error(err))
		http.Error(w, "upload failed", http.StatusBadGateway)
		return
	}

	text, err := h.extractor.ExtractText(r.Context(), data, contentType)
	if err != nil {
		// The file is stored; extraction can be retried client-side with a
		// plain-text paste.
		h.log.Warn("resume text extraction failed", zap.String("key", key), zap.Error(err))
		http.Error(w, "could not extract text from file", http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"file_name":   cleanFilename,
		"storage_url": url,
		"text":        text,
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"beefarena/internal/storage"
)

// Uploader stores an object in the public bucket.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// UploadSelfie handles POST /api/selfies. It accepts a multipart "selfie"
// image, stores it in the public bucket and returns its URL for use as
// selfieUrl.
func (a *Arena) UploadSelfie(w http.ResponseWriter, r *http.Request) {
	if a.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+1024)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
			return
		}
		writeError(w, http.StatusBadRequest, "Expected a multipart form upload.")
		return
	}

	file, header, err := r.FormFile("selfie")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No selfie provided.", Field: "selfie"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("File type %q is not allowed.", contentType),
			Field: "selfie",
		})
		return
	}

	key := storage.ObjectKey("selfies", "", ext, time.Now())
	if err := a.uploader.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("selfie upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "Failed to upload file.")
		return
	}

	slog.Info("selfie uploaded", "key", key, "size", len(data), "type", contentType)
	writeJSON(w, http.StatusCreated, map[string]string{"url": a.uploader.FileURL(key)})
}

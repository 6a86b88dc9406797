// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the arena JSON API and
// the server-rendered page.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"beefarena/internal/arena"
	"beefarena/internal/catalog"
	"beefarena/internal/models"
)

const (
	// maxGenerateBody caps the JSON body of POST /api/generate.
	maxGenerateBody = 1 << 20

	defaultRecentLimit = 12
	maxRecentLimit     = 50
)

// Generator runs the poster pipeline.
type Generator interface {
	Generate(ctx context.Context, req arena.Request) (*arena.Result, error)
}

// GenerationReader reads stored generations.
type GenerationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Generation, error)
	Recent(ctx context.Context, limit int) ([]models.Generation, error)
}

// GenerationCache is a read-through cache in front of GenerationReader.
type GenerationCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Generation, bool)
	Set(ctx context.Context, g *models.Generation)
}

// Arena groups the JSON API handlers.
type Arena struct {
	generator Generator
	store     GenerationReader
	cache     GenerationCache // may be nil
	uploader  Uploader        // nil when object storage is not configured
}

// NewArena creates the API handler group. cache and uploader may be nil.
func NewArena(generator Generator, store GenerationReader, cache GenerationCache, uploader Uploader) *Arena {
	return &Arena{
		generator: generator,
		store:     store,
		cache:     cache,
		uploader:  uploader,
	}
}

// Generate handles POST /api/generate.
func (a *Arena) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBody)

	var req arena.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("generate: decode body failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	result, err := a.generator.Generate(r.Context(), req)
	if err != nil {
		var reqErr *arena.RequestError
		if errors.As(err, &reqErr) {
			writeJSON(w, reqErr.Status, errorResponse{Error: reqErr.Message, Field: reqErr.Field})
			return
		}
		slog.Error("generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Fighters handles GET /api/fighters.
func (a *Arena) Fighters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Fighters())
}

// Styles handles GET /api/styles.
func (a *Arena) Styles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Styles())
}

// Generation handles GET /api/generations/{id}. Hits are served from the
// cache; misses read PostgreSQL and fill the cache. Selfie URLs are never
// returned.
func (a *Arena) Generation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid generation id")
		return
	}

	ctx := r.Context()
	if a.cache != nil {
		if g, ok := a.cache.Get(ctx, id); ok {
			writeJSON(w, http.StatusOK, g.Public())
			return
		}
	}

	g, err := a.store.FindByID(ctx, id)
	if err != nil {
		slog.Error("generation lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "Generation not found")
		return
	}

	if a.cache != nil {
		a.cache.Set(ctx, g)
	}
	writeJSON(w, http.StatusOK, g.Public())
}

// Recent handles GET /api/generations?limit=n.
func (a *Arena) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRecentLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxRecentLimit))
			return
		}
		limit = n
	}

	items, err := a.store.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("recent generations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}
	public := make([]models.Generation, 0, len(items))
	for _, g := range items {
		public = append(public, g.Public())
	}

	writeJSON(w, http.StatusOK, map[string]any{"generations": public})
}

// errorResponse is the JSON error body. Field is set for input errors.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

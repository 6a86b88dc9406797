// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the fakes shared by the handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"beefarena/internal/arena"
	"beefarena/internal/models"
)

type fakeGenerator struct {
	result *arena.Result
	err    error
	calls  int
	last   arena.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req arena.Request) (*arena.Result, error) {
	f.calls++
	f.last = req
	return f.result, f.err
}

type fakeReader struct {
	rows      map[uuid.UUID]*models.Generation
	recent    []models.Generation
	err       error
	finds     int
	lastLimit int
}

func (f *fakeReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Generation, error) {
	f.finds++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[id], nil
}

func (f *fakeReader) Recent(ctx context.Context, limit int) ([]models.Generation, error) {
	f.lastLimit = limit
	return f.recent, f.err
}

type fakeCache struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Generation
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{rows: make(map[uuid.UUID]*models.Generation)}
}

func (f *fakeCache) Get(ctx context.Context, id uuid.UUID) (*models.Generation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.rows[id]
	return g, ok
}

func (f *fakeCache) Set(ctx context.Context, g *models.Generation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.rows[g.ID] = g
}

type fakeUploader struct {
	err         error
	key         string
	contentType string
	size        int64
	body        []byte
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if f.err != nil {
		return f.err
	}
	f.key = key
	f.contentType = contentType
	f.size = size
	f.body, _ = io.ReadAll(body)
	return nil
}

func (f *fakeUploader) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

// decodeBody decodes a JSON recorder body into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"beefarena/internal/arena"
	"beefarena/internal/models"
)

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{result: &arena.Result{
		Success:   true,
		ResultURL: "https://replicate.delivery/p.png",
		Captions:  []string{"a", "b", "c", "d"},
		Fighter1:  "Elon Musk",
		Fighter2:  "Taylor Swift",
		Style:     "Staredown",
	}}
	h := NewArena(gen, &fakeReader{}, nil, nil)

	body := `{"fighter1Slug":"elon-musk","fighter2Slug":"taylor-swift","styleSlug":"staredown","watermarkEnabled":true}`
	rr := httptest.NewRecorder()
	h.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	want := arena.Request{Fighter1Slug: "elon-musk", Fighter2Slug: "taylor-swift", StyleSlug: "staredown", WatermarkEnabled: true}
	if diff := cmp.Diff(want, gen.last); diff != "" {
		t.Errorf("decoded request mismatch (-want +got):\n%s", diff)
	}

	got := decodeBody(t, rr)
	if got["success"] != true || got["resultUrl"] != "https://replicate.delivery/p.png" {
		t.Errorf("body: got %v", got)
	}
	if got["fighter1"] != "Elon Musk" || got["fighter2"] != "Taylor Swift" || got["style"] != "Staredown" {
		t.Errorf("names: got %v", got)
	}
	if _, ok := got["opponent"]; ok {
		t.Error("duel response should not carry opponent")
	}
	if caps, _ := got["captions"].([]any); len(caps) != 4 {
		t.Errorf("captions: got %v", got["captions"])
	}
}

func TestGenerate_RequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing fields", &arena.RequestError{Status: http.StatusBadRequest, Field: "styleSlug", Message: "Missing required fields: styleSlug"}, http.StatusBadRequest},
		{"unknown slug", &arena.RequestError{Status: http.StatusNotFound, Field: "opponentSlug", Message: "Opponent not found"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewArena(&fakeGenerator{err: tt.err}, &fakeReader{}, nil, nil)

			rr := httptest.NewRecorder()
			h.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{}`)))

			if rr.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.status)
			}
			var reqErr *arena.RequestError
			errors.As(tt.err, &reqErr)
			body := decodeBody(t, rr)
			if body["error"] != reqErr.Message || body["field"] != reqErr.Field {
				t.Errorf("body: got %v", body)
			}
		})
	}
}

func TestGenerate_UnexpectedError(t *testing.T) {
	h := NewArena(&fakeGenerator{err: errors.New("boom")}, &fakeReader{}, nil, nil)

	rr := httptest.NewRecorder()
	h.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{}`)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if body := decodeBody(t, rr); body["error"] != "Internal server error: boom" {
		t.Errorf("error: got %v", body["error"])
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewArena(gen, &fakeReader{}, nil, nil)

	rr := httptest.NewRecorder()
	h.Generate(rr, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"fighter1Slug":`)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	body := decodeBody(t, rr)
	if msg, _ := body["error"].(string); !strings.HasPrefix(msg, "Internal server error: ") {
		t.Errorf("error: got %q", msg)
	}
	if gen.calls != 0 {
		t.Error("generator should not run on a malformed body")
	}
}

func TestFightersAndStyles(t *testing.T) {
	h := NewArena(&fakeGenerator{}, &fakeReader{}, nil, nil)

	rr := httptest.NewRecorder()
	h.Fighters(rr, httptest.NewRequest(http.MethodGet, "/api/fighters", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"slug":"jeff-bezos"`) {
		t.Errorf("fighters: got %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Styles(rr, httptest.NewRequest(http.MethodGet, "/api/styles", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"slug":"press"`) {
		t.Errorf("styles: got %d %s", rr.Code, rr.Body.String())
	}
}

func storedGeneration() *models.Generation {
	f1, f2, url := "drake", "mrbeast", "https://cdn.example.com/p.png"
	return &models.Generation{
		ID:           uuid.New(),
		Mode:         models.ModeDuel,
		Fighter1Slug: &f1,
		Fighter2Slug: &f2,
		Style:        "street",
		ResultURL:    &url,
		Captions:     []string{"a", "b", "c", "d"},
		Status:       models.StatusCompleted,
		CreatedAt:    time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGeneration_CacheFill(t *testing.T) {
	g := storedGeneration()
	reader := &fakeReader{rows: map[uuid.UUID]*models.Generation{g.ID: g}}
	cache := newFakeCache()
	h := NewArena(&fakeGenerator{}, reader, cache, nil)

	for i := 0; i < 2; i++ {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/generations/"+g.ID.String(), nil), "id", g.ID.String())
		rr := httptest.NewRecorder()
		h.Generation(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rr.Code)
		}
		if body := decodeBody(t, rr); body["id"] != g.ID.String() || body["style"] != "street" {
			t.Errorf("request %d: body %v", i+1, body)
		}
	}

	if reader.finds != 1 {
		t.Errorf("store lookups: got %d, want 1 (second served from cache)", reader.finds)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets: got %d, want 1", cache.sets)
	}
}

func TestGeneration_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		reader *fakeReader
		status int
	}{
		{"invalid id", "not-a-uuid", &fakeReader{}, http.StatusBadRequest},
		{"not found", uuid.NewString(), &fakeReader{}, http.StatusNotFound},
		{"store error", uuid.NewString(), &fakeReader{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewArena(&fakeGenerator{}, tt.reader, nil, nil)

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/generations/"+tt.id, nil), "id", tt.id)
			rr := httptest.NewRecorder()
			h.Generation(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestRecent(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		status    int
		wantLimit int
	}{
		{"default", "", http.StatusOK, 12},
		{"explicit", "?limit=3", http.StatusOK, 3},
		{"max", "?limit=50", http.StatusOK, 50},
		{"too large", "?limit=51", http.StatusBadRequest, 0},
		{"zero", "?limit=0", http.StatusBadRequest, 0},
		{"garbage", "?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeReader{recent: []models.Generation{*storedGeneration()}}
			h := NewArena(&fakeGenerator{}, reader, nil, nil)

			rr := httptest.NewRecorder()
			h.Recent(rr, httptest.NewRequest(http.MethodGet, "/api/generations"+tt.query, nil))

			if rr.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			if reader.lastLimit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", reader.lastLimit, tt.wantLimit)
			}
			body := decodeBody(t, rr)
			if items, _ := body["generations"].([]any); len(items) != 1 {
				t.Errorf("generations: got %v", body["generations"])
			}
		})
	}
}

func TestRecent_EmptyIsArray(t *testing.T) {
	h := NewArena(&fakeGenerator{}, &fakeReader{}, nil, nil)

	rr := httptest.NewRecorder()
	h.Recent(rr, httptest.NewRequest(http.MethodGet, "/api/generations", nil))

	if !strings.Contains(rr.Body.String(), `"generations":[]`) {
		t.Errorf("body: got %s", rr.Body.String())
	}
}

func challengeGeneration() *models.Generation {
	selfie, opponent, url := "https://cdn.example.com/selfies/me.png", "drake", "https://cdn.example.com/p.png"
	return &models.Generation{
		ID:           uuid.New(),
		Mode:         models.ModeChallenge,
		SelfieURL:    &selfie,
		OpponentSlug: &opponent,
		Style:        "anime",
		ResultURL:    &url,
		Captions:     []string{"a"},
		Status:       models.StatusCompleted,
	}
}

func TestGenerationReads_OmitSelfieURL(t *testing.T) {
	g := challengeGeneration()
	reader := &fakeReader{
		rows:   map[uuid.UUID]*models.Generation{g.ID: g},
		recent: []models.Generation{*g},
	}
	cache := newFakeCache()
	h := NewArena(&fakeGenerator{}, reader, cache, nil)

	// First lookup reads the store, second is a cache hit.
	for i := 0; i < 2; i++ {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/generations/"+g.ID.String(), nil), "id", g.ID.String())
		rr := httptest.NewRecorder()
		h.Generation(rr, req)
		if strings.Contains(rr.Body.String(), "selfie") {
			t.Errorf("lookup %d leaked the selfie url: %s", i+1, rr.Body.String())
		}
	}

	rr := httptest.NewRecorder()
	h.Recent(rr, httptest.NewRequest(http.MethodGet, "/api/generations", nil))
	if strings.Contains(rr.Body.String(), "selfie") {
		t.Errorf("recent leaked the selfie url: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"opponent_slug":"drake"`) {
		t.Errorf("recent should keep the opponent: %s", rr.Body.String())
	}

	if g.SelfieURL == nil {
		t.Error("stored row should keep its selfie url")
	}
}

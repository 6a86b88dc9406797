// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"beefarena/internal/models"
)

// GenerationStore persists fight poster generations. The arena pipeline only
// inserts; the gallery endpoints read rows back.
type GenerationStore struct {
	db *sql.DB
}

// NewGenerationStore creates a new GenerationStore.
func NewGenerationStore(db *sql.DB) *GenerationStore {
	return &GenerationStore{db: db}
}

// generationColumns lists the columns selected in generation queries.
const generationColumns = `id, mode, selfie_url, opponent_slug, fighter1_slug, fighter2_slug,
	style, result_url, captions, status, safety_flags, watermark, created_at`

// scanGeneration scans a generation row, decoding the JSONB columns.
func scanGeneration(scanner interface{ Scan(...any) error }) (*models.Generation, error) {
	var (
		g        models.Generation
		captions []byte
		flags    []byte
	)
	err := scanner.Scan(
		&g.ID, &g.Mode, &g.SelfieURL, &g.OpponentSlug, &g.Fighter1Slug, &g.Fighter2Slug,
		&g.Style, &g.ResultURL, &captions, &g.Status, &flags, &g.Watermark, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(captions, &g.Captions); err != nil {
		return nil, fmt.Errorf("decode captions: %w", err)
	}
	if len(flags) > 0 {
		g.SafetyFlags = &models.SafetyFlags{}
		if err := json.Unmarshal(flags, g.SafetyFlags); err != nil {
			return nil, fmt.Errorf("decode safety flags: %w", err)
		}
	}
	return &g, nil
}

// Create inserts a generation and returns it with the database-assigned ID
// and timestamp. A zero Status is stored as completed.
func (s *GenerationStore) Create(ctx context.Context, g *models.Generation) (*models.Generation, error) {
	if g.Status == "" {
		g.Status = models.StatusCompleted
	}
	if !g.Status.Valid() {
		return nil, fmt.Errorf("create generation: invalid status %q", g.Status)
	}

	captions := g.Captions
	if captions == nil {
		captions = []string{}
	}
	captionsJSON, err := json.Marshal(captions)
	if err != nil {
		return nil, fmt.Errorf("encode captions: %w", err)
	}

	var flagsJSON *string
	if g.SafetyFlags != nil {
		b, err := json.Marshal(g.SafetyFlags)
		if err != nil {
			return nil, fmt.Errorf("encode safety flags: %w", err)
		}
		raw := string(b)
		flagsJSON = &raw
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO generations (mode, selfie_url, opponent_slug, fighter1_slug, fighter2_slug,
			style, result_url, captions, status, safety_flags, watermark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+generationColumns,
		g.Mode, g.SelfieURL, g.OpponentSlug, g.Fighter1Slug, g.Fighter2Slug,
		g.Style, g.ResultURL, string(captionsJSON), g.Status, flagsJSON, g.Watermark,
	)

	created, err := scanGeneration(row)
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}
	return created, nil
}

// FindByID retrieves a generation by its UUID. Returns (nil, nil) when no
// row matches.
func (s *GenerationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Generation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+generationColumns+` FROM generations WHERE id = $1`, id)
	g, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find generation by id: %w", err)
	}
	return g, nil
}

// Recent returns the newest generations first.
func (s *GenerationStore) Recent(ctx context.Context, limit int) ([]models.Generation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+generationColumns+`
		FROM generations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var items []models.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

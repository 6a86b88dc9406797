// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus tracks a fight poster through its lifecycle.
type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusGenerating GenerationStatus = "generating"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s GenerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusGenerating, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// GenerationMode distinguishes the two request shapes.
type GenerationMode string

const (
	// ModeChallenge is a user selfie against one celebrity opponent.
	ModeChallenge GenerationMode = "challenge"
	// ModeDuel is one celebrity against another.
	ModeDuel GenerationMode = "duel"
)

// SafetyFlags records the moderation verdict attached to a generation.
type SafetyFlags struct {
	Checked    bool     `json:"checked"`
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories,omitempty"`
}

// Generation is one fight poster attempt persisted after the provider calls
// resolve. Slugs are not foreign keys: the catalog may change between
// deployments without migrating old rows.
type Generation struct {
	ID           uuid.UUID        `json:"id"`
	Mode         GenerationMode   `json:"mode"`
	SelfieURL    *string          `json:"selfie_url,omitempty"`
	OpponentSlug *string          `json:"opponent_slug,omitempty"`
	Fighter1Slug *string          `json:"fighter1_slug,omitempty"`
	Fighter2Slug *string          `json:"fighter2_slug,omitempty"`
	Style        string           `json:"style"`
	ResultURL    *string          `json:"result_url,omitempty"`
	Captions     []string         `json:"captions"`
	Status       GenerationStatus `json:"status"`
	SafetyFlags  *SafetyFlags     `json:"safety_flags,omitempty"`
	Watermark    bool             `json:"watermark"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Public returns a copy of g safe to show anonymous visitors: the uploaded
// selfie reference is dropped.
func (g Generation) Public() Generation {
	g.SelfieURL = nil
	return g
}

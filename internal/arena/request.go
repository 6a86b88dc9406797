// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package arena

import (
	"fmt"
	"net/http"
	"strings"

	"beefarena/internal/catalog"
)

// Request is the body of POST /api/generate. It carries either the
// challenge fields (selfie against one opponent) or the duel fields (two
// catalog fighters); the shape is decided by IsDuel.
type Request struct {
	SelfieURL        string `json:"selfieUrl"`
	OpponentSlug     string `json:"opponentSlug"`
	Fighter1Slug     string `json:"fighter1Slug"`
	Fighter2Slug     string `json:"fighter2Slug"`
	StyleSlug        string `json:"styleSlug"`
	WatermarkEnabled bool   `json:"watermarkEnabled"`
}

// IsDuel reports whether the request names celebrity fighters rather than
// a selfie and opponent.
func (r Request) IsDuel() bool {
	return strings.TrimSpace(r.Fighter1Slug) != "" || strings.TrimSpace(r.Fighter2Slug) != ""
}

// RequestError is a client input error. Status is the HTTP status the
// handler responds with and Field names the offending request field.
type RequestError struct {
	Status  int
	Field   string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func missingFields(names ...string) *RequestError {
	return &RequestError{
		Status:  http.StatusBadRequest,
		Field:   names[0],
		Message: "Missing required fields: " + strings.Join(names, ", "),
	}
}

func notFound(field, kind, slug string) *RequestError {
	return &RequestError{
		Status:  http.StatusNotFound,
		Field:   field,
		Message: fmt.Sprintf("%s not found for %s: %q", kind, field, slug),
	}
}

// challenge is a validated single-opponent request.
type challenge struct {
	selfieURL string
	opponent  catalog.Fighter
	style     catalog.StyleTemplate
	watermark bool
}

// duel is a validated celebrity-vs-celebrity request.
type duel struct {
	fighter1  catalog.Fighter
	fighter2  catalog.Fighter
	style     catalog.StyleTemplate
	watermark bool
}

// required returns the names of fields whose values are blank.
func required(fields ...[2]string) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	return missing
}

func (r Request) validateChallenge() (*challenge, error) {
	if missing := required(
		[2]string{"selfieUrl", r.SelfieURL},
		[2]string{"opponentSlug", r.OpponentSlug},
		[2]string{"styleSlug", r.StyleSlug},
	); len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	opponentSlug := strings.TrimSpace(r.OpponentSlug)
	opponent, ok := catalog.FindFighter(opponentSlug)
	if !ok {
		return nil, notFound("opponentSlug", "Opponent", opponentSlug)
	}

	styleSlug := strings.TrimSpace(r.StyleSlug)
	style, ok := catalog.FindStyle(styleSlug)
	if !ok {
		return nil, notFound("styleSlug", "Style", styleSlug)
	}

	return &challenge{
		selfieURL: strings.TrimSpace(r.SelfieURL),
		opponent:  opponent,
		style:     style,
		watermark: r.WatermarkEnabled,
	}, nil
}

func (r Request) validateDuel() (*duel, error) {
	if missing := required(
		[2]string{"fighter1Slug", r.Fighter1Slug},
		[2]string{"fighter2Slug", r.Fighter2Slug},
		[2]string{"styleSlug", r.StyleSlug},
	); len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	slug1 := strings.TrimSpace(r.Fighter1Slug)
	slug2 := strings.TrimSpace(r.Fighter2Slug)
	if slug1 == slug2 {
		return nil, &RequestError{
			Status:  http.StatusBadRequest,
			Field:   "fighter2Slug",
			Message: "A fighter cannot fight themselves: fighter1Slug and fighter2Slug must differ",
		}
	}

	fighter1, ok := catalog.FindFighter(slug1)
	if !ok {
		return nil, notFound("fighter1Slug", "Fighter", slug1)
	}
	fighter2, ok := catalog.FindFighter(slug2)
	if !ok {
		return nil, notFound("fighter2Slug", "Fighter", slug2)
	}

	styleSlug := strings.TrimSpace(r.StyleSlug)
	style, ok := catalog.FindStyle(styleSlug)
	if !ok {
		return nil, notFound("styleSlug", "Style", styleSlug)
	}

	return &duel{
		fighter1:  fighter1,
		fighter2:  fighter2,
		style:     style,
		watermark: r.WatermarkEnabled,
	}, nil
}

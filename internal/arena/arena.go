// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package arena runs the fight poster pipeline: validate the request
// against the catalog, moderate the selfie, render the poster, write the
// captions and record the attempt. Every provider step is best-effort. A
// step that errors or panics is logged and replaced by a fallback value,
// and the remaining steps still run.
package arena

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/panics"

	"beefarena/internal/ai"
	"beefarena/internal/models"
)

// Moderator classifies a selfie reference.
type Moderator interface {
	CheckSafety(ctx context.Context, input string) (*ai.ModerationResult, error)
}

// ImageGenerator renders the poster.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ai.ImageRequest) (string, error)
}

// CaptionWriter produces the raw caption reply.
type CaptionWriter interface {
	WriteCaptions(ctx context.Context, prompt string, opts ai.CaptionOptions) (string, error)
}

// Recorder persists a finished generation.
type Recorder interface {
	Create(ctx context.Context, g *models.Generation) (*models.Generation, error)
}

// Archiver copies a provider-hosted poster to permanent storage.
type Archiver interface {
	ArchivePoster(ctx context.Context, sourceURL, name string) (string, error)
}

// Deps are the collaborators of a Service. Any of them may be nil: a nil
// provider behaves like a failing one and a nil Recorder or Archiver skips
// that step.
type Deps struct {
	Moderator  Moderator
	Images     ImageGenerator
	Captions   CaptionWriter
	Recorder   Recorder
	Archiver   Archiver
	ImageModel string

	// Now and Seed are overridable for tests.
	Now  func() time.Time
	Seed func() int64
}

// Result is the success body of POST /api/generate.
type Result struct {
	Success      bool     `json:"success"`
	ResultURL    string   `json:"resultUrl"`
	Captions     []string `json:"captions"`
	Opponent     string   `json:"opponent,omitempty"`
	Fighter1     string   `json:"fighter1,omitempty"`
	Fighter2     string   `json:"fighter2,omitempty"`
	Style        string   `json:"style"`
	GenerationID string   `json:"generationId,omitempty"`
	Debug        *Debug   `json:"debug,omitempty"`
}

// Debug echoes the image model and prompt used for the poster.
type Debug struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// Service runs generation requests. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	deps Deps
}

// NewService creates a Service, filling in the default clock and seed.
func NewService(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Seed == nil {
		deps.Seed = func() int64 { return rand.Int64N(MaxSeed) }
	}
	return &Service{deps: deps}
}

// Generate validates req and runs the pipeline for its shape. Client input
// errors are returned as *RequestError before any provider is called.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.IsDuel() {
		d, err := req.validateDuel()
		if err != nil {
			return nil, err
		}
		return s.runDuel(ctx, d), nil
	}

	c, err := req.validateChallenge()
	if err != nil {
		return nil, err
	}
	return s.runChallenge(ctx, c)
}

func (s *Service) runChallenge(ctx context.Context, c *challenge) (*Result, error) {
	slog.Info("challenge requested",
		"opponent", c.opponent.Slug,
		"style", c.style.Slug,
		"watermark", c.watermark,
	)

	flags, err := s.moderate(ctx, c.selfieURL)
	if err != nil {
		return nil, err
	}

	prompt := challengeImagePrompt(c)
	resultURL := s.poster(ctx, prompt, c.opponent.Slug+"-"+c.style.Slug)
	captions := s.captions(ctx, challengeCaptionPrompt(c), ChallengeTemperature, ChallengeFallbackCaptions(c.opponent))

	g := &models.Generation{
		Mode:         models.ModeChallenge,
		SelfieURL:    &c.selfieURL,
		OpponentSlug: &c.opponent.Slug,
		Style:        c.style.Slug,
		ResultURL:    &resultURL,
		Captions:     captions,
		Status:       models.StatusCompleted,
		SafetyFlags:  flags,
		Watermark:    c.watermark,
	}

	return &Result{
		Success:      true,
		ResultURL:    resultURL,
		Captions:     captions,
		Opponent:     c.opponent.Name,
		Style:        c.style.Name,
		GenerationID: s.record(ctx, g),
		Debug:        &Debug{Model: s.deps.ImageModel, Prompt: prompt},
	}, nil
}

func (s *Service) runDuel(ctx context.Context, d *duel) *Result {
	slog.Info("duel requested",
		"fighter1", d.fighter1.Slug,
		"fighter2", d.fighter2.Slug,
		"style", d.style.Slug,
		"watermark", d.watermark,
	)

	prompt := duelImagePrompt(d)
	resultURL := s.poster(ctx, prompt, d.fighter1.Slug+"-vs-"+d.fighter2.Slug)
	captions := s.captions(ctx, duelCaptionPrompt(d), DuelTemperature, DuelFallbackCaptions(d.fighter1, d.fighter2))

	g := &models.Generation{
		Mode:         models.ModeDuel,
		Fighter1Slug: &d.fighter1.Slug,
		Fighter2Slug: &d.fighter2.Slug,
		Style:        d.style.Slug,
		ResultURL:    &resultURL,
		Captions:     captions,
		Status:       models.StatusCompleted,
		Watermark:    d.watermark,
	}

	return &Result{
		Success:      true,
		ResultURL:    resultURL,
		Captions:     captions,
		Fighter1:     d.fighter1.Name,
		Fighter2:     d.fighter2.Name,
		Style:        d.style.Name,
		GenerationID: s.record(ctx, g),
		Debug:        &Debug{Model: s.deps.ImageModel, Prompt: prompt},
	}
}

// moderate checks the selfie. Only a flagged verdict stops the request;
// provider errors and panics are logged and the selfie is let through.
func (s *Service) moderate(ctx context.Context, selfieURL string) (*models.SafetyFlags, error) {
	flags := &models.SafetyFlags{}
	if s.deps.Moderator == nil {
		slog.Warn("moderation skipped", "reason", "no moderator configured")
		return flags, nil
	}

	var result *ai.ModerationResult
	err := step(func() error {
		var err error
		result, err = s.deps.Moderator.CheckSafety(ctx, selfieURL)
		return err
	})
	if err != nil || result == nil {
		slog.Warn("moderation failed, continuing", "error", err)
		return flags, nil
	}

	flags.Checked = true
	if !result.Safe {
		slog.Warn("selfie flagged by moderation", "categories", result.Categories)
		return nil, &RequestError{
			Status:  http.StatusBadRequest,
			Field:   "selfieUrl",
			Message: "Image content flagged by moderation",
		}
	}

	slog.Info("moderation passed")
	return flags, nil
}

// poster renders the image and archives it. Any failure yields the
// placeholder; a failed archive keeps the provider URL.
func (s *Service) poster(ctx context.Context, prompt, name string) string {
	placeholder := PlaceholderURL(s.deps.Now().UnixMilli())
	if s.deps.Images == nil {
		slog.Warn("image generation skipped, using placeholder", "reason", "no image provider configured")
		return placeholder
	}

	req := ai.ImageRequest{
		Prompt:         prompt,
		NegativePrompt: NegativePrompt,
		Width:          PosterWidth,
		Height:         PosterHeight,
		Steps:          PosterSteps,
		Guidance:       PosterGuidance,
		Seed:           s.deps.Seed(),
	}

	var url string
	err := step(func() error {
		var err error
		url, err = s.deps.Images.GenerateImage(ctx, req)
		return err
	})
	if err == nil && url == "" {
		err = ai.ErrUnexpectedOutput
	}
	if err != nil {
		slog.Error("image generation failed, using placeholder", "error", err)
		return placeholder
	}
	slog.Info("poster generated", "url", url, "seed", req.Seed)

	if s.deps.Archiver == nil {
		return url
	}

	var archived string
	err = step(func() error {
		var err error
		archived, err = s.deps.Archiver.ArchivePoster(ctx, url, name)
		return err
	})
	if err != nil || archived == "" {
		slog.Warn("poster archive failed, keeping provider url", "error", err)
		return url
	}
	return archived
}

// captions asks the chat model for captions and returns fallback when the
// call fails or the reply holds no usable array.
func (s *Service) captions(ctx context.Context, prompt string, temperature float64, fallback []string) []string {
	if s.deps.Captions == nil {
		slog.Warn("caption generation skipped, using fallback", "reason", "no caption provider configured")
		return fallback
	}

	var reply string
	err := step(func() error {
		var err error
		reply, err = s.deps.Captions.WriteCaptions(ctx, prompt, ai.CaptionOptions{
			Temperature: temperature,
			MaxTokens:   CaptionMaxTokens,
		})
		return err
	})
	if err != nil {
		slog.Error("caption generation failed, using fallback", "error", err)
		return fallback
	}

	captions, ok := ParseCaptions(reply)
	if !ok {
		slog.Warn("caption reply unusable, using fallback", "reply", reply)
		return fallback
	}
	return captions
}

// record persists g and returns its id, or "" when nothing was stored.
func (s *Service) record(ctx context.Context, g *models.Generation) string {
	if s.deps.Recorder == nil {
		return ""
	}

	var saved *models.Generation
	err := step(func() error {
		var err error
		saved, err = s.deps.Recorder.Create(ctx, g)
		return err
	})
	if err != nil || saved == nil {
		slog.Error("generation not recorded", "error", err, "mode", g.Mode)
		return ""
	}

	slog.Info("generation recorded", "id", saved.ID, "mode", saved.Mode)
	return saved.ID.String()
}

// step runs fn and converts a panic into an error.
func step(fn func() error) error {
	var pc panics.Catcher
	var err error
	pc.Try(func() { err = fn() })
	if r := pc.Recovered(); r != nil {
		return fmt.Errorf("step panicked: %w", r.AsError())
	}
	return err
}

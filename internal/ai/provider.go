// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai wraps the generative-AI vendors used by the arena: a
// text-to-image model for posters (Replicate), chat models for captions
// (OpenAI or Gemini) and the OpenAI moderation classifier. The Registry
// bundles them and selects the active caption provider by name.
package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// CaptionOptions tunes a single caption request.
type CaptionOptions struct {
	Temperature float64
	MaxTokens   int
}

// CaptionWriter sends a caption-writing prompt to a chat model and returns
// the raw response text.
type CaptionWriter interface {
	WriteCaptions(ctx context.Context, prompt string, opts CaptionOptions) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ImageRequest carries the sampling parameters for one poster.
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	Guidance       float64
	Seed           int64
}

// ImageGenerator renders an image and returns a URL to it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)

	// Model identifies the underlying image model.
	Model() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config lists every provider the registry may initialise. Providers with
// an empty APIKey are skipped.
type Config struct {
	// ActiveCaptions names the caption provider: "openai" or "gemini".
	ActiveCaptions string
	OpenAI         ProviderConfig
	Gemini         ProviderConfig
	Replicate      ProviderConfig
}

// Registry manages the configured providers. Caption providers can be
// switched at runtime. All methods are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	captioners map[string]CaptionWriter
	active     string
	moderator  Moderator      // nil when no OpenAI key is configured
	images     ImageGenerator // nil when no Replicate token is configured
}

// NewRegistry creates a registry and initialises every provider that has
// credentials. Missing providers are not an error: the arena falls back to
// canned captions and placeholder posters.
func NewRegistry(ctx context.Context, cfg Config) (*Registry, error) {
	r := &Registry{
		captioners: make(map[string]CaptionWriter),
		active:     cfg.ActiveCaptions,
	}

	if cfg.OpenAI.APIKey != "" {
		r.captioners["openai"] = newOpenAI(cfg.OpenAI)
		r.moderator = newOpenAIModerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	}

	if cfg.Gemini.APIKey != "" {
		g, err := newGemini(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		r.captioners["gemini"] = g
	}

	if cfg.Replicate.APIKey != "" {
		r.images = newReplicate(cfg.Replicate)
	}

	return r, nil
}

// WriteCaptions calls the active caption provider.
func (r *Registry) WriteCaptions(ctx context.Context, prompt string, opts CaptionOptions) (string, error) {
	p, err := r.ActiveCaptioner()
	if err != nil {
		return "", err
	}
	return p.WriteCaptions(ctx, prompt, opts)
}

// ActiveCaptioner returns the currently active caption provider.
func (r *Registry) ActiveCaptioner() (CaptionWriter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.captioners[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no caption provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active caption provider at runtime. Returns an
// error if the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.captioners[name]; !ok {
		return fmt.Errorf("ai: caption provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the active caption provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all configured caption providers.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.captioners))
	for name := range r.captioners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterCaptioner adds or replaces a caption provider.
func (r *Registry) RegisterCaptioner(p CaptionWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captioners[p.Name()] = p
}

// SetImageGenerator replaces the image provider.
func (r *Registry) SetImageGenerator(g ImageGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = g
}

// SetModerator replaces the moderation provider.
func (r *Registry) SetModerator(m Moderator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moderator = m
}

// GenerateImage calls the configured image provider.
func (r *Registry) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	r.mu.RLock()
	g := r.images
	r.mu.RUnlock()

	if g == nil {
		return "", fmt.Errorf("ai: no image provider configured")
	}
	return g.GenerateImage(ctx, req)
}

// ImageModel returns the configured image model, or "" when none is set.
func (r *Registry) ImageModel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.images == nil {
		return ""
	}
	return r.images.Model()
}

// CheckSafety runs content through the moderation API. Returns an error
// when no moderator is configured so callers can log that the check was
// skipped.
func (r *Registry) CheckSafety(ctx context.Context, input string) (*ModerationResult, error) {
	r.mu.RLock()
	m := r.moderator
	r.mu.RUnlock()

	if m == nil {
		return nil, ErrNoModerator
	}
	return m.CheckSafety(ctx, input)
}

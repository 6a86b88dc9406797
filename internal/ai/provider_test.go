// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"os"
	"testing"
	"time"
)

const liveCaptionPrompt = "Write 4 short captions about a cooking contest. Format as a JSON array of strings."

// TestOpenAILive tests the OpenAI caption provider against the real API.
// Skipped if OPENAI_API_KEY is not set.
func TestOpenAILive(t *testing.T) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	reg, err := NewRegistry(context.Background(), Config{
		ActiveCaptions: "openai",
		OpenAI:         ProviderConfig{APIKey: key, Model: model},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := reg.WriteCaptions(ctx, liveCaptionPrompt, CaptionOptions{Temperature: 0.8, MaxTokens: 200})
	if err != nil {
		t.Fatalf("WriteCaptions failed: %v", err)
	}
	if result == "" {
		t.Fatal("WriteCaptions returned empty string")
	}

	t.Logf("OpenAI response: %s", result)
}

// TestOpenAIModerationLive runs a harmless string through the moderation API.
func TestOpenAIModerationLive(t *testing.T) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	m := newOpenAIModerator(key, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := m.CheckSafety(ctx, "A friendly pillow fight between two cartoon sheep.")
	if err != nil {
		t.Fatalf("CheckSafety failed: %v", err)
	}
	if !result.Safe {
		t.Errorf("harmless text flagged: %v", result.Categories)
	}
}

// TestGeminiLive tests the Gemini caption provider against the real API.
// Skipped if GEMINI_API_KEY is not set.
func TestGeminiLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	reg, err := NewRegistry(context.Background(), Config{
		ActiveCaptions: "gemini",
		Gemini:         ProviderConfig{APIKey: key, Model: model},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := reg.WriteCaptions(ctx, liveCaptionPrompt, CaptionOptions{Temperature: 0.9, MaxTokens: 200})
	if err != nil {
		t.Fatalf("WriteCaptions failed: %v", err)
	}
	if result == "" {
		t.Fatal("WriteCaptions returned empty string")
	}

	t.Logf("Gemini response: %s", result)
}

// TestRegistryBasics tests registry provider management without API calls.
func TestRegistryBasics(t *testing.T) {
	reg, err := NewRegistry(context.Background(), Config{
		ActiveCaptions: "gemini",
		OpenAI:         ProviderConfig{APIKey: "test-key", Model: "gpt-4o"},
		Gemini:         ProviderConfig{APIKey: "test-key", Model: "gemini-2.5-flash"},
		Replicate:      ProviderConfig{APIKey: "", Model: "stability-ai/sdxl"}, // No token, should be skipped.
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if reg.ActiveName() != "gemini" {
		t.Errorf("expected active=gemini, got %s", reg.ActiveName())
	}

	available := reg.Available()
	if len(available) != 2 {
		t.Errorf("expected 2 available providers, got %d: %v", len(available), available)
	}

	if reg.ImageModel() != "" {
		t.Errorf("ImageModel() = %q, want empty without a Replicate token", reg.ImageModel())
	}

	if err := reg.SetActive("openai"); err != nil {
		t.Errorf("SetActive(openai) failed: %v", err)
	}
	if reg.ActiveName() != "openai" {
		t.Errorf("expected active=openai after switch, got %s", reg.ActiveName())
	}

	if err := reg.SetActive("claude"); err == nil {
		t.Error("SetActive(claude) should fail (not a caption provider)")
	}
}

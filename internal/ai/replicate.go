// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnexpectedOutput is returned when a prediction's output carries no
// usable image URL.
var ErrUnexpectedOutput = errors.New("ai: unexpected image output format")

const (
	replicateMaxPolls = 10
	replicateTimeout  = 120 * time.Second
)

// replicateProvider runs text-to-image models through the Replicate
// predictions API. A model is either "owner/name" (official model endpoint)
// or "owner/name:version" (a pinned version).
type replicateProvider struct {
	token   string
	model   string
	baseURL string
	client  *http.Client

	// pollInterval is multiplied by the attempt number between polls.
	pollInterval time.Duration
}

func newReplicate(cfg ProviderConfig) *replicateProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.replicate.com/v1"
	}
	return &replicateProvider{
		token:        cfg.APIKey,
		model:        cfg.Model,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{Timeout: replicateTimeout},
		pollInterval: time.Second,
	}
}

func (p *replicateProvider) Model() string { return p.model }

// GenerateImage creates a prediction and waits for its output. The create
// call asks Replicate to hold the connection until the prediction finishes;
// when it returns early the prediction is polled.
func (p *replicateProvider) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	input := replicateInput{
		Prompt:            req.Prompt,
		NegativePrompt:    req.NegativePrompt,
		Width:             req.Width,
		Height:            req.Height,
		NumInferenceSteps: req.Steps,
		GuidanceScale:     req.Guidance,
		Seed:              req.Seed,
	}

	url, body := p.predictionRequest(input)
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("replicate marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("replicate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "wait")

	pred, err := p.do(httpReq)
	if err != nil {
		return "", err
	}

	if !pred.done() && pred.URLs.Get != "" {
		pred, err = p.poll(ctx, pred.URLs.Get)
		if err != nil {
			return "", err
		}
	}

	return pred.imageURL()
}

// predictionRequest picks the endpoint for the configured model.
func (p *replicateProvider) predictionRequest(input replicateInput) (string, any) {
	if _, version, ok := strings.Cut(p.model, ":"); ok {
		return p.baseURL + "/predictions", replicateVersionRequest{Version: version, Input: input}
	}
	return p.baseURL + "/models/" + p.model + "/predictions", replicateModelRequest{Input: input}
}

// poll fetches the prediction until it reaches a terminal status or the
// attempt budget runs out.
func (p *replicateProvider) poll(ctx context.Context, url string) (*replicatePrediction, error) {
	for i := 0; i < replicateMaxPolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * p.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("replicate poll request: %w", err)
		}

		pred, err := p.do(req)
		if err != nil {
			return nil, err
		}
		if pred.done() {
			return pred, nil
		}
	}
	return nil, fmt.Errorf("replicate: prediction did not finish after %d polls", replicateMaxPolls)
}

func (p *replicateProvider) do(req *http.Request) (*replicatePrediction, error) {
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("replicate API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var pred replicatePrediction
	if err := json.Unmarshal(respBody, &pred); err != nil {
		return nil, fmt.Errorf("replicate unmarshal: %w", err)
	}
	return &pred, nil
}

// ParseImageOutput extracts an image URL from a prediction output. Models
// return a bare string, a list of strings, a list of file objects, or a
// single file object exposing "url".
func ParseImageOutput(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return nonEmpty(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", ErrUnexpectedOutput
		}
		return ParseImageOutput(list[0])
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return nonEmpty(obj.URL)
	}

	return "", ErrUnexpectedOutput
}

func nonEmpty(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrUnexpectedOutput
	}
	return s, nil
}

// --- Request/Response types ---

type replicateInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	Seed              int64   `json:"seed"`
}

type replicateVersionRequest struct {
	Version string         `json:"version"`
	Input   replicateInput `json:"input"`
}

type replicateModelRequest struct {
	Input replicateInput `json:"input"`
}

type replicatePrediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func (p *replicatePrediction) done() bool {
	switch p.Status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

func (p *replicatePrediction) imageURL() (string, error) {
	switch p.Status {
	case "failed", "canceled":
		return "", fmt.Errorf("replicate: prediction %s %s: %v", p.ID, p.Status, p.Error)
	}
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return "", fmt.Errorf("replicate: prediction %s has no output (status %q)", p.ID, p.Status)
	}
	return ParseImageOutput(p.Output)
}

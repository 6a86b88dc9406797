// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"beefarena/internal/slug"
)

// MaxImageSize caps downloaded posters and uploaded selfies (10 MB).
const MaxImageSize = 10 << 20

// imageExtensions maps the accepted image MIME types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageExtension returns the file extension for an accepted image type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// ObjectKey builds a dated, collision-free key such as
// "posters/2026/10/elon-musk-vs-drake-<uuid>.png". An empty name yields
// just the UUID.
func ObjectKey(prefix, name, ext string, now time.Time) string {
	base := uuid.NewString()
	if s := slug.Generate(name); s != "" {
		base = s + "-" + base
	}
	return fmt.Sprintf("%s/%d/%02d/%s%s", prefix, now.Year(), now.Month(), base, ext)
}

// ArchivePoster downloads a provider-hosted image and re-uploads it to the
// public bucket, returning its permanent URL. Provider URLs expire, so the
// archived copy is what gets persisted.
func (c *Client) ArchivePoster(ctx context.Context, sourceURL, name string) (string, error) {
	if c.Owns(sourceURL) {
		return sourceURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("archive request: %w", err)
	}

	resp, err := c.fetch.Do(req)
	if err != nil {
		return "", fmt.Errorf("archive download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive download: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("archive read body: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("archive download: image exceeds %d bytes", MaxImageSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := ImageExtension(contentType)
	if !ok {
		return "", fmt.Errorf("archive download: unsupported content type %q", contentType)
	}

	key := ObjectKey("posters", name, ext, time.Now())
	if err := c.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", err
	}

	slog.Info("poster archived", "key", key, "size", len(data))
	return c.FileURL(key), nil
}

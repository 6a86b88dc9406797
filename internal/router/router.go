// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for Beef
// Arena. It serves the arena page, its static assets, and the JSON API.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"beefarena/internal/handlers"
	"beefarena/internal/middleware"
	"beefarena/web"
)

// Options configures the optional parts of the router.
type Options struct {
	// Limiter throttles the anonymous writes, POST /api/generate and POST
	// /api/selfies. Nil disables rate limiting.
	Limiter *middleware.RateLimiter

	// ImageSources are extra img-src origins allowed by the CSP, such as the
	// public bucket URL.
	ImageSources []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.Arena, page *handlers.Page, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.ImageSources...))

	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("router: embedded static assets missing: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", page.Home)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.Limiter != nil {
				r.Use(opts.Limiter.Middleware)
			}
			r.Post("/generate", api.Generate)
			r.Post("/selfies", api.UploadSelfie)
		})

		r.Get("/fighters", api.Fighters)
		r.Get("/styles", api.Styles)

		r.Route("/generations", func(r chi.Router) {
			r.Get("/", api.Recent)
			r.Get("/{id}", api.Generation)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

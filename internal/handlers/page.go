// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"beefarena/internal/catalog"
	"beefarena/internal/render"
)

// Page serves the server-rendered arena page.
type Page struct {
	renderer   *render.Renderer
	challenges bool
}

// NewPage creates the page handler. challenges enables the selfie
// challenge tab, which needs object storage for the upload.
func NewPage(renderer *render.Renderer, challenges bool) *Page {
	return &Page{renderer: renderer, challenges: challenges}
}

// Home renders the fighter and style pickers.
func (p *Page) Home(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, "index", &render.PageData{
		Title:    "Settle the beef",
		Fighters: catalog.Fighters(),
		Styles:   catalog.Styles(),
		Data: map[string]any{
			"Slots":     []string{"Blue", "Red"},
			"Challenge": p.challenges,
		},
	})
}

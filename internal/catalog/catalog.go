// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static fighter roster and fight style templates.
// Records are compiled into the binary and never mutated at runtime, so
// lookups are safe for concurrent use without locking.
package catalog

// Fighter is a celebrity that can be picked for a fight.
type Fighter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Nickname     string `json:"nickname"`
	BasePhotoURL string `json:"base_photo_url"`
	Allowed      bool   `json:"allowed"`
	// Description is the likeness detail fed to the image prompt.
	Description string `json:"description"`
}

// StyleTemplate is a visual scene for the fight poster.
type StyleTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	StylePrompt string `json:"style_prompt"`
}

var fighters = []Fighter{
	{
		ID:           "1",
		Name:         "Elon Musk",
		Slug:         "elon-musk",
		Nickname:     "The Algorithm Assassin",
		BasePhotoURL: "/opponents/elon-musk.jpg",
		Allowed:      true,
		Description:  "tech billionaire with short dark hair, black t-shirt, confident smirk",
	},
	{
		ID:           "2",
		Name:         "Taylor Swift",
		Slug:         "taylor-swift",
		Nickname:     "The Reputation Wrecker",
		BasePhotoURL: "/opponents/taylor-swift.jpg",
		Allowed:      true,
		Description:  "pop superstar with blonde bangs, red lipstick, sparkling stage outfit",
	},
	{
		ID:           "3",
		Name:         "MrBeast",
		Slug:         "mrbeast",
		Nickname:     "The Content King",
		BasePhotoURL: "/opponents/mrbeast.jpg",
		Allowed:      true,
		Description:  "YouTube creator with a short beard, branded hoodie, huge grin",
	},
	{
		ID:           "4",
		Name:         "Drake",
		Slug:         "drake",
		Nickname:     "The Chart Dominator",
		BasePhotoURL: "/opponents/drake.jpg",
		Allowed:      true,
		Description:  "rapper with a trimmed beard, designer puffer jacket, gold owl chain",
	},
	{
		ID:           "5",
		Name:         "Jeff Bezos",
		Slug:         "jeff-bezos",
		Nickname:     "The Prime Punisher",
		BasePhotoURL: "/opponents/jeff-bezos.jpg",
		Allowed:      true,
		Description:  "bald billionaire in a tailored vest, broad shoulders, intense laugh",
	},
}

var styles = []StyleTemplate{
	{
		ID:          "1",
		Name:        "Staredown",
		Slug:        "staredown",
		Description: "Classic boxing ring face-off",
		StylePrompt: "boxing ring, neon lights, dramatic shadows, face-to-face staredown, professional lighting, intense atmosphere",
	},
	{
		ID:          "2",
		Name:        "Weigh-In",
		Slug:        "weighin",
		Description: "Press conference stage scene",
		StylePrompt: "weigh-in stage, sponsor wall, flex pose, camera flashes, press conference setup, professional sports atmosphere",
	},
	{
		ID:          "3",
		Name:        "Courtroom",
		Slug:        "press",
		Description: "Courtroom roast battle",
		StylePrompt: "courtroom setting, judge bench, microphones, wooden desks, formal legal atmosphere, dramatic lighting",
	},
	{
		ID:          "4",
		Name:        "Anime Duel",
		Slug:        "anime",
		Description: "Epic rooftop showdown",
		StylePrompt: "anime style, rooftop setting, glowing eyes, cracked floor, sunset sky, dramatic wind effects, energy auras",
	},
	{
		ID:          "5",
		Name:        "Street Fight",
		Slug:        "street",
		Description: "Paparazzi chaos scene",
		StylePrompt: "nighttime city street, paparazzi cameras, camera flashes, urban chaos, dramatic street lighting, crowd atmosphere",
	},
}

// FindFighter returns the fighter with the given slug. Fighters that are not
// allowed are treated as absent.
func FindFighter(slug string) (Fighter, bool) {
	for _, f := range fighters {
		if f.Slug == slug {
			return f, f.Allowed
		}
	}
	return Fighter{}, false
}

// FindStyle returns the style template with the given slug.
func FindStyle(slug string) (StyleTemplate, bool) {
	for _, s := range styles {
		if s.Slug == slug {
			return s, true
		}
	}
	return StyleTemplate{}, false
}

// Fighters returns the allowed fighters in roster order.
func Fighters() []Fighter {
	out := make([]Fighter, 0, len(fighters))
	for _, f := range fighters {
		if f.Allowed {
			out = append(out, f)
		}
	}
	return out
}

// Styles returns a copy of all style templates in catalog order.
func Styles() []StyleTemplate {
	out := make([]StyleTemplate, len(styles))
	copy(out, styles)
	return out
}

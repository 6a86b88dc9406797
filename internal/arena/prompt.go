// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package arena

import (
	"encoding/json"
	"fmt"
	"strings"

	"beefarena/internal/catalog"
)

// Fixed sampling parameters for every poster.
const (
	PosterWidth    = 1024
	PosterHeight   = 1024
	PosterSteps    = 20
	PosterGuidance = 7.5
	MaxSeed        = 1_000_000

	NegativePrompt = "violence, blood, gore, weapons, arctic, snow, ice, cold, winter, landscape"

	CaptionCount     = 4
	CaptionMaxTokens = 200

	ChallengeTemperature = 0.8
	DuelTemperature      = 0.9
)

const watermarkLine = "Include subtle parody watermark."

// PlaceholderURL returns the stock image used when the image model fails.
func PlaceholderURL(millis int64) string {
	return fmt.Sprintf("https://picsum.photos/1024/1024?random=%d", millis)
}

func challengeImagePrompt(c *challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a dramatic fight poster scene in %s style.\n", c.style.StylePrompt)
	fmt.Fprintf(&b, "Two people facing off dramatically in a %s.\n", c.style.Description)
	fmt.Fprintf(&b, "On one side the challenger from the uploaded photo, on the other %s (%s).\n",
		c.opponent.Name, c.opponent.Description)
	b.WriteString("Professional lighting, intense atmosphere, cinematic composition.\n")
	b.WriteString("Fight poster style with dramatic poses and lighting.")
	if c.watermark {
		b.WriteString("\n" + watermarkLine)
	}
	return b.String()
}

func duelImagePrompt(d *duel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a dramatic fight poster scene in %s style.\n", d.style.StylePrompt)
	fmt.Fprintf(&b, "%s (%s) facing off against %s (%s) in a %s.\n",
		d.fighter1.Name, d.fighter1.Description,
		d.fighter2.Name, d.fighter2.Description,
		d.style.Description)
	b.WriteString("Professional lighting, intense atmosphere, cinematic composition.\n")
	b.WriteString("Fight poster style with dramatic poses and lighting.")
	if d.watermark {
		b.WriteString("\n" + watermarkLine)
	}
	return b.String()
}

func challengeCaptionPrompt(c *challenge) string {
	return fmt.Sprintf(`Write exactly %d funny, meme-ready captions for a fake parody fight between a user and %s.
Fight style: %s.
Keep it PG-13, witty, and 10-14 words each.
Include fight/wrestling puns and references to %s's known traits.
Format as a JSON array of strings.`,
		CaptionCount, c.opponent.Name, c.style.Description, c.opponent.Name)
}

func duelCaptionPrompt(d *duel) string {
	return fmt.Sprintf(`Write exactly %d funny, meme-ready captions for a fake parody fight between %s and %s.
Fight style: %s.
Keep it PG-13, witty, and 10-14 words each.
Include fight/wrestling puns and references to both fighters' known traits.
Format as a JSON array of strings.`,
		CaptionCount, d.fighter1.Name, d.fighter2.Name, d.style.Description)
}

// ChallengeFallbackCaptions are used when the caption model fails for a
// selfie challenge.
func ChallengeFallbackCaptions(opponent catalog.Fighter) []string {
	return []string{
		fmt.Sprintf("When %s meets their match 🔥", opponent.Nickname),
		"This beef is well done 🥩",
		"Talk is cheap, fists are free",
		"The main event nobody asked for",
	}
}

// DuelFallbackCaptions are used when the caption model fails for a duel.
func DuelFallbackCaptions(a, b catalog.Fighter) []string {
	return []string{
		fmt.Sprintf("%s vs %s: the beef nobody ordered 🔥", a.Name, b.Name),
		fmt.Sprintf("When %s meets %s 🥩", a.Nickname, b.Nickname),
		"Talk is cheap, fists are free",
		"The main event nobody asked for",
	}
}

// ParseCaptions extracts a JSON array of caption strings from a chat
// model reply. The whole reply is tried first; otherwise each "[" is tried
// in turn, so code fences and prose around the array (brackets included)
// are ignored. It returns false when no usable captions are found: invalid
// JSON, a non-array, non-string elements, or only blank entries. At most
// CaptionCount captions are returned.
func ParseCaptions(text string) ([]string, bool) {
	if captions, ok := captionArray(strings.TrimSpace(text)); ok {
		return captions, true
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		if captions, ok := captionArray(text[i:]); ok {
			return captions, true
		}
	}
	return nil, false
}

// captionArray decodes the JSON array at the start of s and ignores any
// trailing text.
func captionArray(s string) ([]string, bool) {
	var raw []any
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&raw); err != nil {
		return nil, false
	}

	captions := make([]string, 0, CaptionCount)
	for _, v := range raw {
		c, ok := v.(string)
		if !ok {
			return nil, false
		}
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if len(captions) < CaptionCount {
			captions = append(captions, c)
		}
	}

	if len(captions) == 0 {
		return nil, false
	}
	return captions, true
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds URL- and object-key-friendly names from free text.
package slug

import "strings"

// MaxLen bounds generated slugs so object keys stay short.
const MaxLen = 80

// Generate lowercases s, keeps ASCII letters and digits, turns runs of
// whitespace, hyphens and underscores into single hyphens, and drops
// everything else. Results longer than MaxLen are cut at the last hyphen
// that keeps at least 20 characters.
// Example: "Elon Musk vs. Taylor Swift!" → "elon-musk-vs-taylor-swift"
func Generate(s string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '-', r == '_':
			pendingHyphen = true
		}
	}

	out := b.String()
	if len(out) > MaxLen {
		out = out[:MaxLen]
		if i := strings.LastIndex(out, "-"); i >= 20 {
			out = out[:i]
		}
		out = strings.TrimRight(out, "-")
	}
	return out
}

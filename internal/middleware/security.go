// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// SecureHeaders adds security headers to every response. imgSources are
// extra origins allowed in img-src, such as the image model's CDN and the
// public bucket.
func SecureHeaders(imgSources ...string) func(http.Handler) http.Handler {
	csp := ContentSecurityPolicy(imgSources...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}

// ContentSecurityPolicy builds the policy for the arena page. Posters load
// from the placeholder service and any extra origins given.
func ContentSecurityPolicy(imgSources ...string) string {
	img := []string{"'self'", "data:", "blob:", "https://picsum.photos", "https://fastly.picsum.photos"}
	for _, src := range imgSources {
		if src = strings.TrimRight(strings.TrimSpace(src), "/"); src != "" {
			img = append(img, src)
		}
	}

	return strings.Join([]string{
		"default-src 'self'",
		"img-src " + strings.Join(img, " "),
		"script-src 'self'",
		"style-src 'self'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")
}

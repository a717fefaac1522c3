// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"myweblog/internal/models"
)

// ctxKey is an unexported type for context keys in this package.
type ctxKey string

const (
	webLogKey ctxKey = "web_log"
	pathKey   ctxKey = "web_log_path"
)

// WebLogFinder finds the web log served on a host.
type WebLogFinder interface {
	WebLogByHost(host string) (*models.WebLog, bool)
}

// WebLog resolves the tenant of each request from its Host header and
// stores it, together with the request path relative to the web log's URL
// base, in the request context. Requests for unknown hosts, or outside the
// web log's base path, get a 404.
func WebLog(finder WebLogFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			webLog, ok := finder.WebLogByHost(requestHost(r))
			if !ok {
				http.NotFound(w, r)
				return
			}

			path := r.URL.Path
			if extra := webLog.ExtraPath(); extra != "" {
				if path != extra && !strings.HasPrefix(path, extra+"/") {
					http.NotFound(w, r)
					return
				}
				path = strings.TrimPrefix(path, extra)
			}

			slog.Debug("web log resolved", "host", r.Host, "slug", webLog.Slug, "path", path)

			ctx := context.WithValue(r.Context(), webLogKey, webLog)
			ctx = context.WithValue(ctx, pathKey, path)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WebLogFromCtx returns the web log stored by the WebLog middleware, or
// nil if there is none.
func WebLogFromCtx(ctx context.Context) *models.WebLog {
	wl, _ := ctx.Value(webLogKey).(*models.WebLog)
	return wl
}

// PathFromCtx returns the request path relative to the web log's URL base.
// It is empty for a request naming the base path without a trailing slash,
// and "/" when no web log path is stored.
func PathFromCtx(ctx context.Context) string {
	if p, ok := ctx.Value(pathKey).(string); ok {
		return p
	}
	return "/"
}

// WithWebLog returns a context carrying a web log and relative path, as
// the WebLog middleware would store them.
func WithWebLog(ctx context.Context, webLog *models.WebLog, path string) context.Context {
	ctx = context.WithValue(ctx, webLogKey, webLog)
	return context.WithValue(ctx, pathKey, path)
}

// requestHost returns the lowercased Host header. Default ports are
// dropped so "example.com:443" matches "https://example.com".
func requestHost(r *http.Request) string {
	host := strings.ToLower(r.Host)
	if h, port, err := net.SplitHostPort(host); err == nil && (port == "80" || port == "443") {
		return h
	}
	return host
}

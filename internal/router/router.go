// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain of the web
// log server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"myweblog/internal/handlers"
	"myweblog/internal/middleware"
)

// New creates and returns the configured Chi router. Every path except
// the health check belongs to the web log selected by the request host.
func New(webLogs middleware.WebLogFinder, public *handlers.Public, generator string) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Headers(generator))

	r.Get("/health", healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.WebLog(webLogs))

		r.Get("/", public.CatchAll)
		r.Get("/*", public.CatchAll)
		r.Head("/", public.CatchAll)
		r.Head("/*", public.CatchAll)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

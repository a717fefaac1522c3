// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html/template"
	"log/slog"
	"sync"
)

// cacheKey identifies one compiled template version. A save bumps the
// version, so stale entries are simply never looked up again.
type cacheKey struct {
	theme   string
	name    string
	version int
}

// templateCache is a concurrency-safe in-memory cache of compiled templates.
type templateCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*template.Template
}

func newTemplateCache() *templateCache {
	return &templateCache{
		entries: make(map[cacheKey]*template.Template),
	}
}

// get retrieves a compiled template from cache. Returns nil on miss.
func (c *templateCache) get(theme, name string, version int) *template.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[cacheKey{theme: theme, name: name, version: version}]
}

// put stores a compiled template and drops older versions of the same
// theme template.
func (c *templateCache) put(theme, name string, version int, tmpl *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.theme == theme && k.name == name && k.version != version {
			delete(c.entries, k)
		}
	}
	c.entries[cacheKey{theme: theme, name: name, version: version}] = tmpl
	slog.Debug("template cached", "theme", theme, "name", name, "version", version, "size", len(c.entries))
}

// invalidateTheme removes every cached template of a theme.
func (c *templateCache) invalidateTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.theme == theme {
			delete(c.entries, k)
		}
	}
	slog.Debug("template cache invalidated", "theme", theme)
}

// invalidateAll clears the entire cache.
func (c *templateCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*template.Template)
	slog.Debug("template cache fully cleared")
}

func (c *templateCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

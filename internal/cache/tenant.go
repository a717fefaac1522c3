// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"myweblog/internal/models"
)

// Snapshots maps a tenant key to an immutable value. Replace swaps the
// whole value for a key at once, so readers see either the old snapshot or
// the new one. Values must not be mutated after they are stored.
type Snapshots[K comparable, V any] struct {
	m sync.Map
}

// Get returns the current snapshot for key.
func (s *Snapshots[K, V]) Get(key K) (V, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Replace stores value as the snapshot for key.
func (s *Snapshots[K, V]) Replace(key K, value V) {
	s.m.Store(key, value)
}

// Remove drops the snapshot for key.
func (s *Snapshots[K, V]) Remove(key K) {
	s.m.Delete(key)
}

// Range calls fn for each snapshot until fn returns false.
func (s *Snapshots[K, V]) Range(fn func(K, V) bool) {
	s.m.Range(func(k, v any) bool {
		return fn(k.(K), v.(V))
	})
}

// Tenants is the set of per-web-log snapshots read during request
// handling.
type Tenants struct {
	webLogs    Snapshots[string, *models.WebLog]
	categories Snapshots[uuid.UUID, []models.DisplayCategory]
	pageLists  Snapshots[uuid.UUID, []models.Page]
}

// NewTenants returns an empty set of tenant snapshots.
func NewTenants() *Tenants {
	return &Tenants{}
}

// WebLogByHost returns the web log served at host ("example.com" or
// "localhost:8080"). Lookup is case-insensitive.
func (t *Tenants) WebLogByHost(host string) (*models.WebLog, bool) {
	return t.webLogs.Get(strings.ToLower(host))
}

// WebLogByID scans the snapshots for a web log by its id.
func (t *Tenants) WebLogByID(id uuid.UUID) (*models.WebLog, bool) {
	var found *models.WebLog
	t.webLogs.Range(func(_ string, wl *models.WebLog) bool {
		if wl.ID == id {
			found = wl
			return false
		}
		return true
	})
	return found, found != nil
}

// WebLogs returns every cached web log.
func (t *Tenants) WebLogs() []*models.WebLog {
	var out []*models.WebLog
	t.webLogs.Range(func(_ string, wl *models.WebLog) bool {
		out = append(out, wl)
		return true
	})
	return out
}

// PutWebLog stores wl under its host, dropping any entry the same web log
// had under a previous host.
func (t *Tenants) PutWebLog(wl *models.WebLog) {
	host := wl.Host()
	t.webLogs.Range(func(h string, old *models.WebLog) bool {
		if old.ID == wl.ID && h != host {
			t.webLogs.Remove(h)
		}
		return true
	})
	t.webLogs.Replace(host, wl)
}

// RemoveWebLog drops every snapshot of a web log.
func (t *Tenants) RemoveWebLog(id uuid.UUID) {
	t.webLogs.Range(func(h string, wl *models.WebLog) bool {
		if wl.ID == id {
			t.webLogs.Remove(h)
		}
		return true
	})
	t.categories.Remove(id)
	t.pageLists.Remove(id)
}

// Categories returns the category hierarchy snapshot of a web log.
func (t *Tenants) Categories(webLogID uuid.UUID) ([]models.DisplayCategory, bool) {
	return t.categories.Get(webLogID)
}

// PutCategories replaces the category hierarchy snapshot of a web log.
func (t *Tenants) PutCategories(webLogID uuid.UUID, cats []models.DisplayCategory) {
	t.categories.Replace(webLogID, cats)
}

// PageList returns the pages shown in a web log's page list.
func (t *Tenants) PageList(webLogID uuid.UUID) ([]models.Page, bool) {
	return t.pageLists.Get(webLogID)
}

// PutPageList replaces the page list snapshot of a web log.
func (t *Tenants) PutPageList(webLogID uuid.UUID, pages []models.Page) {
	t.pageLists.Replace(webLogID, pages)
}

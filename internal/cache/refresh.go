// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

// WebLogSource loads web log configuration.
type WebLogSource interface {
	List(ctx context.Context) ([]models.WebLog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WebLog, error)
}

// CategorySource loads a web log's flat category list.
type CategorySource interface {
	FindAllForWebLog(ctx context.Context, webLogID uuid.UUID) ([]models.Category, error)
}

// PostRefSource loads the status and categories of every post of a web log.
type PostRefSource interface {
	FindCategoryRefs(ctx context.Context, webLogID uuid.UUID) ([]category.PostRef, error)
}

// PageListSource loads the pages flagged for the page list.
type PageListSource interface {
	FindPageList(ctx context.Context, webLogID uuid.UUID) ([]models.Page, error)
}

// FeedInvalidator drops cached feeds of a web log.
type FeedInvalidator interface {
	InvalidateWebLog(ctx context.Context, webLogID uuid.UUID)
}

// ThemeInvalidator drops the compiled templates of a theme.
type ThemeInvalidator interface {
	InvalidateTheme(themeID string)
}

// Refresher rebuilds tenant snapshots from storage. Each snapshot is
// computed in full before it replaces the previous one.
type Refresher struct {
	tenants    *Tenants
	webLogs    WebLogSource
	categories CategorySource
	postRefs   PostRefSource
	pages      PageListSource
	feeds      FeedInvalidator
	themes     ThemeInvalidator
}

// NewRefresher creates a Refresher. feeds may be nil when no feed cache is
// configured.
func NewRefresher(tenants *Tenants, webLogs WebLogSource, categories CategorySource, postRefs PostRefSource, pages PageListSource, feeds FeedInvalidator) *Refresher {
	return &Refresher{
		tenants:    tenants,
		webLogs:    webLogs,
		categories: categories,
		postRefs:   postRefs,
		pages:      pages,
		feeds:      feeds,
	}
}

// UseThemes makes the refresher drop a theme's compiled templates when a
// web log moves off it.
func (r *Refresher) UseThemes(themes ThemeInvalidator) {
	r.themes = themes
}

// LoadAll populates the snapshots of every web log. Called at startup.
func (r *Refresher) LoadAll(ctx context.Context) error {
	all, err := r.webLogs.List(ctx)
	if err != nil {
		return fmt.Errorf("load web logs: %w", err)
	}
	for i := range all {
		if err := r.load(ctx, &all[i]); err != nil {
			return err
		}
	}
	slog.Info("tenant caches loaded", "web_logs", len(all))
	return nil
}

// Refresh reloads one web log after it or its content changed. A web log
// that no longer exists is dropped from the caches.
func (r *Refresher) Refresh(ctx context.Context, webLogID uuid.UUID) error {
	wl, err := r.webLogs.FindByID(ctx, webLogID)
	if err != nil {
		return fmt.Errorf("refresh web log: %w", err)
	}
	if r.feeds != nil {
		r.feeds.InvalidateWebLog(ctx, webLogID)
	}
	if wl == nil {
		r.tenants.RemoveWebLog(webLogID)
		slog.Info("web log removed from cache", "web_log_id", webLogID)
		return nil
	}
	return r.load(ctx, wl)
}

// RefreshCategories rebuilds only the category snapshot, for category
// edits and post publishing.
func (r *Refresher) RefreshCategories(ctx context.Context, webLogID uuid.UUID) error {
	cats, err := r.buildCategories(ctx, webLogID)
	if err != nil {
		return err
	}
	r.tenants.PutCategories(webLogID, cats)
	if r.feeds != nil {
		r.feeds.InvalidateWebLog(ctx, webLogID)
	}
	return nil
}

func (r *Refresher) load(ctx context.Context, wl *models.WebLog) error {
	cats, err := r.buildCategories(ctx, wl.ID)
	if err != nil {
		return err
	}
	pages, err := r.pages.FindPageList(ctx, wl.ID)
	if err != nil {
		return fmt.Errorf("load page list of %s: %w", wl.Slug, err)
	}

	prev, cached := r.tenants.WebLogByID(wl.ID)

	r.tenants.PutCategories(wl.ID, cats)
	r.tenants.PutPageList(wl.ID, pages)
	r.tenants.PutWebLog(wl)

	if cached && prev.ThemeID != wl.ThemeID && r.themes != nil {
		r.themes.InvalidateTheme(prev.ThemeID)
		slog.Info("web log theme changed", "slug", wl.Slug, "from", prev.ThemeID, "to", wl.ThemeID)
	}
	slog.Debug("web log cached", "slug", wl.Slug, "host", wl.Host(), "categories", len(cats), "pages", len(pages))
	return nil
}

func (r *Refresher) buildCategories(ctx context.Context, webLogID uuid.UUID) ([]models.DisplayCategory, error) {
	cats, err := r.categories.FindAllForWebLog(ctx, webLogID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	refs, err := r.postRefs.FindCategoryRefs(ctx, webLogID)
	if err != nil {
		return nil, fmt.Errorf("load post categories: %w", err)
	}
	return category.Hierarchy(cats, refs), nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"myweblog/internal/models"
)

// WebLogStore reads and writes web log configuration.
type WebLogStore struct {
	db *sql.DB
}

// NewWebLogStore returns a new WebLogStore.
func NewWebLogStore(db *sql.DB) *WebLogStore {
	return &WebLogStore{db: db}
}

const webLogColumns = `id, name, slug, subtitle, default_page, posts_per_page, url_base,
	time_zone, theme_id, rss, created_at, updated_at`

func scanWebLog(scanner rowScanner) (*models.WebLog, error) {
	var w models.WebLog
	err := scanner.Scan(
		&w.ID, &w.Name, &w.Slug, &w.Subtitle, &w.DefaultPage, &w.PostsPerPage, &w.URLBase,
		&w.TimeZone, &w.ThemeID, fromJSON(&w.Rss), &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns every web log.
func (s *WebLogStore) List(ctx context.Context) ([]models.WebLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+webLogColumns+` FROM web_logs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list web logs: %w", err)
	}
	defer rows.Close()

	var items []models.WebLog
	for rows.Next() {
		w, err := scanWebLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan web log: %w", err)
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

// FindByID retrieves a web log by id. Returns nil if not found.
func (s *WebLogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.WebLog, error) {
	w, err := scanWebLog(s.db.QueryRowContext(ctx, `SELECT `+webLogColumns+` FROM web_logs WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find web log by id: %w", err)
	}
	return w, nil
}

// Create inserts a web log and returns it as stored.
func (s *WebLogStore) Create(ctx context.Context, w *models.WebLog) (*models.WebLog, error) {
	rss, err := toJSON(w.Rss)
	if err != nil {
		return nil, err
	}
	created, err := scanWebLog(s.db.QueryRowContext(ctx, `
		INSERT INTO web_logs (name, slug, subtitle, default_page, posts_per_page, url_base, time_zone, theme_id, rss)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+webLogColumns,
		w.Name, w.Slug, w.Subtitle, w.DefaultPage, w.PostsPerPage, w.URLBase, w.TimeZone, w.ThemeID, rss,
	))
	if err != nil {
		return nil, fmt.Errorf("create web log: %w", err)
	}
	return created, nil
}

// UpdateRss replaces the syndication options of a web log.
func (s *WebLogStore) UpdateRss(ctx context.Context, id uuid.UUID, rss models.RssOptions) error {
	doc, err := toJSON(rss)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE web_logs SET rss = $1, updated_at = NOW() WHERE id = $2`, doc, id); err != nil {
		return fmt.Errorf("update rss options: %w", err)
	}
	return nil
}

// Delete removes a web log and, by cascade, everything it owns.
func (s *WebLogStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM web_logs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete web log: %w", err)
	}
	return nil
}

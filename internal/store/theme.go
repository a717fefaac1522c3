// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"myweblog/internal/models"
)

// ThemeStore handles theme template storage.
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore with the given database connection.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

// FindTemplate returns a theme's template by name. Returns nil if the
// theme does not define it.
func (s *ThemeStore) FindTemplate(ctx context.Context, themeID, name string) (*models.ThemeTemplate, error) {
	t := &models.ThemeTemplate{}
	err := s.db.QueryRowContext(ctx, `
		SELECT theme_id, name, text, version, updated_at
		FROM theme_templates WHERE theme_id = $1 AND name = $2
	`, themeID, name).Scan(&t.ThemeID, &t.Name, &t.Text, &t.Version, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find theme template: %w", err)
	}
	return t, nil
}

// ListForTheme returns every template of a theme ordered by name.
func (s *ThemeStore) ListForTheme(ctx context.Context, themeID string) ([]models.ThemeTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT theme_id, name, text, version, updated_at
		FROM theme_templates WHERE theme_id = $1
		ORDER BY name
	`, themeID)
	if err != nil {
		return nil, fmt.Errorf("list theme templates: %w", err)
	}
	defer rows.Close()

	var templates []models.ThemeTemplate
	for rows.Next() {
		var t models.ThemeTemplate
		if err := rows.Scan(&t.ThemeID, &t.Name, &t.Text, &t.Version, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan theme template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Save creates a template or replaces its text, bumping the version so
// compiled copies keyed by the old version go stale.
func (s *ThemeStore) Save(ctx context.Context, t *models.ThemeTemplate) (*models.ThemeTemplate, error) {
	saved := &models.ThemeTemplate{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO theme_templates (theme_id, name, text) VALUES ($1, $2, $3)
		ON CONFLICT (theme_id, name) DO UPDATE
			SET text = EXCLUDED.text,
			    version = theme_templates.version + 1,
			    updated_at = NOW()
		RETURNING theme_id, name, text, version, updated_at
	`, t.ThemeID, t.Name, t.Text).Scan(&saved.ThemeID, &saved.Name, &saved.Text, &saved.Version, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save theme template: %w", err)
	}
	return saved, nil
}

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

// TagMapStore maps tags to URL-safe values.
type TagMapStore struct {
	db *sql.DB
}

// NewTagMapStore returns a new TagMapStore.
func NewTagMapStore(db *sql.DB) *TagMapStore {
	return &TagMapStore{db: db}
}

const tagMapColumns = `id, web_log_id, tag, url_value`

func scanTagMap(scanner rowScanner) (*models.TagMap, error) {
	var tm models.TagMap
	if err := scanner.Scan(&tm.ID, &tm.WebLogID, &tm.Tag, &tm.URLValue); err != nil {
		return nil, err
	}
	return &tm, nil
}

// FindByURLValue returns the tag map whose URL value is urlValue.
func (s *TagMapStore) FindByURLValue(ctx context.Context, webLogID uuid.UUID, urlValue string) (*models.TagMap, error) {
	tm, err := scanTagMap(s.db.QueryRowContext(ctx, `SELECT `+tagMapColumns+` FROM tag_maps
		WHERE web_log_id = $1 AND url_value = $2`, webLogID, urlValue))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag map by url value: %w", err)
	}
	return tm, nil
}

// FindByTags returns the tag maps of any of tags in one query.
func (s *TagMapStore) FindByTags(ctx context.Context, webLogID uuid.UUID, tags []string) ([]models.TagMap, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagMapColumns+` FROM tag_maps
		WHERE web_log_id = $1 AND tag = ANY($2::text[])`, webLogID, tags)
	if err != nil {
		return nil, fmt.Errorf("find tag maps: %w", err)
	}
	defer rows.Close()

	var maps []models.TagMap
	for rows.Next() {
		tm, err := scanTagMap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag map: %w", err)
		}
		maps = append(maps, *tm)
	}
	return maps, rows.Err()
}

// Save creates or replaces the URL value of a tag.
func (s *TagMapStore) Save(ctx context.Context, tm *models.TagMap) (*models.TagMap, error) {
	saved, err := scanTagMap(s.db.QueryRowContext(ctx, `
		INSERT INTO tag_maps (web_log_id, tag, url_value) VALUES ($1, $2, $3)
		ON CONFLICT (web_log_id, tag) DO UPDATE SET url_value = EXCLUDED.url_value
		RETURNING `+tagMapColumns,
		tm.WebLogID, tm.Tag, tm.URLValue))
	if err != nil {
		return nil, fmt.Errorf("save tag map: %w", err)
	}
	return saved, nil
}

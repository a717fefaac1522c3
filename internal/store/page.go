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

// PageStore reads and writes pages.
type PageStore struct {
	db *sql.DB
}

// NewPageStore returns a new PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, web_log_id, author_id, title, permalink, prior_permalinks,
	published_on, updated_on, is_in_page_list, template, text, metadata, revisions`

func scanPage(scanner rowScanner) (*models.Page, error) {
	var p models.Page
	err := scanner.Scan(
		&p.ID, &p.WebLogID, &p.AuthorID, &p.Title, &p.Permalink,
		fromJSON(&p.PriorPermalinks), &p.PublishedOn, &p.UpdatedOn,
		&p.IsInPageList, &p.Template, &p.Text,
		fromJSON(&p.Metadata), fromJSON(&p.Revisions),
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PageStore) findOne(ctx context.Context, what, q string, args ...any) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, q, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return p, nil
}

// FindByID retrieves a page of a web log by id.
func (s *PageStore) FindByID(ctx context.Context, webLogID, id uuid.UUID) (*models.Page, error) {
	return s.findOne(ctx, "find page by id",
		`SELECT `+pageColumns+` FROM pages WHERE web_log_id = $1 AND id = $2`, webLogID, id)
}

// FindByPermalink retrieves the page at permalink.
func (s *PageStore) FindByPermalink(ctx context.Context, webLogID uuid.UUID, permalink models.Permalink) (*models.Page, error) {
	return s.findOne(ctx, "find page by permalink",
		`SELECT `+pageColumns+` FROM pages WHERE web_log_id = $1 AND permalink = $2`, webLogID, string(permalink))
}

// FindCurrentPermalink returns the current permalink of the page that
// formerly lived at any of permalinks.
func (s *PageStore) FindCurrentPermalink(ctx context.Context, webLogID uuid.UUID, permalinks []models.Permalink) (models.Permalink, bool, error) {
	var current string
	err := s.db.QueryRowContext(ctx, `
		SELECT permalink FROM pages
		WHERE web_log_id = $1 AND prior_permalinks ?| $2::text[]
		LIMIT 1
	`, webLogID, permalinkStrings(permalinks)).Scan(&current)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find prior page permalink: %w", err)
	}
	return models.Permalink(current), true, nil
}

// FindPageList returns the pages shown in the web log's navigation,
// ordered by title.
func (s *PageStore) FindPageList(ctx context.Context, webLogID uuid.UUID) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages
		WHERE web_log_id = $1 AND is_in_page_list = TRUE
		ORDER BY LOWER(title)`, webLogID)
	if err != nil {
		return nil, fmt.Errorf("find page list: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		// The list only drives navigation.
		p.Text = ""
		p.Revisions = nil
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// Create inserts a page and returns it as stored.
func (s *PageStore) Create(ctx context.Context, p *models.Page) (*models.Page, error) {
	prior, err := jsonList(p.PriorPermalinks)
	if err != nil {
		return nil, err
	}
	meta, err := jsonList(p.Metadata)
	if err != nil {
		return nil, err
	}
	revs, err := jsonList(p.Revisions)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO pages (web_log_id, author_id, title, permalink, prior_permalinks,
		                   is_in_page_list, template, text, metadata, revisions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+pageColumns,
		p.WebLogID, p.AuthorID, p.Title, string(p.Permalink), prior,
		p.IsInPageList, p.Template, p.Text, meta, revs,
	)
	created, err := scanPage(row)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return created, nil
}

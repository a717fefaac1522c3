// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

// PostStore reads and writes posts.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, web_log_id, author_id, status, title, permalink, prior_permalinks,
	published_on, updated_on, text, category_ids, tags, episode, metadata, revisions`

// scanPost scans a row into a Post struct.
func scanPost(scanner rowScanner) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.WebLogID, &p.AuthorID, &p.Status, &p.Title, &p.Permalink,
		fromJSON(&p.PriorPermalinks), &p.PublishedOn, &p.UpdatedOn, &p.Text,
		fromJSON(&p.CategoryIDs), fromJSON(&p.Tags), fromJSON(&p.Episode),
		fromJSON(&p.Metadata), fromJSON(&p.Revisions),
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) query(ctx context.Context, what, q string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByPermalink returns the published post at permalink.
func (s *PostStore) FindByPermalink(ctx context.Context, webLogID uuid.UUID, permalink models.Permalink) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts
		WHERE web_log_id = $1 AND permalink = $2 AND status = 'published'`,
		webLogID, string(permalink))
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by permalink: %w", err)
	}
	return p, nil
}

// FindCurrentPermalink returns the current permalink of the published post
// that formerly lived at any of permalinks.
func (s *PostStore) FindCurrentPermalink(ctx context.Context, webLogID uuid.UUID, permalinks []models.Permalink) (models.Permalink, bool, error) {
	var current string
	err := s.db.QueryRowContext(ctx, `
		SELECT permalink FROM posts
		WHERE web_log_id = $1 AND status = 'published' AND prior_permalinks ?| $2::text[]
		LIMIT 1
	`, webLogID, permalinkStrings(permalinks)).Scan(&current)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find prior post permalink: %w", err)
	}
	return models.Permalink(current), true, nil
}

// FindPageOfPublishedPosts returns page pageNbr (1-based) of published
// posts, newest first, fetching one extra post to signal a next page.
func (s *PostStore) FindPageOfPublishedPosts(ctx context.Context, webLogID uuid.UUID, pageNbr, pageSize int) ([]models.Post, error) {
	return s.query(ctx, "find published posts", `SELECT `+postColumns+` FROM posts
		WHERE web_log_id = $1 AND status = 'published' AND published_on IS NOT NULL
		ORDER BY published_on DESC
		LIMIT $2 OFFSET $3`,
		webLogID, pageSize+1, pageOffset(pageNbr, pageSize))
}

// FindPageOfCategorizedPosts is FindPageOfPublishedPosts restricted to posts
// filed under any of categoryIDs.
func (s *PostStore) FindPageOfCategorizedPosts(ctx context.Context, webLogID uuid.UUID, categoryIDs []uuid.UUID, pageNbr, pageSize int) ([]models.Post, error) {
	return s.query(ctx, "find categorized posts", `SELECT `+postColumns+` FROM posts
		WHERE web_log_id = $1 AND status = 'published' AND published_on IS NOT NULL
		  AND category_ids ?| $2::text[]
		ORDER BY published_on DESC
		LIMIT $3 OFFSET $4`,
		webLogID, uuidStrings(categoryIDs), pageSize+1, pageOffset(pageNbr, pageSize))
}

// FindPageOfTaggedPosts is FindPageOfPublishedPosts restricted to posts
// carrying tag exactly.
func (s *PostStore) FindPageOfTaggedPosts(ctx context.Context, webLogID uuid.UUID, tag string, pageNbr, pageSize int) ([]models.Post, error) {
	return s.query(ctx, "find tagged posts", `SELECT `+postColumns+` FROM posts
		WHERE web_log_id = $1 AND status = 'published' AND published_on IS NOT NULL
		  AND tags ? $2
		ORDER BY published_on DESC
		LIMIT $3 OFFSET $4`,
		webLogID, tag, pageSize+1, pageOffset(pageNbr, pageSize))
}

// FindCategoryRefs returns the status and categories of every post of a
// web log, for category post counts.
func (s *PostStore) FindCategoryRefs(ctx context.Context, webLogID uuid.UUID) ([]category.PostRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, category_ids FROM posts WHERE web_log_id = $1`, webLogID)
	if err != nil {
		return nil, fmt.Errorf("find post categories: %w", err)
	}
	defer rows.Close()

	var refs []category.PostRef
	for rows.Next() {
		var r category.PostRef
		if err := rows.Scan(&r.Status, fromJSON(&r.CategoryIDs)); err != nil {
			return nil, fmt.Errorf("scan post categories: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// Create inserts a post and returns it as stored.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	prior, err := jsonList(p.PriorPermalinks)
	if err != nil {
		return nil, err
	}
	cats, err := jsonList(p.CategoryIDs)
	if err != nil {
		return nil, err
	}
	tags, err := jsonList(p.Tags)
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
	var episode *string
	if p.Episode != nil {
		e, err := toJSON(p.Episode)
		if err != nil {
			return nil, err
		}
		episode = &e
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (web_log_id, author_id, status, title, permalink, prior_permalinks,
		                   published_on, text, category_ids, tags, episode, metadata, revisions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+postColumns,
		p.WebLogID, p.AuthorID, string(p.Status), p.Title, string(p.Permalink), prior,
		p.PublishedOn, p.Text, cats, tags, episode, meta, revs,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

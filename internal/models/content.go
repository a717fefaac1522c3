// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// MetaItem is a free-form name/value pair attached to a post or page.
type MetaItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Revision is a snapshot of a post or page's source text.
type Revision struct {
	AsOf time.Time `json:"asOf"`
	Text string    `json:"text"`
}

// Post is a dated entry in a web log. PriorPermalinks lists previous
// permalinks, most recent first; the admin layer prepends to it whenever
// the permalink changes.
type Post struct {
	ID              uuid.UUID   `json:"id"`
	WebLogID        uuid.UUID   `json:"web_log_id"`
	AuthorID        uuid.UUID   `json:"author_id"`
	Status          PostStatus  `json:"status"`
	Title           string      `json:"title"`
	Permalink       Permalink   `json:"permalink"`
	PriorPermalinks []Permalink `json:"prior_permalinks"`
	PublishedOn     *time.Time  `json:"published_on,omitempty"`
	UpdatedOn       time.Time   `json:"updated_on"`
	Text            string      `json:"text"`
	CategoryIDs     []uuid.UUID `json:"category_ids"`
	Tags            []string    `json:"tags"`
	Episode         *Episode    `json:"episode,omitempty"`
	Metadata        []MetaItem  `json:"metadata"`
	Revisions       []Revision  `json:"revisions,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Page is an undated piece of content. Pages share the permalink history
// rules of posts.
type Page struct {
	ID              uuid.UUID   `json:"id"`
	WebLogID        uuid.UUID   `json:"web_log_id"`
	AuthorID        uuid.UUID   `json:"author_id"`
	Title           string      `json:"title"`
	Permalink       Permalink   `json:"permalink"`
	PriorPermalinks []Permalink `json:"prior_permalinks"`
	PublishedOn     time.Time   `json:"published_on"`
	UpdatedOn       time.Time   `json:"updated_on"`
	IsInPageList    bool        `json:"is_in_page_list"`
	Template        *string     `json:"template,omitempty"`
	Text            string      `json:"text"`
	Metadata        []MetaItem  `json:"metadata"`
	Revisions       []Revision  `json:"revisions,omitempty"`
}

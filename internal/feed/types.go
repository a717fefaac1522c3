// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feed classifies feed requests, selects the posts a feed carries,
// and synthesizes RSS 2.0 documents with the content, iTunes, Podcast
// Index, Simple Chapters and RawVoice extensions.
package feed

import (
	"errors"

	"github.com/google/uuid"

	"myweblog/internal/models"
)

// ErrNoPosts is returned by Build when a feed has nothing to carry. The
// HTTP layer answers it with a 404.
var ErrNoPosts = errors.New("feed has no posts")

// FeedType is one of StandardFeed, CategoryFeed, TagFeed or CustomFeed.
// FeedPath is the request path (with its leading slash) that matched.
type FeedType interface {
	Path() string
	isFeedType()
}

// StandardFeed is the web log's main feed of recent posts.
type StandardFeed struct {
	FeedPath string
}

// CategoryFeed carries posts in a category and its descendants.
type CategoryFeed struct {
	CategoryID uuid.UUID
	FeedPath   string
}

// TagFeed carries posts with a tag.
type TagFeed struct {
	Tag      string
	FeedPath string
}

// CustomFeed is an admin-configured feed, possibly a podcast.
type CustomFeed struct {
	Feed     models.CustomFeed
	FeedPath string
}

func (f StandardFeed) Path() string { return f.FeedPath }
func (f CategoryFeed) Path() string { return f.FeedPath }
func (f TagFeed) Path() string      { return f.FeedPath }
func (f CustomFeed) Path() string   { return f.FeedPath }

func (StandardFeed) isFeedType() {}
func (CategoryFeed) isFeedType() {}
func (TagFeed) isFeedType()      {}
func (CustomFeed) isFeedType()   {}

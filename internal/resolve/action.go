// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolve maps a requested path within a web log to the action
// that should answer it.
package resolve

import (
	"myweblog/internal/feed"
	"myweblog/internal/models"
)

// Action is the outcome of resolving a path. It is one of ServePost,
// ServePage, ServeFeed, Redirect or NotFound.
type Action interface {
	isAction()
}

// ServePost renders a single post.
type ServePost struct {
	Post *models.Post
}

// ServePage renders a single page.
type ServePage struct {
	Page *models.Page
}

// ServeFeed synthesizes a feed of up to ItemCount posts.
type ServeFeed struct {
	Feed      feed.FeedType
	ItemCount int
}

// Redirect sends the client to the canonical permalink. To is relative to
// the web log root; an empty To means the root itself.
type Redirect struct {
	To models.Permalink
}

// NotFound means no strategy matched.
type NotFound struct{}

func (ServePost) isAction() {}
func (ServePage) isAction() {}
func (ServeFeed) isAction() {}
func (Redirect) isAction()  {}
func (NotFound) isAction()  {}

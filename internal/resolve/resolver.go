// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"myweblog/internal/feed"
	"myweblog/internal/models"
)

// PostFinder looks up published posts by permalink.
type PostFinder interface {
	// FindByPermalink returns the published post whose current permalink
	// is permalink, or nil if there is none.
	FindByPermalink(ctx context.Context, webLogID uuid.UUID, permalink models.Permalink) (*models.Post, error)
	// FindCurrentPermalink returns the current permalink of the published
	// post whose prior permalinks include any of permalinks.
	FindCurrentPermalink(ctx context.Context, webLogID uuid.UUID, permalinks []models.Permalink) (models.Permalink, bool, error)
}

// PageFinder looks up pages by permalink.
type PageFinder interface {
	FindByPermalink(ctx context.Context, webLogID uuid.UUID, permalink models.Permalink) (*models.Page, error)
	FindCurrentPermalink(ctx context.Context, webLogID uuid.UUID, permalinks []models.Permalink) (models.Permalink, bool, error)
}

// Classifier recognizes feed paths.
type Classifier interface {
	Classify(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, path string) (feed.FeedType, int, bool, error)
}

// Resolver runs the ordered lookup chain for a requested path.
type Resolver struct {
	posts PostFinder
	pages PageFinder
	feeds Classifier
}

// New creates a Resolver.
func New(posts PostFinder, pages PageFinder, feeds Classifier) *Resolver {
	return &Resolver{posts: posts, pages: pages, feeds: feeds}
}

// Resolve determines what should answer path for webLog. path is relative
// to the web log root and starts with "/"; the empty string stands for the
// root without its slash. cats is the web log's category snapshot.
//
// Strategies run in order and the first match wins: exact post, exact
// page, feed route, trailing-slash variant of a post or page (redirect),
// then prior permalinks of posts and pages (redirect). Storage errors
// abort the chain.
func (r *Resolver) Resolve(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, path string) (Action, error) {
	if path == "" {
		return Redirect{To: ""}, nil
	}

	permalink := models.Permalink(strings.TrimPrefix(path, "/"))
	alt := toggleSlash(permalink)

	post, err := r.posts.FindByPermalink(ctx, webLog.ID, permalink)
	if err != nil {
		return nil, fmt.Errorf("resolve post: %w", err)
	}
	if post != nil {
		return ServePost{Post: post}, nil
	}

	page, err := r.pages.FindByPermalink(ctx, webLog.ID, permalink)
	if err != nil {
		return nil, fmt.Errorf("resolve page: %w", err)
	}
	if page != nil {
		return ServePage{Page: page}, nil
	}

	ft, count, ok, err := r.feeds.Classify(ctx, webLog, cats, path)
	if err != nil {
		return nil, fmt.Errorf("resolve feed: %w", err)
	}
	if ok {
		return ServeFeed{Feed: ft, ItemCount: count}, nil
	}

	if alt != "" {
		post, err = r.posts.FindByPermalink(ctx, webLog.ID, alt)
		if err != nil {
			return nil, fmt.Errorf("resolve post: %w", err)
		}
		if post != nil {
			return Redirect{To: post.Permalink}, nil
		}

		page, err = r.pages.FindByPermalink(ctx, webLog.ID, alt)
		if err != nil {
			return nil, fmt.Errorf("resolve page: %w", err)
		}
		if page != nil {
			return Redirect{To: page.Permalink}, nil
		}
	}

	candidates := []models.Permalink{permalink}
	if alt != "" {
		candidates = append(candidates, alt)
	}

	current, ok, err := r.posts.FindCurrentPermalink(ctx, webLog.ID, candidates)
	if err != nil {
		return nil, fmt.Errorf("resolve prior post permalink: %w", err)
	}
	if ok {
		slog.Debug("redirecting prior post permalink", "from", permalink, "to", current)
		return Redirect{To: current}, nil
	}

	current, ok, err = r.pages.FindCurrentPermalink(ctx, webLog.ID, candidates)
	if err != nil {
		return nil, fmt.Errorf("resolve prior page permalink: %w", err)
	}
	if ok {
		slog.Debug("redirecting prior page permalink", "from", permalink, "to", current)
		return Redirect{To: current}, nil
	}

	return NotFound{}, nil
}

// toggleSlash adds a trailing slash to p, or removes one. The root
// permalink has no alternate.
func toggleSlash(p models.Permalink) models.Permalink {
	s := string(p)
	switch {
	case s == "" || s == "/":
		return ""
	case strings.HasSuffix(s, "/"):
		return models.Permalink(strings.TrimSuffix(s, "/"))
	default:
		return models.Permalink(s + "/")
	}
}

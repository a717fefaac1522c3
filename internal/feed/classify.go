// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

// TagMapFinder recovers a canonical tag from its URL value.
type TagMapFinder interface {
	FindByURLValue(ctx context.Context, webLogID uuid.UUID, urlValue string) (*models.TagMap, error)
}

// Classifier maps request paths to feed types. Its result depends only on
// the web log configuration, the category snapshot, the tag maps and the
// path.
type Classifier struct {
	tagMaps TagMapFinder
}

// NewClassifier creates a Classifier that uses tagMaps for tag feeds.
func NewClassifier(tagMaps TagMapFinder) *Classifier {
	return &Classifier{tagMaps: tagMaps}
}

// Classify returns the feed type and item count for path, which must
// carry its leading slash. ok is false when path is not a feed.
//
// Category and tag feeds are matched only under /category/ and /tag/.
// Custom feeds are matched by path suffix in configuration order; the
// first match wins even when a later feed's path is longer.
func (c *Classifier) Classify(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, path string) (FeedType, int, bool, error) {
	rss := webLog.Rss
	feedName := rss.FeedName
	feedSuffix := "/" + feedName

	if rss.IsFeedEnabled && feedName != "" && path == feedSuffix {
		return StandardFeed{FeedPath: path}, webLog.FeedItemCount(), true, nil
	}

	if rss.IsCategoryEnabled && feedName != "" &&
		strings.HasPrefix(path, "/category/") && strings.HasSuffix(path, feedSuffix) {
		slug := strings.TrimSuffix(strings.TrimPrefix(path, "/category/"), feedSuffix)
		if cat, ok := category.FindBySlug(cats, slug); ok {
			return CategoryFeed{CategoryID: cat.ID, FeedPath: path}, webLog.FeedItemCount(), true, nil
		}
		slog.Debug("category feed requested for unknown category", "slug", slug)
	}

	if rss.IsTagEnabled && feedName != "" &&
		strings.HasPrefix(path, "/tag/") && strings.HasSuffix(path, feedSuffix) {
		urlValue := strings.TrimSuffix(strings.TrimPrefix(path, "/tag/"), feedSuffix)
		if urlValue != "" {
			tag, err := c.canonicalTag(ctx, webLog.ID, urlValue)
			if err != nil {
				return nil, 0, false, err
			}
			return TagFeed{Tag: tag, FeedPath: path}, webLog.FeedItemCount(), true, nil
		}
	}

	for _, cf := range rss.CustomFeeds {
		if cf.Path == "" || !strings.HasSuffix(path, "/"+strings.TrimPrefix(string(cf.Path), "/")) {
			continue
		}
		count := webLog.FeedItemCount()
		if cf.Podcast != nil && cf.Podcast.ItemsInFeed > 0 {
			count = cf.Podcast.ItemsInFeed
		}
		return CustomFeed{Feed: cf, FeedPath: path}, count, true, nil
	}

	return nil, 0, false, nil
}

// canonicalTag returns the tag a URL value stands for: the tag map entry
// if one exists, otherwise the URL-decoded value.
func (c *Classifier) canonicalTag(ctx context.Context, webLogID uuid.UUID, urlValue string) (string, error) {
	tm, err := c.tagMaps.FindByURLValue(ctx, webLogID, urlValue)
	if err != nil {
		return "", fmt.Errorf("find tag map: %w", err)
	}
	if tm != nil {
		return tm.Tag, nil
	}
	if tag, err := url.QueryUnescape(urlValue); err == nil {
		return tag, nil
	}
	return urlValue, nil
}

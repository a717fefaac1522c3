// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

// PostSource fetches pages of published posts, newest first. Each call
// returns up to pageSize+1 posts so callers can tell whether another page
// exists.
type PostSource interface {
	FindPageOfPublishedPosts(ctx context.Context, webLogID uuid.UUID, pageNbr, pageSize int) ([]models.Post, error)
	FindPageOfCategorizedPosts(ctx context.Context, webLogID uuid.UUID, categoryIDs []uuid.UUID, pageNbr, pageSize int) ([]models.Post, error)
	FindPageOfTaggedPosts(ctx context.Context, webLogID uuid.UUID, tag string, pageNbr, pageSize int) ([]models.Post, error)
}

// SelectPosts fetches the posts for a classified feed, capped at itemCount.
// Category feeds include posts filed under any descendant category.
func SelectPosts(ctx context.Context, src PostSource, webLog *models.WebLog, cats []models.DisplayCategory, ft FeedType, itemCount int) ([]models.Post, error) {
	var (
		posts []models.Post
		err   error
	)

	switch f := ft.(type) {
	case StandardFeed:
		posts, err = src.FindPageOfPublishedPosts(ctx, webLog.ID, 1, itemCount)
	case CategoryFeed:
		posts, err = src.FindPageOfCategorizedPosts(ctx, webLog.ID, category.WithDescendants(cats, f.CategoryID), 1, itemCount)
	case TagFeed:
		posts, err = src.FindPageOfTaggedPosts(ctx, webLog.ID, f.Tag, 1, itemCount)
	case CustomFeed:
		switch f.Feed.Source.Kind {
		case models.SourceCategory:
			posts, err = src.FindPageOfCategorizedPosts(ctx, webLog.ID, category.WithDescendants(cats, f.Feed.Source.CategoryID), 1, itemCount)
		case models.SourceTag:
			posts, err = src.FindPageOfTaggedPosts(ctx, webLog.ID, f.Feed.Source.Tag, 1, itemCount)
		default:
			return nil, fmt.Errorf("custom feed %s: unknown source %q", f.Feed.ID, f.Feed.Source.Kind)
		}
	default:
		return nil, fmt.Errorf("unknown feed type %T", ft)
	}
	if err != nil {
		return nil, fmt.Errorf("select feed posts: %w", err)
	}

	if len(posts) > itemCount {
		posts = posts[:itemCount]
	}
	return posts, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

type fakeTagMaps struct {
	maps []models.TagMap
	err  error
}

func (f *fakeTagMaps) FindByURLValue(_ context.Context, webLogID uuid.UUID, urlValue string) (*models.TagMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, tm := range f.maps {
		if tm.WebLogID == webLogID && tm.URLValue == urlValue {
			return &tm, nil
		}
	}
	return nil, nil
}

func (f *fakeTagMaps) FindByTags(_ context.Context, webLogID uuid.UUID, tags []string) ([]models.TagMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.TagMap
	for _, tm := range f.maps {
		if tm.WebLogID == webLogID && slices.Contains(tags, tm.Tag) {
			out = append(out, tm)
		}
	}
	return out, nil
}

type fakeAuthors struct {
	names map[uuid.UUID]string
	calls int
}

func (f *fakeAuthors) FindDisplayNames(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.calls++
	out := make(map[uuid.UUID]string)
	for _, id := range ids {
		if n, ok := f.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

// fakePosts filters an in-memory post list the way the Postgres store does.
type fakePosts struct {
	posts    []models.Post
	lastSize int
	err      error
}

func (f *fakePosts) page(match func(models.Post) bool, pageNbr, pageSize int) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastSize = pageSize
	var out []models.Post
	for _, p := range f.posts {
		if p.IsPublished() && p.PublishedOn != nil && match(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Post) int { return b.PublishedOn.Compare(*a.PublishedOn) })
	start := (pageNbr - 1) * pageSize
	if start >= len(out) {
		return nil, nil
	}
	end := min(start+pageSize+1, len(out))
	return out[start:end], nil
}

func (f *fakePosts) FindPageOfPublishedPosts(_ context.Context, _ uuid.UUID, pageNbr, pageSize int) ([]models.Post, error) {
	return f.page(func(models.Post) bool { return true }, pageNbr, pageSize)
}

func (f *fakePosts) FindPageOfCategorizedPosts(_ context.Context, _ uuid.UUID, ids []uuid.UUID, pageNbr, pageSize int) ([]models.Post, error) {
	return f.page(func(p models.Post) bool {
		return slices.ContainsFunc(p.CategoryIDs, func(id uuid.UUID) bool { return slices.Contains(ids, id) })
	}, pageNbr, pageSize)
}

func (f *fakePosts) FindPageOfTaggedPosts(_ context.Context, _ uuid.UUID, tag string, pageNbr, pageSize int) ([]models.Post, error) {
	return f.page(func(p models.Post) bool { return slices.Contains(p.Tags, tag) }, pageNbr, pageSize)
}

var errStorage = errors.New("storage unavailable")

func ptr[T any](v T) *T { return &v }

func testWebLog() *models.WebLog {
	return &models.WebLog{
		ID:           uuid.New(),
		Name:         "Test Blog",
		Subtitle:     ptr("Things <em>worth</em> reading"),
		PostsPerPage: 10,
		URLBase:      "https://example.com",
		Rss: models.RssOptions{
			IsFeedEnabled:     true,
			FeedName:          "feed.xml",
			IsCategoryEnabled: true,
			IsTagEnabled:      true,
		},
	}
}

// testCategories returns Tech > Rust plus Music as a snapshot.
func testCategories() (tech, rust, music models.Category, snapshot []models.DisplayCategory) {
	tech = models.Category{ID: uuid.New(), Name: "Tech", Slug: "tech", Description: ptr("All things tech")}
	rust = models.Category{ID: uuid.New(), Name: "Rust", Slug: "rust", ParentID: &tech.ID}
	music = models.Category{ID: uuid.New(), Name: "Music", Slug: "music"}
	snapshot = category.Hierarchy([]models.Category{tech, rust, music}, nil)
	return
}

func publishedPost(webLogID uuid.UUID, permalink string, at time.Time) models.Post {
	return models.Post{
		ID:          uuid.New(),
		WebLogID:    webLogID,
		AuthorID:    uuid.New(),
		Status:      models.PostStatusPublished,
		Title:       "Post " + permalink,
		Permalink:   models.Permalink(permalink),
		PublishedOn: &at,
		UpdatedOn:   at,
		Text:        "<p>Hello from " + permalink + "</p>",
	}
}

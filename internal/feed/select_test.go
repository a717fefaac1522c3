// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"myweblog/internal/models"
)

func TestSelectPostsStandard(t *testing.T) {
	wl := testWebLog()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakePosts{}
	for i := range 5 {
		src.posts = append(src.posts, publishedPost(wl.ID, "p"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour)))
	}
	draft := publishedPost(wl.ID, "draft", base.Add(10*time.Hour))
	draft.Status = models.PostStatusDraft
	src.posts = append(src.posts, draft)

	posts, err := SelectPosts(context.Background(), src, wl, nil, StandardFeed{FeedPath: "/feed.xml"}, 3)
	if err != nil {
		t.Fatalf("SelectPosts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}
	if src.lastSize != 3 {
		t.Errorf("page size: got %d, want 3", src.lastSize)
	}
	if posts[0].Permalink != "pe" {
		t.Errorf("newest first: got %q", posts[0].Permalink)
	}
}

func TestSelectPostsCategoryIncludesDescendants(t *testing.T) {
	wl := testWebLog()
	tech, rust, music, cats := testCategories()
	now := time.Now()

	inRust := publishedPost(wl.ID, "rust", now)
	inRust.CategoryIDs = []uuid.UUID{rust.ID}
	inTech := publishedPost(wl.ID, "tech", now.Add(-time.Hour))
	inTech.CategoryIDs = []uuid.UUID{tech.ID}
	inMusic := publishedPost(wl.ID, "music", now.Add(-2*time.Hour))
	inMusic.CategoryIDs = []uuid.UUID{music.ID}
	src := &fakePosts{posts: []models.Post{inRust, inTech, inMusic}}

	posts, err := SelectPosts(context.Background(), src, wl, cats, CategoryFeed{CategoryID: tech.ID}, 10)
	if err != nil {
		t.Fatalf("SelectPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}

	posts, _ = SelectPosts(context.Background(), src, wl, cats, CategoryFeed{CategoryID: rust.ID}, 10)
	if len(posts) != 1 || posts[0].Permalink != "rust" {
		t.Errorf("rust feed: got %v", posts)
	}

	custom := CustomFeed{Feed: models.CustomFeed{Source: models.CustomFeedSource{Kind: models.SourceCategory, CategoryID: tech.ID}}}
	posts, _ = SelectPosts(context.Background(), src, wl, cats, custom, 10)
	if len(posts) != 2 {
		t.Errorf("custom category feed: got %d posts, want 2", len(posts))
	}
}

func TestSelectPostsTag(t *testing.T) {
	wl := testWebLog()
	now := time.Now()
	fs := publishedPost(wl.ID, "fs", now)
	fs.Tags = []string{"F#", "dotnet"}
	other := publishedPost(wl.ID, "other", now)
	other.Tags = []string{"f#"}
	src := &fakePosts{posts: []models.Post{fs, other}}

	posts, err := SelectPosts(context.Background(), src, wl, nil, TagFeed{Tag: "F#"}, 10)
	if err != nil {
		t.Fatalf("SelectPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Permalink != "fs" {
		t.Errorf("got %v", posts)
	}

	custom := CustomFeed{Feed: models.CustomFeed{Source: models.CustomFeedSource{Kind: models.SourceTag, Tag: "dotnet"}}}
	posts, _ = SelectPosts(context.Background(), src, wl, nil, custom, 10)
	if len(posts) != 1 {
		t.Errorf("custom tag feed: got %d posts", len(posts))
	}
}

func TestSelectPostsErrors(t *testing.T) {
	wl := testWebLog()

	_, err := SelectPosts(context.Background(), &fakePosts{err: errStorage}, wl, nil, StandardFeed{}, 10)
	if !errors.Is(err, errStorage) {
		t.Errorf("expected storage error, got %v", err)
	}

	bad := CustomFeed{Feed: models.CustomFeed{Source: models.CustomFeedSource{Kind: "author"}}}
	if _, err := SelectPosts(context.Background(), &fakePosts{}, wl, nil, bad, 10); err == nil {
		t.Error("expected error for unknown custom feed source")
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSeed(t *testing.T) {
	f, err := LoadSeed(filepath.Join("testdata", "seed.yaml"))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(f.WebLogs) != 1 {
		t.Fatalf("web logs: got %d, want 1", len(f.WebLogs))
	}
	wl := f.WebLogs[0]
	if len(wl.Posts) != 3 || len(wl.Categories) != 3 || len(wl.Pages) != 1 {
		t.Errorf("unexpected counts: %d posts, %d categories, %d pages", len(wl.Posts), len(wl.Categories), len(wl.Pages))
	}
	if wl.Posts[0].PublishedOn == nil || wl.Posts[0].PublishedOn.Year() != 2021 {
		t.Errorf("publishedOn not parsed: %v", wl.Posts[0].PublishedOn)
	}
	if wl.Posts[1].Markdown != "Our **first** episode.\n" {
		t.Errorf("markdown: %q", wl.Posts[1].Markdown)
	}
	if wl.Posts[1].Episode["media"] != "episodes/ep1.mp3" {
		t.Errorf("episode: %v", wl.Posts[1].Episode)
	}
}

func TestLoadSeedMissingFile(t *testing.T) {
	if _, err := LoadSeed(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveCustomFeeds(t *testing.T) {
	rss := map[string]any{
		"customFeeds": []any{
			map[string]any{
				"path":   "podcast.xml",
				"source": map[string]any{"kind": "category", "categorySlug": "podcast"},
			},
		},
	}
	if err := resolveCustomFeeds(rss, map[string]string{"podcast": "cat-id"}); err != nil {
		t.Fatalf("resolveCustomFeeds: %v", err)
	}
	feed := rss["customFeeds"].([]any)[0].(map[string]any)
	source := feed["source"].(map[string]any)
	if source["categoryId"] != "cat-id" {
		t.Errorf("categoryId: %v", source["categoryId"])
	}
	if _, ok := source["categorySlug"]; ok {
		t.Error("categorySlug should be removed")
	}
	if feed["id"] == nil {
		t.Error("custom feed id should be assigned")
	}

	if err := resolveCustomFeeds(rss, nil); err != nil {
		t.Errorf("already resolved feeds should pass: %v", err)
	}

	bad := map[string]any{"customFeeds": []any{map[string]any{
		"source": map[string]any{"categorySlug": "missing"},
	}}}
	if err := resolveCustomFeeds(bad, map[string]string{}); err == nil {
		t.Error("expected error for unknown category slug")
	}
}

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes to an empty database, so a second call must be a
	// no-op. Other test packages may share the database, so neither call
	// is guaranteed to insert anything.
	path := filepath.Join("testdata", "seed.yaml")
	if err := Seed(db, path); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, path); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM web_logs").Scan(&count); err != nil {
		t.Fatalf("count web logs: %v", err)
	}
	if count < 1 {
		t.Errorf("expected at least 1 web log, got %d", count)
	}
}

func TestSeedEmptyPath(t *testing.T) {
	if err := Seed(nil, ""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestContentText(t *testing.T) {
	text, revisions, err := contentText("<p>plain</p>", "")
	if err != nil {
		t.Fatalf("contentText: %v", err)
	}
	if text != "<p>plain</p>" {
		t.Errorf("html text: got %q", text)
	}
	if !strings.Contains(revisions, `"text":"HTML: \u003cp\u003eplain\u003c/p\u003e"`) {
		t.Errorf("html revision: got %s", revisions)
	}

	text, revisions, err = contentText("ignored", "Our **first** episode.")
	if err != nil {
		t.Fatalf("contentText: %v", err)
	}
	if strings.TrimSpace(text) != "<p>Our <strong>first</strong> episode.</p>" {
		t.Errorf("markdown text: got %q", text)
	}
	if !strings.Contains(revisions, `"text":"Markdown: Our **first** episode."`) {
		t.Errorf("markdown revision: got %s", revisions)
	}
}

func TestSeedTags(t *testing.T) {
	mapped := map[string]bool{"F#": true}
	got := seedTags([]string{"F#", "Go", "go", "Web Dev"}, mapped)
	want := []string{"F#", "go", "web dev"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: got %q, want %q", i, got[i], want[i])
		}
	}

	if got := seedTags(nil, mapped); got == nil || len(got) != 0 {
		t.Errorf("no tags: got %#v, want empty list", got)
	}
}

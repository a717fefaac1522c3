// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"myweblog/internal/markdown"
	"myweblog/internal/models"
	"myweblog/internal/slug"
)

// SeedFile is the YAML layout of a development seed.
type SeedFile struct {
	WebLogs   []SeedWebLog   `yaml:"webLogs"`
	Templates []SeedTemplate `yaml:"templates"`
}

// SeedWebLog describes one web log and everything it owns. Categories,
// posts and pages refer to each other by slug, author email and parent
// slug rather than by id.
type SeedWebLog struct {
	Name         string         `yaml:"name"`
	Slug         string         `yaml:"slug"`
	Subtitle     *string        `yaml:"subtitle"`
	URLBase      string         `yaml:"urlBase"`
	DefaultPage  string         `yaml:"defaultPage"`
	PostsPerPage int            `yaml:"postsPerPage"`
	ThemeID      string         `yaml:"themeId"`
	Rss          map[string]any `yaml:"rss"`
	Users        []SeedUser     `yaml:"users"`
	Categories   []SeedCategory `yaml:"categories"`
	TagMaps      []SeedTagMap   `yaml:"tagMaps"`
	Pages        []SeedPage     `yaml:"pages"`
	Posts        []SeedPost     `yaml:"posts"`
}

type SeedUser struct {
	Email         string `yaml:"email"`
	FirstName     string `yaml:"firstName"`
	LastName      string `yaml:"lastName"`
	PreferredName string `yaml:"preferredName"`
}

type SeedCategory struct {
	Name        string  `yaml:"name"`
	Slug        string  `yaml:"slug"`
	Description *string `yaml:"description"`
	Parent      string  `yaml:"parent"`
}

type SeedTagMap struct {
	Tag      string `yaml:"tag"`
	URLValue string `yaml:"urlValue"`
}

type SeedPage struct {
	Title           string   `yaml:"title"`
	Permalink       string   `yaml:"permalink"`
	PriorPermalinks []string `yaml:"priorPermalinks"`
	InPageList      bool     `yaml:"inPageList"`
	Template        *string  `yaml:"template"`
	Text            string   `yaml:"text"`
	Markdown        string   `yaml:"markdown"`
	Author          string   `yaml:"author"`
}

type SeedPost struct {
	Title           string         `yaml:"title"`
	Permalink       string         `yaml:"permalink"`
	PriorPermalinks []string       `yaml:"priorPermalinks"`
	Status          string         `yaml:"status"`
	PublishedOn     *time.Time     `yaml:"publishedOn"`
	Text            string         `yaml:"text"`
	Markdown        string         `yaml:"markdown"`
	Author          string         `yaml:"author"`
	Categories      []string       `yaml:"categories"`
	Tags            []string       `yaml:"tags"`
	Episode         map[string]any `yaml:"episode"`
}

type SeedTemplate struct {
	ThemeID string `yaml:"themeId"`
	Name    string `yaml:"name"`
	Text    string `yaml:"text"`
}

// LoadSeed reads and parses a seed file.
func LoadSeed(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Seed populates an empty database from the YAML file at path. It does
// nothing when path is empty or when any web log already exists.
func Seed(db *sql.DB, path string) error {
	if path == "" {
		return nil
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM web_logs").Scan(&count); err != nil {
		return fmt.Errorf("seed check web logs: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	f, err := LoadSeed(path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, wl := range f.WebLogs {
		if err := seedWebLog(ctx, tx, wl); err != nil {
			return fmt.Errorf("seed web log %q: %w", wl.Name, err)
		}
	}
	for _, t := range f.Templates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO theme_templates (theme_id, name, text) VALUES ($1, $2, $3)
			ON CONFLICT (theme_id, name) DO NOTHING
		`, t.ThemeID, t.Name, t.Text); err != nil {
			return fmt.Errorf("seed template %s/%s: %w", t.ThemeID, t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded", "file", path, "web_logs", len(f.WebLogs), "templates", len(f.Templates))
	return nil
}

func seedWebLog(ctx context.Context, tx *sql.Tx, wl SeedWebLog) error {
	if wl.Slug == "" {
		wl.Slug = slug.Generate(wl.Name)
	}
	if wl.PostsPerPage == 0 {
		wl.PostsPerPage = 10
	}
	if wl.DefaultPage == "" {
		wl.DefaultPage = "posts"
	}
	if wl.ThemeID == "" {
		wl.ThemeID = "default"
	}

	var webLogID string
	err := tx.QueryRowContext(ctx, `
		INSERT INTO web_logs (name, slug, subtitle, url_base, default_page, posts_per_page, theme_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, wl.Name, wl.Slug, wl.Subtitle, wl.URLBase, wl.DefaultPage, wl.PostsPerPage, wl.ThemeID).Scan(&webLogID)
	if err != nil {
		return fmt.Errorf("insert web log: %w", err)
	}

	users := make(map[string]string)
	var firstUser string
	for _, u := range wl.Users {
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO web_log_users (web_log_id, email, first_name, last_name, preferred_name)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, webLogID, u.Email, u.FirstName, u.LastName, u.PreferredName).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		users[u.Email] = id
		if firstUser == "" {
			firstUser = id
		}
	}
	author := func(email string) (string, error) {
		if email == "" {
			if firstUser == "" {
				return "", fmt.Errorf("no users to author content")
			}
			return firstUser, nil
		}
		id, ok := users[email]
		if !ok {
			return "", fmt.Errorf("unknown author %s", email)
		}
		return id, nil
	}

	// Parents are listed before their children.
	categories := make(map[string]string)
	for _, c := range wl.Categories {
		if c.Slug == "" {
			c.Slug = slug.Generate(c.Name)
		}
		var parentID *string
		if c.Parent != "" {
			id, ok := categories[c.Parent]
			if !ok {
				return fmt.Errorf("category %s: unknown parent %s", c.Slug, c.Parent)
			}
			parentID = &id
		}
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (web_log_id, name, slug, description, parent_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, webLogID, c.Name, c.Slug, c.Description, parentID).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.Slug, err)
		}
		categories[c.Slug] = id
	}

	if wl.Rss != nil {
		if err := resolveCustomFeeds(wl.Rss, categories); err != nil {
			return err
		}
		rss, err := json.Marshal(wl.Rss)
		if err != nil {
			return fmt.Errorf("encode rss options: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE web_logs SET rss = $1 WHERE id = $2`, string(rss), webLogID); err != nil {
			return fmt.Errorf("update rss options: %w", err)
		}
	}

	mapped := make(map[string]bool, len(wl.TagMaps))
	for _, tm := range wl.TagMaps {
		mapped[tm.Tag] = true
		if tm.URLValue == "" {
			tm.URLValue = slug.TagURLValue(tm.Tag)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tag_maps (web_log_id, tag, url_value) VALUES ($1, $2, $3)
		`, webLogID, tm.Tag, tm.URLValue); err != nil {
			return fmt.Errorf("insert tag map %s: %w", tm.Tag, err)
		}
	}

	for _, p := range wl.Pages {
		authorID, err := author(p.Author)
		if err != nil {
			return fmt.Errorf("page %q: %w", p.Title, err)
		}
		if p.Permalink == "" {
			p.Permalink = slug.Generate(p.Title)
		}
		prior, err := jsonList(p.PriorPermalinks)
		if err != nil {
			return err
		}
		text, revisions, err := contentText(p.Text, p.Markdown)
		if err != nil {
			return fmt.Errorf("page %q: %w", p.Title, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (web_log_id, author_id, title, permalink, prior_permalinks, is_in_page_list, template, text, revisions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, webLogID, authorID, p.Title, p.Permalink, prior, p.InPageList, p.Template, text, revisions); err != nil {
			return fmt.Errorf("insert page %s: %w", p.Permalink, err)
		}
	}

	for _, p := range wl.Posts {
		p.Tags = seedTags(p.Tags, mapped)
		if err := seedPost(ctx, tx, webLogID, p, author, categories); err != nil {
			return fmt.Errorf("post %q: %w", p.Title, err)
		}
	}
	return nil
}

// seedTags lower-cases every tag without a tag map. A mapped tag keeps the
// spelling of its map entry, which its feed and archive URLs resolve to.
func seedTags(tags []string, mapped map[string]bool) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !mapped[t] {
			t = strings.ToLower(t)
		}
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func seedPost(ctx context.Context, tx *sql.Tx, webLogID string, p SeedPost, author func(string) (string, error), categories map[string]string) error {
	authorID, err := author(p.Author)
	if err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = "published"
	}
	if p.Status == "published" && p.PublishedOn == nil {
		now := time.Now().UTC()
		p.PublishedOn = &now
	}
	if p.Permalink == "" {
		at := time.Now().UTC()
		if p.PublishedOn != nil {
			at = *p.PublishedOn
		}
		p.Permalink = slug.Permalink(p.Title, at)
	}

	var categoryIDs []string
	for _, s := range p.Categories {
		id, ok := categories[s]
		if !ok {
			return fmt.Errorf("unknown category %s", s)
		}
		categoryIDs = append(categoryIDs, id)
	}

	prior, err := jsonList(p.PriorPermalinks)
	if err != nil {
		return err
	}
	cats, err := jsonList(categoryIDs)
	if err != nil {
		return err
	}
	tags, err := jsonList(p.Tags)
	if err != nil {
		return err
	}
	var episode *string
	if p.Episode != nil {
		// Durations are written as "1h2m5s" in YAML and stored as nanoseconds.
		if d, ok := p.Episode["duration"].(string); ok {
			parsed, err := time.ParseDuration(d)
			if err != nil {
				return fmt.Errorf("episode duration: %w", err)
			}
			p.Episode["duration"] = int64(parsed)
		}
		data, err := json.Marshal(p.Episode)
		if err != nil {
			return fmt.Errorf("encode episode: %w", err)
		}
		s := string(data)
		episode = &s
	}

	text, revisions, err := contentText(p.Text, p.Markdown)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO posts (web_log_id, author_id, status, title, permalink, prior_permalinks,
		                   published_on, text, category_ids, tags, episode, revisions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, webLogID, authorID, p.Status, p.Title, p.Permalink, prior,
		p.PublishedOn, text, cats, tags, episode, revisions); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// contentText returns the HTML stored for a seeded post or page, rendering
// Markdown when given, and its one-entry revision history holding the
// tagged source.
func contentText(htmlText, markdownText string) (string, string, error) {
	source := markdown.Source(markdown.KindHTML, htmlText)
	if markdownText != "" {
		source = markdown.Source(markdown.KindMarkdown, markdownText)
	}
	rendered, err := markdown.Render(source)
	if err != nil {
		return "", "", err
	}
	revisions, err := json.Marshal([]models.Revision{{AsOf: time.Now().UTC(), Text: source}})
	if err != nil {
		return "", "", fmt.Errorf("encode revisions: %w", err)
	}
	return rendered, string(revisions), nil
}

// resolveCustomFeeds assigns ids to custom feeds and turns a source's
// categorySlug into the inserted category's id.
func resolveCustomFeeds(rss map[string]any, categories map[string]string) error {
	feeds, _ := rss["customFeeds"].([]any)
	for _, f := range feeds {
		feed, ok := f.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := feed["id"]; !ok {
			feed["id"] = uuid.New().String()
		}
		source, ok := feed["source"].(map[string]any)
		if !ok {
			continue
		}
		if s, ok := source["categorySlug"].(string); ok {
			id, found := categories[s]
			if !found {
				return fmt.Errorf("custom feed %v: unknown category %s", feed["path"], s)
			}
			source["categoryId"] = id
			delete(source, "categorySlug")
		}
	}
	return nil
}

// jsonList encodes a string list as a JSON array, never null.
func jsonList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

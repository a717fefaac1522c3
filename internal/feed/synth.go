// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

// AuthorSource resolves author display names in one batched lookup.
type AuthorSource interface {
	FindDisplayNames(ctx context.Context, webLogID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// TagMapSource resolves the tag maps for a set of tags in one batched lookup.
type TagMapSource interface {
	FindByTags(ctx context.Context, webLogID uuid.UUID, tags []string) ([]models.TagMap, error)
}

// Synthesizer renders posts into RSS 2.0 documents.
type Synthesizer struct {
	authors   AuthorSource
	tagMaps   TagMapSource
	generator string
}

// NewSynthesizer creates a Synthesizer. generator is written to the
// channel's <generator> element.
func NewSynthesizer(authors AuthorSource, tagMaps TagMapSource, generator string) *Synthesizer {
	return &Synthesizer{authors: authors, tagMaps: tagMaps, generator: generator}
}

// Build renders posts as the feed ft of webLog. cats is the web log's
// category snapshot. It returns ErrNoPosts for an empty post list; any
// other error means no document was produced.
func (s *Synthesizer) Build(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, ft FeedType, posts []models.Post) ([]byte, error) {
	if len(posts) == 0 {
		return nil, ErrNoPosts
	}

	var authorIDs []uuid.UUID
	var tags []string
	for _, p := range posts {
		if !slices.Contains(authorIDs, p.AuthorID) {
			authorIDs = append(authorIDs, p.AuthorID)
		}
		for _, t := range p.Tags {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	if cf, ok := ft.(CustomFeed); ok && cf.Feed.Source.Kind == models.SourceTag &&
		!slices.Contains(tags, cf.Feed.Source.Tag) {
		tags = append(tags, cf.Feed.Source.Tag)
	}

	authors, err := s.authors.FindDisplayNames(ctx, webLog.ID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("find feed authors: %w", err)
	}
	tagMaps := make(map[string]string)
	if len(tags) > 0 {
		maps, err := s.tagMaps.FindByTags(ctx, webLog.ID, tags)
		if err != nil {
			return nil, fmt.Errorf("find feed tag maps: %w", err)
		}
		for _, tm := range maps {
			tagMaps[tm.Tag] = tm.URLValue
		}
	}

	title, description, err := titleAndDescription(webLog, cats, ft)
	if err != nil {
		return nil, err
	}
	self, link, err := selfAndLink(webLog, cats, ft, tagMaps)
	if err != nil {
		return nil, err
	}

	var podcast *models.PodcastOptions
	if cf, ok := ft.(CustomFeed); ok {
		podcast = cf.Feed.Podcast
	}

	channel := []element{
		textEl("title", title),
		textEl("link", webLog.AbsoluteURL(link)),
		textEl("description", description),
		textEl("language", "en"),
	}
	if webLog.Rss.Copyright != nil {
		channel = append(channel, textEl("copyright", *webLog.Rss.Copyright))
	}
	channel = append(channel,
		textEl("generator", s.generator),
		textEl("lastBuildDate", posts[0].UpdatedOn.UTC().Format(time.RFC1123Z)),
		element{name: "atom:link"}.
			withAttr("href", webLog.AbsoluteURL(self)).
			withAttr("rel", "self").
			withAttr("type", "application/rss+xml"),
	)
	if podcast != nil {
		channel = append(channel, podcastChannel(webLog, podcast, webLog.AbsoluteURL(self), webLog.AbsoluteURL(link))...)
	}

	for i := range posts {
		channel = append(channel, item(webLog, cats, authors, tagMaps, podcast, &posts[i]))
	}

	return document(el("channel", channel...)), nil
}

// item renders one post. Podcast enrichment is skipped, with a warning,
// for posts without an episode.
func item(webLog *models.WebLog, cats []models.DisplayCategory, authors map[uuid.UUID]string, tagMaps map[string]string, podcast *models.PodcastOptions, post *models.Post) element {
	link := webLog.AbsoluteURL(post.Permalink)
	children := []element{
		textEl("title", post.Title),
		textEl("link", link),
		textEl("guid", link).withAttr("isPermaLink", "true"),
		textEl("description", firstParagraph(post.Text)),
		cdataEl("content:encoded", absoluteLinks(webLog, post.Text)),
	}
	if name, ok := authors[post.AuthorID]; ok {
		children = append(children, textEl("dc:creator", name))
	}
	if post.PublishedOn != nil {
		children = append(children, textEl("pubDate", post.PublishedOn.UTC().Format(time.RFC1123Z)))
	}
	children = append(children, textEl("atom:updated", post.UpdatedOn.UTC().Format(time.RFC3339)))

	for _, id := range post.CategoryIDs {
		c, ok := category.FindByID(cats, id)
		if !ok {
			continue
		}
		children = append(children, textEl("category", c.Name).
			withAttr("domain", webLog.AbsoluteURL(models.Permalink("category/"+c.Slug+"/"))))
	}
	for _, tag := range post.Tags {
		children = append(children, textEl("category", tag).
			withAttr("domain", webLog.AbsoluteURL(models.Permalink("tag/"+tagURLValue(tagMaps, tag)+"/"))))
	}

	if podcast != nil {
		if post.Episode != nil {
			children = append(children, episodeElements(webLog, podcast, post)...)
		} else {
			slog.Warn("podcast feed post has no episode", "permalink", post.Permalink)
		}
	}
	return el("item", children...)
}

func titleAndDescription(webLog *models.WebLog, cats []models.DisplayCategory, ft FeedType) (string, string, error) {
	switch f := ft.(type) {
	case StandardFeed:
		desc := webLog.Name
		if webLog.Subtitle != nil && *webLog.Subtitle != "" {
			desc = *webLog.Subtitle
		}
		return stripHTML(webLog.Name), stripHTML(desc), nil
	case CategoryFeed:
		return categoryTitle(cats, f.CategoryID)
	case TagFeed:
		return tagTitle(f.Tag)
	case CustomFeed:
		if p := f.Feed.Podcast; p != nil {
			desc := p.Title
			if p.Subtitle != nil && *p.Subtitle != "" {
				desc = *p.Subtitle
			}
			return stripHTML(p.Title), stripHTML(desc), nil
		}
		switch f.Feed.Source.Kind {
		case models.SourceCategory:
			return categoryTitle(cats, f.Feed.Source.CategoryID)
		case models.SourceTag:
			return tagTitle(f.Feed.Source.Tag)
		}
		return "", "", fmt.Errorf("custom feed %s: unknown source %q", f.Feed.ID, f.Feed.Source.Kind)
	}
	return "", "", fmt.Errorf("unknown feed type %T", ft)
}

func categoryTitle(cats []models.DisplayCategory, id uuid.UUID) (string, string, error) {
	c, ok := category.FindByID(cats, id)
	if !ok {
		return "", "", fmt.Errorf("feed category %s not in snapshot", id)
	}
	name := stripHTML(c.Name)
	desc := fmt.Sprintf("Posts categorized under %q", name)
	if c.Description != nil && *c.Description != "" {
		desc = stripHTML(*c.Description)
	}
	return name, desc, nil
}

func tagTitle(tag string) (string, string, error) {
	return fmt.Sprintf("Posts Tagged %q", tag), fmt.Sprintf("Posts with the %q tag", tag), nil
}

// selfAndLink returns the feed's own permalink and the permalink of the
// page it syndicates.
func selfAndLink(webLog *models.WebLog, cats []models.DisplayCategory, ft FeedType, tagMaps map[string]string) (models.Permalink, models.Permalink, error) {
	switch f := ft.(type) {
	case StandardFeed, CategoryFeed, TagFeed:
		path := ft.Path()
		self := strings.TrimPrefix(path, "/")
		link := strings.TrimPrefix(strings.TrimSuffix(path, webLog.Rss.FeedName), "/")
		return models.Permalink(self), models.Permalink(link), nil
	case CustomFeed:
		switch f.Feed.Source.Kind {
		case models.SourceCategory:
			c, ok := category.FindByID(cats, f.Feed.Source.CategoryID)
			if !ok {
				return "", "", fmt.Errorf("custom feed %s: category %s not in snapshot", f.Feed.ID, f.Feed.Source.CategoryID)
			}
			return f.Feed.Path, models.Permalink("category/" + c.Slug + "/"), nil
		case models.SourceTag:
			return f.Feed.Path, models.Permalink("tag/" + tagURLValue(tagMaps, f.Feed.Source.Tag) + "/"), nil
		}
		return "", "", fmt.Errorf("custom feed %s: unknown source %q", f.Feed.ID, f.Feed.Source.Kind)
	}
	return "", "", fmt.Errorf("unknown feed type %T", ft)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data types shared by the storage layer, the
// tenant caches, the permalink resolver, and the feed synthesizer.
package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permalink is a relative path identifying a post, page, or feed within a
// web log. It never carries a leading slash.
type Permalink string

// String returns the permalink as a plain string.
func (p Permalink) String() string {
	return string(p)
}

// ExplicitRating is the iTunes explicit flag for a podcast or episode.
type ExplicitRating string

const (
	ExplicitYes   ExplicitRating = "yes"
	ExplicitNo    ExplicitRating = "no"
	ExplicitClean ExplicitRating = "clean"
)

// PodcastMedium is the Podcast Index medium of a feed.
type PodcastMedium string

const (
	MediumPodcast    PodcastMedium = "podcast"
	MediumMusic      PodcastMedium = "music"
	MediumVideo      PodcastMedium = "video"
	MediumFilm       PodcastMedium = "film"
	MediumAudiobook  PodcastMedium = "audiobook"
	MediumNewsletter PodcastMedium = "newsletter"
	MediumBlog       PodcastMedium = "blog"
)

// CustomFeedSourceKind says what a custom feed selects posts by.
type CustomFeedSourceKind string

const (
	SourceCategory CustomFeedSourceKind = "category"
	SourceTag      CustomFeedSourceKind = "tag"
)

// CustomFeedSource is either a category (CategoryID set) or a tag (Tag set),
// as indicated by Kind.
type CustomFeedSource struct {
	Kind       CustomFeedSourceKind `json:"kind"`
	CategoryID uuid.UUID            `json:"categoryId,omitempty"`
	Tag        string               `json:"tag,omitempty"`
}

// PodcastOptions carries the feed-level podcast metadata of a custom feed.
type PodcastOptions struct {
	Title            string         `json:"title"`
	Subtitle         *string        `json:"subtitle,omitempty"`
	ItemsInFeed      int            `json:"itemsInFeed"`
	Summary          string         `json:"summary"`
	DisplayedAuthor  string         `json:"displayedAuthor"`
	Email            string         `json:"email"`
	ImageURL         string         `json:"imageUrl"`
	AppleCategory    string         `json:"appleCategory"`
	AppleSubcategory *string        `json:"appleSubcategory,omitempty"`
	Explicit         ExplicitRating `json:"explicit"`
	DefaultMediaType *string        `json:"defaultMediaType,omitempty"`
	MediaBaseURL     *string        `json:"mediaBaseUrl,omitempty"`
	PodcastGUID      *string        `json:"podcastGuid,omitempty"`
	FundingURL       *string        `json:"fundingUrl,omitempty"`
	FundingText      *string        `json:"fundingText,omitempty"`
	Medium           *PodcastMedium `json:"medium,omitempty"`
}

// CustomFeed is an admin-configured feed scoped to a category or tag,
// optionally carrying podcast options.
type CustomFeed struct {
	ID      uuid.UUID        `json:"id"`
	Source  CustomFeedSource `json:"source"`
	Path    Permalink        `json:"path"`
	Podcast *PodcastOptions  `json:"podcast,omitempty"`
}

// IsPodcast reports whether the feed emits podcast extensions.
func (f *CustomFeed) IsPodcast() bool {
	return f.Podcast != nil
}

// RssOptions holds a web log's syndication configuration. It is stored as
// a JSON document on the web log row.
type RssOptions struct {
	IsFeedEnabled     bool         `json:"isFeedEnabled"`
	FeedName          string       `json:"feedName"`
	ItemsInFeed       *int         `json:"itemsInFeed,omitempty"`
	IsCategoryEnabled bool         `json:"isCategoryEnabled"`
	IsTagEnabled      bool         `json:"isTagEnabled"`
	Copyright         *string      `json:"copyright,omitempty"`
	CustomFeeds       []CustomFeed `json:"customFeeds"`
}

// WebLog is one tenant: an independently configured blog or podcast.
type WebLog struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Subtitle     *string    `json:"subtitle,omitempty"`
	DefaultPage  string     `json:"default_page"`
	PostsPerPage int        `json:"posts_per_page"`
	URLBase      string     `json:"url_base"`
	TimeZone     string     `json:"time_zone"`
	ThemeID      string     `json:"theme_id"`
	Rss          RssOptions `json:"rss"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Host returns the host (and port, if any) of the web log's URL base.
func (w *WebLog) Host() string {
	u, err := url.Parse(w.URLBase)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// ExtraPath returns the path component of the URL base without a trailing
// slash ("/blog" for "https://example.com/blog", "" for a bare host).
func (w *WebLog) ExtraPath() string {
	u, err := url.Parse(w.URLBase)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(u.Path, "/")
}

// RelativeURL returns the server-relative URL of a permalink.
func (w *WebLog) RelativeURL(p Permalink) string {
	return w.ExtraPath() + "/" + string(p)
}

// AbsoluteURL returns the absolute URL of a permalink.
func (w *WebLog) AbsoluteURL(p Permalink) string {
	return strings.TrimSuffix(w.URLBase, "/") + "/" + string(p)
}

// FeedItemCount is the number of items in the standard, category and tag
// feeds: the configured override, or the posts-per-page setting.
func (w *WebLog) FeedItemCount() int {
	if w.Rss.ItemsInFeed != nil && *w.Rss.ItemsInFeed > 0 {
		return *w.Rss.ItemsInFeed
	}
	return w.PostsPerPage
}

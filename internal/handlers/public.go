// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers answers public requests for a web log: the home page,
// posts, pages, feeds and JSON chapters. Every path goes through the
// permalink resolver; the rendered feed bytes are cached in Valkey.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"myweblog/internal/feed"
	"myweblog/internal/middleware"
	"myweblog/internal/models"
	"myweblog/internal/resolve"
)

// TenantSnapshots exposes the cached per-web-log category and page-list
// snapshots.
type TenantSnapshots interface {
	Categories(webLogID uuid.UUID) ([]models.DisplayCategory, bool)
	PageList(webLogID uuid.UUID) ([]models.Page, bool)
}

// PathResolver decides how a path within a web log is answered.
type PathResolver interface {
	Resolve(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, path string) (resolve.Action, error)
}

// PageFinder loads the page a web log names as its default page.
type PageFinder interface {
	FindByID(ctx context.Context, webLogID, id uuid.UUID) (*models.Page, error)
}

// FeedCache stores synthesized feed documents.
type FeedCache interface {
	Get(ctx context.Context, webLogID uuid.UUID, path string) ([]byte, bool)
	Set(ctx context.Context, webLogID uuid.UUID, path string, doc []byte)
}

// FeedBuilder renders posts into a feed document.
type FeedBuilder interface {
	Build(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, ft feed.FeedType, posts []models.Post) ([]byte, error)
}

// Renderer renders HTML views through the web log's theme.
type Renderer interface {
	RenderPost(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, pageList []models.Page, post *models.Post, tagURLs map[string]string) ([]byte, error)
	RenderPage(ctx context.Context, webLog *models.WebLog, pageList []models.Page, page *models.Page) ([]byte, error)
	RenderPostList(ctx context.Context, webLog *models.WebLog, pageList []models.Page, posts []models.Post) ([]byte, error)
}

// Public groups the handlers for the public-facing web logs.
type Public struct {
	tenants  TenantSnapshots
	resolver PathResolver
	posts    feed.PostSource
	pages    PageFinder
	tagMaps  feed.TagMapSource
	feeds    FeedCache
	builder  FeedBuilder
	renderer Renderer
}

// NewPublic creates the public handler group.
func NewPublic(tenants TenantSnapshots, resolver PathResolver, posts feed.PostSource, pages PageFinder, tagMaps feed.TagMapSource, feeds FeedCache, builder FeedBuilder, renderer Renderer) *Public {
	return &Public{
		tenants:  tenants,
		resolver: resolver,
		posts:    posts,
		pages:    pages,
		tagMaps:  tagMaps,
		feeds:    feeds,
		builder:  builder,
		renderer: renderer,
	}
}

// CatchAll answers every public path of the web log stored on the request
// context by the WebLog middleware.
func (p *Public) CatchAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	webLog := middleware.WebLogFromCtx(ctx)
	if webLog == nil {
		http.NotFound(w, r)
		return
	}

	path := strings.ToLower(middleware.PathFromCtx(ctx))
	if path == "/" {
		p.home(w, r, webLog)
		return
	}

	cats, _ := p.tenants.Categories(webLog.ID)
	action, err := p.resolver.Resolve(ctx, webLog, cats, path)
	if err != nil {
		slog.Error("resolve path failed", "error", err, "web_log_id", webLog.ID, "path", path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch a := action.(type) {
	case resolve.Redirect:
		http.Redirect(w, r, webLog.RelativeURL(a.To), http.StatusMovedPermanently)
	case resolve.ServeFeed:
		p.serveFeed(w, r, webLog, cats, path, a)
	case resolve.ServePost:
		if _, ok := r.URL.Query()["chapters"]; ok {
			p.serveChapters(w, r, a.Post)
			return
		}
		p.servePost(w, r, webLog, cats, a.Post)
	case resolve.ServePage:
		p.servePage(w, r, webLog, a.Page)
	default:
		http.NotFound(w, r)
	}
}

// home renders the web log's default page, or the index of recent posts
// when the default page is not a page id.
func (p *Public) home(w http.ResponseWriter, r *http.Request, webLog *models.WebLog) {
	ctx := r.Context()

	if id, err := uuid.Parse(webLog.DefaultPage); err == nil {
		page, err := p.pages.FindByID(ctx, webLog.ID, id)
		if err != nil {
			slog.Error("find default page failed", "error", err, "web_log_id", webLog.ID)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if page != nil {
			p.servePage(w, r, webLog, page)
			return
		}
		slog.Warn("default page not found, rendering index", "web_log_id", webLog.ID, "page_id", id)
	}

	posts, err := p.posts.FindPageOfPublishedPosts(ctx, webLog.ID, 1, webLog.PostsPerPage)
	if err != nil {
		slog.Error("list published posts failed", "error", err, "web_log_id", webLog.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if len(posts) > webLog.PostsPerPage {
		posts = posts[:webLog.PostsPerPage]
	}

	pageList, _ := p.tenants.PageList(webLog.ID)
	rendered, err := p.renderer.RenderPostList(ctx, webLog, pageList, posts)
	if err != nil {
		slog.Error("render index failed", "error", err, "web_log_id", webLog.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, rendered)
}

func (p *Public) serveFeed(w http.ResponseWriter, r *http.Request, webLog *models.WebLog, cats []models.DisplayCategory, path string, a resolve.ServeFeed) {
	ctx := r.Context()

	if doc, ok := p.feeds.Get(ctx, webLog.ID, path); ok {
		writeFeed(w, doc)
		return
	}

	posts, err := feed.SelectPosts(ctx, p.posts, webLog, cats, a.Feed, a.ItemCount)
	if err != nil {
		slog.Error("select feed posts failed", "error", err, "web_log_id", webLog.ID, "path", path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	doc, err := p.builder.Build(ctx, webLog, cats, a.Feed, posts)
	if errors.Is(err, feed.ErrNoPosts) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("build feed failed", "error", err, "web_log_id", webLog.ID, "path", path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.feeds.Set(ctx, webLog.ID, path, doc)
	writeFeed(w, doc)
}

func (p *Public) servePost(w http.ResponseWriter, r *http.Request, webLog *models.WebLog, cats []models.DisplayCategory, post *models.Post) {
	ctx := r.Context()

	tagURLs := make(map[string]string, len(post.Tags))
	if len(post.Tags) > 0 {
		maps, err := p.tagMaps.FindByTags(ctx, webLog.ID, post.Tags)
		if err != nil {
			slog.Warn("tag map lookup failed", "error", err, "post_id", post.ID)
		}
		for _, m := range maps {
			tagURLs[m.Tag] = m.URLValue
		}
	}

	pageList, _ := p.tenants.PageList(webLog.ID)
	rendered, err := p.renderer.RenderPost(ctx, webLog, cats, pageList, post, tagURLs)
	if err != nil {
		slog.Error("render post failed", "error", err, "post_id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, rendered)
}

func (p *Public) servePage(w http.ResponseWriter, r *http.Request, webLog *models.WebLog, page *models.Page) {
	pageList, _ := p.tenants.PageList(webLog.ID)
	rendered, err := p.renderer.RenderPage(r.Context(), webLog, pageList, page)
	if err != nil {
		slog.Error("render page failed", "error", err, "page_id", page.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, rendered)
}

// serveChapters answers "?chapters" on a post with its inline chapters.
func (p *Public) serveChapters(w http.ResponseWriter, r *http.Request, post *models.Post) {
	if post.Episode == nil || len(post.Episode.Chapters) == 0 {
		http.NotFound(w, r)
		return
	}
	doc, err := feed.ChaptersJSON(post.Episode)
	if err != nil {
		slog.Error("render chapters failed", "error", err, "post_id", post.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", feed.ChaptersContentType)
	w.Write(doc)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

func writeFeed(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.Write(doc)
}

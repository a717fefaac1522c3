// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders public post, page and index views through
// per-theme html/templates stored in the database. Compiled templates are
// kept in an in-memory cache keyed by theme, name and version, and a theme
// missing a template falls back to a built-in one.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"myweblog/internal/category"
	"myweblog/internal/models"
)

// builtinTheme is the cache namespace of the fallback templates.
const builtinTheme = ""

// TemplateFinder loads a named template of a theme. A nil template with a
// nil error means the theme does not define it.
type TemplateFinder interface {
	FindTemplate(ctx context.Context, themeID, name string) (*models.ThemeTemplate, error)
}

// TemplateLister lists every template of a theme.
type TemplateLister interface {
	ListForTheme(ctx context.Context, themeID string) ([]models.ThemeTemplate, error)
}

// Link is a titled URL used for navigation, categories and tags.
type Link struct {
	Title string
	URL   string
}

// SiteData holds the web log wide values every template can use.
type SiteData struct {
	Name     string
	Subtitle string
	URL      string
	FeedURL  string
	Pages    []Link
	Year     int
}

// PostData is passed to the single-post template.
type PostData struct {
	Site        SiteData
	Post        *models.Post
	Title       string
	Body        template.HTML
	PublishedOn string
	UpdatedOn   string
	Categories  []Link
	Tags        []Link
	ChaptersURL string
}

// PageData is passed to the single-page template, or to the template the
// page names.
type PageData struct {
	Site  SiteData
	Page  *models.Page
	Title string
	Body  template.HTML
}

// PostItem represents a single post in the index listing.
type PostItem struct {
	Title       string
	URL         string
	Excerpt     string
	PublishedOn string
}

// ListData is passed to the index template.
type ListData struct {
	Site  SiteData
	Title string
	Posts []PostItem
}

// Engine compiles and renders theme templates.
type Engine struct {
	templates TemplateFinder
	cache     *templateCache
}

// New creates a rendering engine with an empty template cache.
func New(templates TemplateFinder) *Engine {
	return &Engine{
		templates: templates,
		cache:     newTemplateCache(),
	}
}

// InvalidateTheme drops every compiled template of a theme.
func (e *Engine) InvalidateTheme(themeID string) {
	e.cache.invalidateTheme(themeID)
}

// InvalidateAll clears the compiled template cache.
func (e *Engine) InvalidateAll() {
	e.cache.invalidateAll()
}

// Precompile compiles every template of a theme into the cache, failing on
// the first one with invalid syntax.
func (e *Engine) Precompile(ctx context.Context, lister TemplateLister, themeID string) (int, error) {
	tmpls, err := lister.ListForTheme(ctx, themeID)
	if err != nil {
		return 0, fmt.Errorf("list theme %q: %w", themeID, err)
	}
	for _, t := range tmpls {
		if _, err := e.compile(t.ThemeID, t.Name, t.Version, t.Text); err != nil {
			return 0, fmt.Errorf("theme %q template %q: %w", themeID, t.Name, err)
		}
	}
	return len(tmpls), nil
}

// RenderPost renders a published post. tagURLs maps tags to their URL
// values; unmapped tags use their own text.
func (e *Engine) RenderPost(ctx context.Context, webLog *models.WebLog, cats []models.DisplayCategory, pageList []models.Page, post *models.Post, tagURLs map[string]string) ([]byte, error) {
	loc := location(webLog)
	data := PostData{
		Site:      siteData(webLog, pageList),
		Post:      post,
		Title:     post.Title,
		Body:      template.HTML(rewriteRootLinks(webLog, post.Text)),
		UpdatedOn: post.UpdatedOn.In(loc).Format(dateLayout),
	}
	if post.PublishedOn != nil {
		data.PublishedOn = post.PublishedOn.In(loc).Format(dateLayout)
	}
	for _, id := range post.CategoryIDs {
		if cat, ok := category.FindByID(cats, id); ok {
			data.Categories = append(data.Categories, Link{
				Title: cat.Name,
				URL:   webLog.RelativeURL(models.Permalink("category/" + cat.Slug + "/")),
			})
		}
	}
	for _, tag := range post.Tags {
		value, ok := tagURLs[tag]
		if !ok {
			value = strings.ReplaceAll(tag, " ", "+")
		}
		data.Tags = append(data.Tags, Link{
			Title: tag,
			URL:   webLog.RelativeURL(models.Permalink("tag/" + value + "/")),
		})
	}
	if post.Episode != nil && len(post.Episode.Chapters) > 0 {
		data.ChaptersURL = webLog.RelativeURL(post.Permalink) + "?chapters"
	}

	tmpl, err := e.find(ctx, webLog.ThemeID, models.TemplateSinglePost)
	if err != nil {
		return nil, err
	}
	return execute(tmpl, data)
}

// RenderPage renders a page with its own template when it names one the
// theme defines, and with the single-page template otherwise.
func (e *Engine) RenderPage(ctx context.Context, webLog *models.WebLog, pageList []models.Page, page *models.Page) ([]byte, error) {
	names := []string{models.TemplateSinglePage}
	if page.Template != nil && *page.Template != "" {
		names = append([]string{*page.Template}, names...)
	}
	tmpl, err := e.find(ctx, webLog.ThemeID, names...)
	if err != nil {
		return nil, err
	}
	return execute(tmpl, PageData{
		Site:  siteData(webLog, pageList),
		Page:  page,
		Title: page.Title,
		Body:  template.HTML(rewriteRootLinks(webLog, page.Text)),
	})
}

// RenderPostList renders the index template with the given posts.
func (e *Engine) RenderPostList(ctx context.Context, webLog *models.WebLog, pageList []models.Page, posts []models.Post) ([]byte, error) {
	loc := location(webLog)
	items := make([]PostItem, 0, len(posts))
	for _, p := range posts {
		item := PostItem{
			Title:   p.Title,
			URL:     webLog.RelativeURL(p.Permalink),
			Excerpt: excerpt(p.Text),
		}
		if p.PublishedOn != nil {
			item.PublishedOn = p.PublishedOn.In(loc).Format(dateLayout)
		}
		items = append(items, item)
	}

	tmpl, err := e.find(ctx, webLog.ThemeID, models.TemplateIndex)
	if err != nil {
		return nil, err
	}
	return execute(tmpl, ListData{
		Site:  siteData(webLog, pageList),
		Title: webLog.Name,
		Posts: items,
	})
}

// ValidateTemplate attempts to compile a template string and returns an
// error if the Go template syntax is invalid.
func (e *Engine) ValidateTemplate(text string) error {
	_, err := template.New("validate").Parse(text)
	if err != nil {
		return fmt.Errorf("invalid template syntax: %w", err)
	}
	return nil
}

// find returns the first of names the theme defines, then the first with a
// built-in fallback.
func (e *Engine) find(ctx context.Context, themeID string, names ...string) (*template.Template, error) {
	if e.templates != nil {
		for _, name := range names {
			t, err := e.templates.FindTemplate(ctx, themeID, name)
			if err != nil {
				return nil, fmt.Errorf("find template %s/%s: %w", themeID, name, err)
			}
			if t != nil {
				return e.compile(t.ThemeID, t.Name, t.Version, t.Text)
			}
		}
	}
	for _, name := range names {
		if text, ok := builtinTemplates[name]; ok {
			slog.Debug("using built-in template", "theme", themeID, "name", name)
			return e.compile(builtinTheme, name, 0, text)
		}
	}
	return nil, fmt.Errorf("no template %q in theme %q", names[0], themeID)
}

// compile returns the cached compilation of a template version, parsing
// it on a miss.
func (e *Engine) compile(theme, name string, version int, text string) (*template.Template, error) {
	if compiled := e.cache.get(theme, name, version); compiled != nil {
		return compiled, nil
	}
	compiled, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("compile template: %w", err)
	}
	e.cache.put(theme, name, version, compiled)
	return compiled, nil
}

func execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

const dateLayout = "January 2, 2006"

func location(webLog *models.WebLog) *time.Location {
	if webLog.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(webLog.TimeZone)
	if err != nil {
		slog.Warn("unknown web log time zone", "web_log_id", webLog.ID, "time_zone", webLog.TimeZone)
		return time.UTC
	}
	return loc
}

func siteData(webLog *models.WebLog, pageList []models.Page) SiteData {
	site := SiteData{
		Name: webLog.Name,
		URL:  webLog.RelativeURL(""),
		Year: time.Now().Year(),
	}
	if webLog.Subtitle != nil {
		site.Subtitle = *webLog.Subtitle
	}
	if webLog.Rss.IsFeedEnabled {
		site.FeedURL = webLog.RelativeURL(models.Permalink(webLog.Rss.FeedName))
	}
	for _, p := range pageList {
		site.Pages = append(site.Pages, Link{Title: p.Title, URL: webLog.RelativeURL(p.Permalink)})
	}
	return site
}

// rootLinkRe matches src and href attributes holding a root-relative URL.
// Protocol-relative URLs ("//host/...") are left alone.
var rootLinkRe = regexp.MustCompile(`(\s(?:src|href)=["'])/([^/"'])`)

// rewriteRootLinks prefixes root-relative links with the web log's extra
// path, so content written against "/" works under "https://host/blog".
func rewriteRootLinks(webLog *models.WebLog, body string) string {
	extra := webLog.ExtraPath()
	if extra == "" {
		return body
	}
	return rootLinkRe.ReplaceAllString(body, "${1}"+strings.ReplaceAll(extra, "$", "$$")+"/${2}")
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

const excerptWords = 60

// excerpt returns the first words of a post's text with markup removed.
func excerpt(body string) string {
	text := html.UnescapeString(tagRe.ReplaceAllString(body, " "))
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	words := strings.Fields(text)
	if len(words) <= excerptWords {
		return text
	}
	return strings.Join(words[:excerptWords], " ") + "…"
}

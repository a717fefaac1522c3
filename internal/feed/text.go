// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"html"
	"regexp"
	"strings"

	"myweblog/internal/models"
)

var (
	tagRe = regexp.MustCompile(`<[^>]*>`)
	// rootRelRe matches src/href values starting with a single '/'.
	rootRelRe = regexp.MustCompile(`\b(src|href)="/([^/])`)
)

// stripHTML removes tags and decodes entities.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(s, "")))
}

// firstParagraph returns the plain text of the first paragraph of an HTML
// body, or of the whole body when there is no closing </p>.
func firstParagraph(body string) string {
	if i := strings.Index(body, "</p>"); i >= 0 {
		body = body[:i]
	}
	return stripHTML(body)
}

// absoluteLinks rewrites root-relative src and href values to absolute
// URLs under the web log's URL base.
func absoluteLinks(webLog *models.WebLog, body string) string {
	base := strings.TrimSuffix(webLog.URLBase, "/")
	return rootRelRe.ReplaceAllString(body, `${1}="`+base+`/${2}`)
}

// toAbsolute leaves http(s) URLs alone and resolves anything else against
// the web log's URL base.
func toAbsolute(webLog *models.WebLog, link string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	return webLog.AbsoluteURL(models.Permalink(strings.TrimPrefix(link, "/")))
}

// tagURLValue returns the URL segment for a tag: the mapped value if one
// exists, otherwise the tag with spaces turned into '+'.
func tagURLValue(tagMaps map[string]string, tag string) string {
	if v, ok := tagMaps[tag]; ok {
		return v
	}
	return strings.ReplaceAll(tag, " ", "+")
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown turns stored post and page source into HTML. Source
// text carries its markup kind as a prefix ("Markdown: ..." or
// "HTML: ..."), the form kept in revision history.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Kind is the markup language of a source text.
type Kind string

const (
	KindHTML     Kind = "HTML"
	KindMarkdown Kind = "Markdown"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Raw HTML inside Markdown is kept.
		html.WithUnsafe(),
	),
)

// Source returns text tagged with its markup kind.
func Source(kind Kind, text string) string {
	return string(kind) + ": " + text
}

// Split separates a tagged source into its kind and text. Untagged text
// is treated as HTML.
func Split(source string) (Kind, string) {
	for _, k := range []Kind{KindMarkdown, KindHTML} {
		if rest, ok := strings.CutPrefix(source, string(k)+": "); ok {
			return k, rest
		}
	}
	return KindHTML, source
}

// ToHTML converts Markdown text into HTML.
func ToHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Render returns the HTML of a tagged source.
func Render(source string) (string, error) {
	kind, text := Split(source)
	if kind == KindMarkdown {
		return ToHTML(text)
	}
	return text, nil
}

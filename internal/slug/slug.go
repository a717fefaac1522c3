// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds URL segments for categories, tags and permalinks.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, hyphen or whitespace.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// fold strips diacritics: "Brücke" becomes "Brucke".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Permalink builds a dated post permalink, "2024/03/my-title.html".
func Permalink(title string, at time.Time) string {
	return fmt.Sprintf("%04d/%02d/%s.html", at.Year(), int(at.Month()), Generate(title))
}

var tagSymbols = strings.NewReplacer("#", " sharp ", "+", " plus ", ".", " dot ", "&", " and ")

// TagURLValue suggests the URL value of a tag map for a tag whose text is
// not URL safe: "F#" becomes "f-sharp", "C++" becomes "c-plus-plus".
func TagURLValue(tag string) string {
	return Generate(tagSymbols.Replace(tag))
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Chapter is one inline podcast chapter. StartTime and EndTime use the
// Simple Chapters notation (HH:MM:SS.mmm, leading fields optional).
type Chapter struct {
	StartTime string  `json:"startTime"`
	Title     *string `json:"title,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	URL       *string `json:"url,omitempty"`
	IsHidden  *bool   `json:"isHidden,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

// Episode is the podcast metadata of a post. Only Media and Length are
// required.
type Episode struct {
	Media              string          `json:"media"`
	Length             int64           `json:"length"`
	Duration           *time.Duration  `json:"duration,omitempty"`
	MediaType          *string         `json:"mediaType,omitempty"`
	ImageURL           *string         `json:"imageUrl,omitempty"`
	Subtitle           *string         `json:"subtitle,omitempty"`
	Explicit           *ExplicitRating `json:"explicit,omitempty"`
	Chapters           []Chapter       `json:"chapters,omitempty"`
	ChapterFile        *string         `json:"chapterFile,omitempty"`
	ChapterType        *string         `json:"chapterType,omitempty"`
	TranscriptURL      *string         `json:"transcriptUrl,omitempty"`
	TranscriptType     *string         `json:"transcriptType,omitempty"`
	TranscriptLang     *string         `json:"transcriptLang,omitempty"`
	TranscriptCaptions *bool           `json:"transcriptCaptions,omitempty"`
	SeasonNumber       *int            `json:"seasonNumber,omitempty"`
	SeasonDescription  *string         `json:"seasonDescription,omitempty"`
	EpisodeNumber      *float64        `json:"episodeNumber,omitempty"`
	EpisodeDescription *string         `json:"episodeDescription,omitempty"`
}

// FormatDuration renders the duration as H:MM:SS, or "" when unset.
func (e *Episode) FormatDuration() string {
	if e.Duration == nil {
		return ""
	}
	secs := int64(e.Duration.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// ErrChapterTime is returned for a chapter timestamp that cannot be parsed.
var ErrChapterTime = errors.New("invalid chapter time")

var (
	chapterSecondsRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	chapterFieldRe   = regexp.MustCompile(`^[0-9]+$`)
)

// maxChapterTime is the largest chapter timestamp a time.Duration holds.
const maxChapterTime = time.Duration(math.MaxInt64)

// ParseChapterTime parses "SS", "MM:SS" or "HH:MM:SS", each with an optional
// fractional second part. Every field is a plain non-negative decimal.
func ParseChapterTime(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 || !chapterSecondsRe.MatchString(parts[len(parts)-1]) {
		return 0, fmt.Errorf("%w: %q", ErrChapterTime, s)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || (len(parts) > 1 && secs >= 60) || secs >= float64(maxChapterTime/time.Second) {
		return 0, fmt.Errorf("%w: %q", ErrChapterTime, s)
	}
	total := time.Duration(secs * float64(time.Second))

	units := []time.Duration{time.Minute, time.Hour}
	for i := len(parts) - 2; i >= 0; i-- {
		if !chapterFieldRe.MatchString(parts[i]) {
			return 0, fmt.Errorf("%w: %q", ErrChapterTime, s)
		}
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrChapterTime, s)
		}
		unit := units[len(parts)-2-i]
		if unit == time.Minute && len(parts) == 3 && n >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrChapterTime, s)
		}
		if n > int64((maxChapterTime-total)/unit) {
			return 0, fmt.Errorf("%w: %q", ErrChapterTime, s)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

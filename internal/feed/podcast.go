// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"myweblog/internal/models"
)

const jsonChaptersType = "application/json+chapters"

// podcastChannel returns the channel-level podcast elements.
func podcastChannel(webLog *models.WebLog, podcast *models.PodcastOptions, feedURL, link string) []element {
	image := toAbsolute(webLog, podcast.ImageURL)

	category := element{name: "itunes:category"}.withAttr("text", podcast.AppleCategory)
	if podcast.AppleSubcategory != nil && *podcast.AppleSubcategory != "" {
		category = el("itunes:category",
			element{name: "itunes:category"}.withAttr("text", *podcast.AppleSubcategory),
		).withAttr("text", podcast.AppleCategory)
	}

	elems := []element{
		el("image",
			textEl("url", image),
			textEl("title", podcast.Title),
			textEl("link", link),
		),
		element{name: "itunes:image"}.withAttr("href", image),
		category,
	}
	if podcast.Subtitle != nil && *podcast.Subtitle != "" {
		elems = append(elems, textEl("itunes:subtitle", *podcast.Subtitle))
	}
	elems = append(elems,
		textEl("itunes:summary", podcast.Summary),
		textEl("itunes:author", podcast.DisplayedAuthor),
		textEl("itunes:explicit", string(podcast.Explicit)),
		el("itunes:owner",
			textEl("itunes:name", podcast.DisplayedAuthor),
			textEl("itunes:email", podcast.Email),
		),
		element{name: "rawvoice:subscribe"}.withAttr("feed", feedURL),
	)

	if podcast.FundingURL != nil && *podcast.FundingURL != "" {
		text := ""
		if podcast.FundingText != nil {
			text = *podcast.FundingText
		}
		elems = append(elems, textEl("podcast:funding", text).withAttr("url", toAbsolute(webLog, *podcast.FundingURL)))
	}
	if podcast.PodcastGUID != nil && *podcast.PodcastGUID != "" {
		elems = append(elems, textEl("podcast:guid", strings.ToLower(*podcast.PodcastGUID)))
	}
	if podcast.Medium != nil && *podcast.Medium != "" {
		elems = append(elems, textEl("podcast:medium", strings.ToLower(string(*podcast.Medium))))
	}
	return elems
}

// episodeElements returns the item-level podcast elements for a post that
// carries an episode. A malformed optional block is logged and left out.
func episodeElements(webLog *models.WebLog, podcast *models.PodcastOptions, post *models.Post) []element {
	ep := post.Episode

	enclosure := element{name: "enclosure"}.
		withAttr("url", mediaURL(webLog, podcast, ep.Media)).
		withAttr("length", strconv.FormatInt(ep.Length, 10))
	if mt := mediaType(podcast, ep); mt != "" {
		enclosure = enclosure.withAttr("type", mt)
	}

	image := podcast.ImageURL
	if ep.ImageURL != nil && *ep.ImageURL != "" {
		image = *ep.ImageURL
	}
	explicit := podcast.Explicit
	if ep.Explicit != nil {
		explicit = *ep.Explicit
	}

	elems := []element{
		enclosure,
		textEl("itunes:author", podcast.DisplayedAuthor),
		textEl("itunes:explicit", string(explicit)),
		element{name: "itunes:image"}.withAttr("href", toAbsolute(webLog, image)),
	}
	if ep.Subtitle != nil && *ep.Subtitle != "" {
		elems = append(elems, textEl("itunes:subtitle", *ep.Subtitle))
	}
	if d := ep.FormatDuration(); d != "" {
		elems = append(elems, textEl("itunes:duration", d))
	}

	switch {
	case ep.ChapterFile != nil && *ep.ChapterFile != "":
		chapters := element{name: "podcast:chapters"}.withAttr("url", toAbsolute(webLog, *ep.ChapterFile))
		if typ := chapterType(ep); typ != "" {
			chapters = chapters.withAttr("type", typ)
		}
		elems = append(elems, chapters)
	case len(ep.Chapters) > 0:
		chapters, err := simpleChapters(ep.Chapters)
		if err != nil {
			slog.Warn("omitting chapters from feed item", "permalink", post.Permalink, "error", err)
		} else if len(chapters.children) > 0 {
			elems = append(elems, chapters)
		}
	}

	if ep.TranscriptURL != nil && *ep.TranscriptURL != "" {
		if ep.TranscriptType == nil || *ep.TranscriptType == "" {
			slog.Warn("omitting transcript without a type", "permalink", post.Permalink)
		} else {
			transcript := element{name: "podcast:transcript"}.
				withAttr("url", toAbsolute(webLog, *ep.TranscriptURL)).
				withAttr("type", *ep.TranscriptType)
			if ep.TranscriptLang != nil && *ep.TranscriptLang != "" {
				transcript = transcript.withAttr("language", *ep.TranscriptLang)
			}
			if ep.TranscriptCaptions != nil && *ep.TranscriptCaptions {
				transcript = transcript.withAttr("rel", "captions")
			}
			elems = append(elems, transcript)
		}
	}

	if ep.SeasonNumber != nil {
		season := textEl("podcast:season", strconv.Itoa(*ep.SeasonNumber))
		if ep.SeasonDescription != nil && *ep.SeasonDescription != "" {
			season = season.withAttr("name", *ep.SeasonDescription)
		}
		elems = append(elems, season)
	}
	if ep.EpisodeNumber != nil {
		episode := textEl("podcast:episode", formatEpisodeNumber(*ep.EpisodeNumber))
		if ep.EpisodeDescription != nil && *ep.EpisodeDescription != "" {
			episode = episode.withAttr("name", *ep.EpisodeDescription)
		}
		elems = append(elems, episode)
	}
	return elems
}

// mediaURL resolves an episode's media link: absolute links stay as they
// are, relative ones go under the podcast's media base URL when set, else
// under the web log.
func mediaURL(webLog *models.WebLog, podcast *models.PodcastOptions, media string) string {
	switch {
	case strings.HasPrefix(media, "http"):
		return media
	case podcast.MediaBaseURL != nil && *podcast.MediaBaseURL != "":
		return *podcast.MediaBaseURL + media
	default:
		return toAbsolute(webLog, media)
	}
}

// mediaType is the episode's MIME type, else the podcast default, else "".
func mediaType(podcast *models.PodcastOptions, ep *models.Episode) string {
	if ep.MediaType != nil && *ep.MediaType != "" {
		return *ep.MediaType
	}
	if podcast.DefaultMediaType != nil {
		return *podcast.DefaultMediaType
	}
	return ""
}

func chapterType(ep *models.Episode) string {
	if ep.ChapterType != nil && *ep.ChapterType != "" {
		return *ep.ChapterType
	}
	if strings.HasSuffix(*ep.ChapterFile, ".json") {
		return jsonChaptersType
	}
	return ""
}

// formatEpisodeNumber renders at most two decimal places ("3", "3.5").
func formatEpisodeNumber(n float64) string {
	return strconv.FormatFloat(math.Round(n*100)/100, 'f', -1, 64)
}

// simpleChapters renders visible inline chapters as a psc:chapters block.
// Any unparsable start time fails the whole block.
func simpleChapters(chapters []models.Chapter) (element, error) {
	var children []element
	for _, ch := range chapters {
		start, err := models.ParseChapterTime(ch.StartTime)
		if err != nil {
			return element{}, err
		}
		if ch.IsHidden != nil && *ch.IsHidden {
			continue
		}
		c := element{name: "psc:chapter"}.withAttr("start", formatChapterTime(start))
		if ch.Title != nil {
			c = c.withAttr("title", *ch.Title)
		}
		if ch.URL != nil && *ch.URL != "" {
			c = c.withAttr("href", *ch.URL)
		}
		if ch.ImageURL != nil && *ch.ImageURL != "" {
			c = c.withAttr("image", *ch.ImageURL)
		}
		children = append(children, c)
	}
	return el("psc:chapters", children...).withAttr("version", "1.2"), nil
}

func formatChapterTime(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, (ms/60_000)%60, (ms/1000)%60, ms%1000)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"encoding/json"
	"fmt"

	"myweblog/internal/models"
)

// ChaptersContentType is the MIME type of Podcast Index JSON chapters.
const ChaptersContentType = jsonChaptersType

type jsonChapter struct {
	StartTime float64  `json:"startTime"`
	Title     string   `json:"title,omitempty"`
	Img       string   `json:"img,omitempty"`
	URL       string   `json:"url,omitempty"`
	TOC       *bool    `json:"toc,omitempty"`
	EndTime   *float64 `json:"endTime,omitempty"`
}

type jsonChapters struct {
	Version  string        `json:"version"`
	Chapters []jsonChapter `json:"chapters"`
}

// ChaptersJSON renders an episode's inline chapters in the Podcast Index
// JSON chapters format. Hidden chapters are kept with toc=false.
func ChaptersJSON(ep *models.Episode) ([]byte, error) {
	doc := jsonChapters{Version: "1.2.0", Chapters: make([]jsonChapter, 0, len(ep.Chapters))}
	for i, ch := range ep.Chapters {
		start, err := models.ParseChapterTime(ch.StartTime)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i, err)
		}
		jc := jsonChapter{StartTime: start.Seconds()}
		if ch.Title != nil {
			jc.Title = *ch.Title
		}
		if ch.ImageURL != nil {
			jc.Img = *ch.ImageURL
		}
		if ch.URL != nil {
			jc.URL = *ch.URL
		}
		if ch.IsHidden != nil && *ch.IsHidden {
			toc := false
			jc.TOC = &toc
		}
		if ch.EndTime != nil {
			end, err := models.ParseChapterTime(*ch.EndTime)
			if err != nil {
				return nil, fmt.Errorf("chapter %d end: %w", i, err)
			}
			secs := end.Seconds()
			jc.EndTime = &secs
		}
		doc.Chapters = append(doc.Chapters, jc)
	}
	return json.Marshal(doc)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Theme template names looked up by the rendering engine.
const (
	TemplateSinglePost = "single-post"
	TemplateSinglePage = "single-page"
	TemplateIndex      = "index"
)

// ThemeTemplate is one html/template source file belonging to a theme.
// Version is bumped on every save so compiled copies can be cached by
// (theme, name, version).
type ThemeTemplate struct {
	ThemeID   string    `json:"theme_id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

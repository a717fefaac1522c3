// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"github.com/google/uuid"
)

// Category is a stored category. ParentID forms a forest; a parent that
// does not resolve is treated as absent.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	WebLogID    uuid.UUID  `json:"web_log_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

// DisplayCategory is a category placed in its hierarchy. Slug is the full
// hierarchical slug ("tech/rust"); ParentNames and AncestorIDs run from the
// root down to the direct parent. PostCount includes posts in descendants.
type DisplayCategory struct {
	ID          uuid.UUID   `json:"id"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	ParentNames []string    `json:"parent_names"`
	AncestorIDs []uuid.UUID `json:"ancestor_ids"`
	PostCount   int         `json:"post_count"`
}

// TagMap maps a canonical tag to the URL-safe value used in tag archive
// and tag feed URLs.
type TagMap struct {
	ID       uuid.UUID `json:"id"`
	WebLogID uuid.UUID `json:"web_log_id"`
	Tag      string    `json:"tag"`
	URLValue string    `json:"url_value"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// WebLogUser is an author within a web log. Only the display name is read
// by the public side of the site.
type WebLogUser struct {
	ID            uuid.UUID `json:"id"`
	WebLogID      uuid.UUID `json:"web_log_id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PreferredName string    `json:"preferred_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// DisplayName returns the preferred name, falling back to first and last.
func (u *WebLogUser) DisplayName() string {
	if u.PreferredName != "" {
		return u.PreferredName
	}
	return u.FirstName + " " + u.LastName
}

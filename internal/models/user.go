// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the content documents edited in place (site
// config, concerts, pages and their sections) and the operator accounts
// allowed to edit them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator allowed to edit the site. Being authenticated is the
// only permission there is.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA enrollment
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RequiresCode reports whether login must present a TOTP code.
func (u *User) RequiresCode() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil
}

// CommitterName returns the name used to attribute content writes.
func (u *User) CommitterName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return "CMS Editor"
}

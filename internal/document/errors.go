// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation error. A mutation that fails
// validation leaves the model unchanged.
var ErrInvalid = errors.New("invalid edit")

var (
	ErrTitleRequired   = invalid("title is required")
	ErrSlugRequired    = invalid("slug is required")
	ErrDuplicateSlug   = invalid("a page with that slug already exists")
	ErrHomePage        = invalid("the home page cannot be deleted")
	ErrPageNotFound    = invalid("page not found")
	ErrSectionNotFound = invalid("section not found")
	ErrSectionType     = invalid("unknown section type")
	ErrNotAList        = invalid("field is not a list")
	ErrIndexRange      = invalid("index out of range")
	ErrDirection       = invalid("direction must be -1 or 1")
	ErrUnknownLocale   = invalid("unknown locale")
	ErrLocaleActive    = invalid("locale is already active")
	ErrLocaleLimit     = invalid("maximum number of languages reached")
	ErrLocaleInactive  = invalid("locale is not active")
	ErrDefaultLocale   = invalid("the default locale cannot be removed")
	ErrConcertNotFound = invalid("concert not found")
	ErrUnknownFile     = invalid("unknown document")
)

// ErrNotApplied reports a field write whose path does not resolve. The
// model is unchanged.
var ErrNotApplied = errors.New("value not updated: path does not exist")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}

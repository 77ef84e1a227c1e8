// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the stored concert date format.
const DateLayout = "2006-01-02"

// DisplayDateLayout is how the site renders concert dates.
const DisplayDateLayout = "January 2, 2006"

// Concert fields.
const (
	ConcertDate    = "date"
	ConcertVenue   = "venue"
	ConcertCity    = "city"
	ConcertProgram = "program"
)

// Concert is one performance. Fields are never localized.
type Concert struct {
	Date    string `json:"date"`
	Venue   string `json:"venue"`
	City    string `json:"city"`
	Program string `json:"program"`
}

// ConcertCollection is the "concerts" document.
type ConcertCollection struct {
	Concerts []*Concert `json:"concerts"`
}

// NewConcert returns the placeholder concert added on now: dated one
// calendar month ahead.
func NewConcert(now time.Time) *Concert {
	return &Concert{
		Date:    now.UTC().AddDate(0, 1, 0).Format(DateLayout),
		Venue:   "Venue",
		City:    "City",
		Program: "Program",
	}
}

// Field returns the named field value.
func (c *Concert) Field(name string) (string, bool) {
	switch name {
	case ConcertDate:
		return c.Date, true
	case ConcertVenue:
		return c.Venue, true
	case ConcertCity:
		return c.City, true
	case ConcertProgram:
		return c.Program, true
	}
	return "", false
}

// SetField writes the named field. Unknown names are rejected.
func (c *Concert) SetField(name, value string) error {
	switch name {
	case ConcertDate:
		c.Date = value
	case ConcertVenue:
		c.Venue = value
	case ConcertCity:
		c.City = value
	case ConcertProgram:
		c.Program = value
	default:
		return fmt.Errorf("unknown concert field %q", name)
	}
	return nil
}

// DisplayDate formats the date the way concert rows show it. Unparseable
// dates are returned verbatim.
func (c *Concert) DisplayDate() string {
	t, err := time.Parse(DateLayout, c.Date)
	if err != nil {
		return c.Date
	}
	return t.Format(DisplayDateLayout)
}

// Index returns the position of c in the collection by identity, or -1.
func (cc *ConcertCollection) Index(c *Concert) int {
	for i, x := range cc.Concerts {
		if x == c {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (cc *ConcertCollection) Clone() *ConcertCollection {
	if cc == nil {
		return nil
	}
	out := &ConcertCollection{Concerts: make([]*Concert, len(cc.Concerts))}
	for i, c := range cc.Concerts {
		cp := *c
		out.Concerts[i] = &cp
	}
	return out
}

// MarshalJSON writes an empty concerts array rather than null.
func (cc ConcertCollection) MarshalJSON() ([]byte, error) {
	concerts := cc.Concerts
	if concerts == nil {
		concerts = []*Concert{}
	}
	return json.Marshal(struct {
		Concerts []*Concert `json:"concerts"`
	}{concerts})
}

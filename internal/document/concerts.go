// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"slices"
	"time"

	"sitecms/internal/models"
)

// AddConcert appends a placeholder concert dated one month after now. The
// returned record stays addressable by identity for later edits.
func (m *Model) AddConcert(now time.Time) *models.Concert {
	c := models.NewConcert(now)
	cc := m.pending.Concerts
	cc.Concerts = append(cc.Concerts, c)
	return c
}

// RemoveConcertAt removes the concert at index.
func (m *Model) RemoveConcertAt(index int) (*models.Concert, error) {
	cc := m.pending.Concerts
	if index < 0 || index >= len(cc.Concerts) {
		return nil, ErrIndexRange
	}
	removed := cc.Concerts[index]
	cc.Concerts = slices.Delete(cc.Concerts, index, index+1)
	return removed, nil
}

// RemoveConcert removes c wherever it currently is in the collection.
func (m *Model) RemoveConcert(c *models.Concert) error {
	cc := m.pending.Concerts
	i := cc.Index(c)
	if i < 0 {
		return ErrConcertNotFound
	}
	cc.Concerts = slices.Delete(cc.Concerts, i, i+1)
	return nil
}

// SetConcertField writes an untranslated field of c.
func (m *Model) SetConcertField(c *models.Concert, field, value string) error {
	if m.pending.Concerts.Index(c) < 0 {
		return ErrConcertNotFound
	}
	if _, ok := c.Field(field); !ok {
		return invalid("unknown concert field " + field)
	}
	return c.SetField(field, value)
}

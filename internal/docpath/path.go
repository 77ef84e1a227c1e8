// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docpath addresses values inside decoded JSON documents. A path is
// a sequence of segments parsed once from a dotted string such as
// "items.2" or "concerts.0.venue"; each segment is either a sequence index
// or a mapping key.
package docpath

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an index into a sequence or a key into a
// mapping.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a mapping-key segment.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a sequence-index segment.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses a sequence element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Int returns the index of an index segment.
func (s Segment) Int() int { return s.index }

// String returns the segment as it appears in a dotted path.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path is a parsed dotted path.
type Path []Segment

// Parse splits a dotted path. A segment becomes an index if and only if the
// whole segment parses as a base-10 integer.
func Parse(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.Atoi(part); err == nil {
			p = append(p, Index(n))
			continue
		}
		p = append(p, Key(part))
	}
	return p
}

// String joins the path back into its dotted form.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Parent returns the path without its last segment and the last segment.
// ok is false for an empty path.
func (p Path) Parent() (parent Path, last Segment, ok bool) {
	if len(p) == 0 {
		return nil, Segment{}, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}

// Append returns a new path with the given segments added.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Get returns the value at path inside root. The second result is false when
// any segment resolves to an absent value.
func Get(root any, p Path) (any, bool) {
	cur := root
	for _, seg := range p {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Set writes value at path inside root and reports whether it did. Every
// intermediate segment must already resolve to a container; only the last
// segment may be created (mapping key) or overwritten. An index on the last
// segment must already exist. Set never panics; a false result means the
// value was not updated.
func Set(root any, p Path, value any) bool {
	parent, last, ok := p.Parent()
	if !ok {
		return false
	}
	container, ok := Get(root, parent)
	if !ok {
		return false
	}
	switch c := container.(type) {
	case map[string]any:
		if c == nil {
			return false
		}
		c[last.String()] = value
		return true
	case []any:
		if !last.isIndex || last.index < 0 || last.index >= len(c) {
			return false
		}
		c[last.index] = value
		return true
	}
	return false
}

// step resolves one segment against a container.
func step(cur any, seg Segment) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[seg.String()]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	case []any:
		if !seg.isIndex || seg.index < 0 || seg.index >= len(c) {
			return nil, false
		}
		if c[seg.index] == nil {
			return nil, false
		}
		return c[seg.index], true
	}
	return nil, false
}

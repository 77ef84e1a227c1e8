// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render produces the HTML of elements created while editing: list
// items, concert rows and new-section placeholders. The markup matches the
// static renderer's structure and carries the binding annotations, so the
// new elements are editable in the same interaction.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"regexp"
	"slices"
	"strings"
)

//go:embed templates/*.html
var fragmentFS embed.FS

// Fragment names.
const (
	ListItem           = "list_item"
	ConcertRow         = "concert_row"
	SectionPlaceholder = "section_placeholder"
)

// ListItemData is a new list element.
type ListItemData struct {
	File    string
	Section string
	Field   string // e.g. items.3
	Text    string
}

// ConcertRowData is a new concert row. Scope holds the scoped-style
// attributes copied from an existing row.
type ConcertRowData struct {
	Index       int
	Ref         string
	DisplayDate string
	Venue       string
	City        string
	Program     string
	Scope       map[string]string
}

// PlaceholderField is one editable line of a section placeholder.
type PlaceholderField struct {
	Name    string
	Text    string
	Heading bool
}

// SectionData is a placeholder for a section added in this session.
type SectionData struct {
	ID     string
	Type   string
	File   string
	Fields []PlaceholderField
}

// Renderer executes the embedded fragment templates.
type Renderer struct {
	templates *template.Template
	funcMap   template.FuncMap
}

var scopeAttrName = regexp.MustCompile(`^data-astro-cid-[a-z0-9]+$`)

// New parses the embedded fragment templates.
func New() (*Renderer, error) {
	r := &Renderer{
		funcMap: template.FuncMap{
			"upper": strings.ToUpper,
			// scope renders scoped-style attributes. Names that are not
			// scope attributes are dropped.
			"scope": func(attrs map[string]string) template.HTMLAttr {
				var b strings.Builder
				for _, k := range slices.Sorted(maps.Keys(attrs)) {
					if !scopeAttrName.MatchString(k) {
						continue
					}
					b.WriteString(" " + k)
					if v := attrs[k]; v != "" {
						b.WriteString(`="` + template.HTMLEscapeString(v) + `"`)
					}
				}
				return template.HTMLAttr(b.String())
			},
		},
	}

	tmpl, err := template.New("fragments").Funcs(r.funcMap).ParseFS(fragmentFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

// Fragment renders a named fragment.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// PlaceholderFields lists the editable lines of a new section in the
// order title, body, subtitle, description. lookup returns a field's text
// in the editing locale and whether the section has that field at all.
// Present fields with empty text show a placeholder.
func PlaceholderFields(lookup func(field string) (string, bool)) []PlaceholderField {
	var out []PlaceholderField
	for _, f := range placeholderOrder {
		text, ok := lookup(f.name)
		if !ok {
			continue
		}
		if text == "" {
			text = f.fallback
		}
		out = append(out, PlaceholderField{Name: f.name, Text: text, Heading: f.name == "title"})
	}
	return out
}

var placeholderOrder = []struct{ name, fallback string }{
	{"title", "Title"},
	{"body", "Your text here."},
	{"subtitle", "Subtitle"},
	{"description", "Description"},
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package binding finds the editable regions of a rendered page. The
// static renderer marks them with data-cms-file, data-cms-section,
// data-cms-field and data-cms-type attributes; every region gets the edit
// affordance its type calls for and a target into the document model.
package binding

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"sitecms/internal/docpath"
	"sitecms/internal/document"
)

// Annotation attributes.
const (
	AttrFile          = "data-cms-file"
	AttrSection       = "data-cms-section"
	AttrField         = "data-cms-field"
	AttrType          = "data-cms-type"
	AttrConcertIndex  = "data-cms-concert-index"
	AttrConcertRef    = "data-cms-concert-ref"
	AttrSectionID     = "data-cms-section-id"
	scopeAttrPrefix   = "data-astro-cid"
	concertRowClass   = "concert-row"
	defaultRegionType = TypeText
)

// Region types.
const (
	TypeText            = "text"
	TypeTextarea        = "textarea"
	TypeDate            = "date"
	TypeImage           = "image"
	TypeBackgroundImage = "background-image"
	TypeList            = "list"
	TypeConcertList     = "concert-list"
)

// Affordance is the kind of editor attached to a region.
type Affordance string

const (
	Inline        Affordance = "inline"
	ImagePicker   Affordance = "image-picker"
	ListEditor    Affordance = "list-editor"
	ConcertEditor Affordance = "concert-editor"
	None          Affordance = ""
)

// AffordanceFor returns the affordance of a region type.
func AffordanceFor(typ string) Affordance {
	switch typ {
	case TypeText, TypeTextarea, TypeDate:
		return Inline
	case TypeImage, TypeBackgroundImage:
		return ImagePicker
	case TypeList:
		return ListEditor
	case TypeConcertList:
		return ConcertEditor
	}
	return None
}

// Region is one annotated element.
type Region struct {
	File       string            `json:"file"`
	Section    string            `json:"section,omitempty"`
	Field      string            `json:"field"`
	Type       string            `json:"type"`
	Affordance Affordance        `json:"affordance"`
	Value      string            `json:"value"`
	Scope      map[string]string `json:"scope,omitempty"`
	// Ref names the concert record of a row added in the editing session.
	// Such regions address the record, not the index in Field.
	Ref string `json:"ref,omitempty"`
}

// ConcertField returns the concert field name of a concert region.
func (r Region) ConcertField() string {
	_, last, ok := docpath.Parse(r.Field).Parent()
	if !ok {
		return ""
	}
	return last.String()
}

// Target returns the model address of the region.
func (r Region) Target() document.Target {
	return document.Target{File: r.File, Section: r.Section, Field: docpath.Parse(r.Field)}
}

// List is a list container and its item regions.
type List struct {
	Region
	Items []Region `json:"items"`
}

// ConcertRow is one rendered concert.
type ConcertRow struct {
	Index  int               `json:"index"`
	Ref    string            `json:"ref,omitempty"`
	Fields []Region          `json:"fields"`
	Scope  map[string]string `json:"scope,omitempty"`
}

// ConcertList is a concert-list container.
type ConcertList struct {
	Region
	Rows []ConcertRow `json:"rows"`
}

// Page is everything found in one rendered document.
type Page struct {
	Regions      []Region      `json:"regions"`
	Lists        []List        `json:"lists"`
	ConcertLists []ConcertList `json:"concertLists"`
	SectionIDs   []string      `json:"sectionIds"`
}

// Discover parses a rendered page and collects its annotated regions.
func Discover(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	page := &Page{}
	var walk func(n *html.Node, ref string)
	walk = func(n *html.Node, ref string) {
		if n.Type == html.ElementNode {
			if id := attr(n, AttrSectionID); id != "" {
				page.SectionIDs = append(page.SectionIDs, id)
			}
			if r := attr(n, AttrConcertRef); r != "" {
				ref = r
			}
			switch typ := attr(n, AttrType); {
			case typ == TypeList:
				page.Lists = append(page.Lists, discoverList(n))
			case typ == TypeConcertList:
				page.ConcertLists = append(page.ConcertLists, discoverConcerts(n))
			case hasAttr(n, AttrField) && AffordanceFor(regionType(n)) != None:
				region := regionOf(n)
				region.Ref = ref
				page.Regions = append(page.Regions, region)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, ref)
		}
	}
	walk(doc, "")
	return page, nil
}

// discoverList collects the direct children of a list container that carry
// a field annotation.
func discoverList(n *html.Node) List {
	l := List{Region: regionOf(n)}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasAttr(c, AttrField) {
			l.Items = append(l.Items, regionOf(c))
		}
	}
	return l
}

// discoverConcerts collects every indexed concert row below n.
func discoverConcerts(n *html.Node) ConcertList {
	cl := ConcertList{Region: regionOf(n)}
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && hasClass(c, concertRowClass) {
			if idx, err := strconv.Atoi(attr(c, AttrConcertIndex)); err == nil {
				cl.Rows = append(cl.Rows, concertRow(c, idx))
				return
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return cl
}

func concertRow(n *html.Node, idx int) ConcertRow {
	row := ConcertRow{Index: idx, Ref: attr(n, AttrConcertRef), Scope: scopeAttrs(n)}
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && hasAttr(c, AttrField) {
			field := regionOf(c)
			field.Ref = row.Ref
			row.Fields = append(row.Fields, field)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return row
}

func regionOf(n *html.Node) Region {
	typ := regionType(n)
	r := Region{
		File:       attr(n, AttrFile),
		Section:    attr(n, AttrSection),
		Field:      attr(n, AttrField),
		Type:       typ,
		Affordance: AffordanceFor(typ),
		Scope:      scopeAttrs(n),
	}
	switch typ {
	case TypeImage:
		r.Value = attr(n, "src")
	case TypeBackgroundImage:
		r.Value = BackgroundURL(attr(n, "style"))
	case TypeList, TypeConcertList:
	default:
		r.Value = strings.TrimSpace(textContent(n))
	}
	return r
}

func regionType(n *html.Node) string {
	if t := attr(n, AttrType); t != "" {
		return t
	}
	return defaultRegionType
}

var backgroundImage = regexp.MustCompile(`background-image\s*:\s*url\(\s*['"]?([^'")]*)['"]?\s*\)`)

// BackgroundURL extracts the URL of a background-image declaration from an
// inline style.
func BackgroundURL(style string) string {
	m := backgroundImage.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return m[1]
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == "br":
			b.WriteString("\n")
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(" "+attr(n, "class")+" ", " "+class+" ")
}

// scopeAttrs returns the scoped-style attributes of n.
func scopeAttrs(n *html.Node) map[string]string {
	var out map[string]string
	for _, a := range n.Attr {
		if strings.HasPrefix(a.Key, scopeAttrPrefix) {
			if out == nil {
				out = map[string]string{}
			}
			out[a.Key] = a.Val
		}
	}
	return out
}

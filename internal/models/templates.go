// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"

	"sitecms/internal/i18n"
)

// SectionTypes lists the section types that can be added, in menu order.
var SectionTypes = []string{
	SectionHero,
	SectionText,
	SectionTextImage,
	SectionConcertList,
	SectionContactForm,
	SectionCTA,
	SectionList,
}

// IsSectionType reports whether t has a default content template.
func IsSectionType(t string) bool {
	return slices.Contains(SectionTypes, t)
}

// DefaultContent builds the initial content of a new section of type t.
// Text fields hold the same placeholder for every active locale; image
// URLs, image position and button links are plain.
func DefaultContent(t string, locales []string) (Content, bool) {
	text := func(s string) i18n.Text { return i18n.Uniform(locales, s) }

	switch t {
	case SectionHero:
		return Content{
			"title":    text("Heading"),
			"subtitle": text("Subtitle"),
			"image":    i18n.Plain(""),
		}, true
	case SectionText:
		return Content{
			"title": text(""),
			"body":  text("Your text here."),
		}, true
	case SectionTextImage:
		return Content{
			"title":         text(""),
			"body":          text("Your text here."),
			"image":         i18n.Plain(""),
			"imageAlt":      text(""),
			"imagePosition": i18n.Plain("left"),
		}, true
	case SectionConcertList:
		return Content{
			"upcomingTitle": text("Upcoming"),
			"pastTitle":     text("Past Performances"),
		}, true
	case SectionContactForm:
		return Content{
			"title":     text("Contact"),
			"introText": text("Get in touch."),
		}, true
	case SectionCTA:
		return Content{
			"title":       text("Title"),
			"description": text("Description"),
			"buttonText":  text("Click"),
			"buttonLink":  i18n.Plain("#"),
		}, true
	case SectionList:
		return Content{
			"title": text("Title"),
			"items": []any{text("Item 1")},
		}, true
	}
	return nil, false
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"cmp"
	"slices"
)

// NavItem is one entry of the site navigation.
type NavItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// PagePath returns the public path of a page in locale. The default
// locale has no prefix.
func PagePath(slug, locale, defaultLocale string) string {
	prefix := ""
	if locale != "" && locale != defaultLocale {
		prefix = "/" + locale
	}
	if slug == "" || slug == HomeKey {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + "/" + slug
}

// NavItems returns the pages shown in navigation, ordered by NavOrder.
// Pages with equal NavOrder keep their input order.
func NavItems(pages []*Page, locale, defaultLocale string) []NavItem {
	shown := make([]*Page, 0, len(pages))
	for _, p := range pages {
		if p.ShowInNav {
			shown = append(shown, p)
		}
	}
	slices.SortStableFunc(shown, func(a, b *Page) int {
		return cmp.Compare(a.NavOrder, b.NavOrder)
	})

	items := make([]NavItem, len(shown))
	for i, p := range shown {
		items[i] = NavItem{
			Key:   p.Key(),
			Label: p.Title.Resolve(locale, defaultLocale),
			Href:  PagePath(p.Slug, locale, defaultLocale),
		}
	}
	return items
}

// SPDX-License-Identifier: MIT

// Package catalog derives the category index from parsed channels and
// provides read-side operations over the resulting catalog.
package catalog

import (
	"unicode"
	"unicode/utf8"

	"github.com/ManuGH/m3ucat/internal/m3u"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// AllID identifies the synthetic aggregate entry.
	AllID   = "all"
	allName = "All Channels"

	// DefaultIcon is used for the aggregate and for unmatched categories.
	DefaultIcon = "Tv"
)

// Category is one entry of the derived category index.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

type keywordIcon struct {
	keyword string
	icon    string
}

// iconByKeyword is evaluated in order; first match wins.
var iconByKeyword = []keywordIcon{
	{"news", "Newspaper"},
	{"sports", "Trophy"},
	{"entertainment", "Star"},
	{"movies", "Film"},
	{"music", "Music"},
	{"kids", "Baby"},
}

// IconFor resolves the display icon for a normalized category id.
func IconFor(id string) string {
	for _, ki := range iconByKeyword {
		if containsFold(id, ki.keyword) {
			return ki.icon
		}
	}
	return DefaultIcon
}

// NormalizeCategory returns the category id for a channel category label.
func NormalizeCategory(label string) string {
	return cases.Lower(language.Und).String(label)
}

// displayName upper-cases the first rune of a normalized id.
func displayName(id string) string {
	if id == AllID {
		return allName
	}
	r, size := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return id
	}
	return string(unicode.ToUpper(r)) + id[size:]
}

// Categories aggregates channels into the category index. The synthetic
// "all" entry comes first, followed by one entry per distinct normalized
// category in first-seen order.
func Categories(channels []m3u.Channel) []Category {
	out := []Category{{
		ID:    AllID,
		Name:  allName,
		Icon:  DefaultIcon,
		Count: len(channels),
	}}

	index := make(map[string]int)
	for _, ch := range channels {
		id := NormalizeCategory(ch.Category)
		if i, ok := index[id]; ok {
			out[i].Count++
			continue
		}
		index[id] = len(out)
		out = append(out, Category{
			ID:    id,
			Name:  displayName(id),
			Icon:  IconFor(id),
			Count: 1,
		})
	}

	return out
}

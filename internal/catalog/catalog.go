// SPDX-License-Identifier: MIT

package catalog

import (
	"strings"

	"github.com/ManuGH/m3ucat/internal/m3u"
)

// Catalog is the parse result plus its derived category index. A Catalog
// value is never mutated after Build; operations that change a flag return
// a new Catalog.
type Catalog struct {
	Channels      []m3u.Channel `json:"channels"`
	Categories    []Category    `json:"categories"`
	TotalChannels int           `json:"totalChannels"`
	Metadata      m3u.Metadata  `json:"metadata"`
}

// Build derives the catalog for a parsed playlist. The channel slice is
// copied so the catalog shares no memory with the playlist.
func Build(pl m3u.Playlist) Catalog {
	channels := make([]m3u.Channel, len(pl.Channels))
	copy(channels, pl.Channels)

	meta := pl.Metadata
	meta.Categories = append([]string{}, pl.Metadata.Categories...)
	meta.TotalChannels = len(channels)

	return Catalog{
		Channels:      channels,
		Categories:    Categories(channels),
		TotalChannels: len(channels),
		Metadata:      meta,
	}
}

// Channel returns the channel with the given id.
func (c Catalog) Channel(id string) (m3u.Channel, bool) {
	for _, ch := range c.Channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return m3u.Channel{}, false
}

// ToggleFavorite returns a copy of the catalog with the favorite flag of
// channel id flipped. The second result is false when id is unknown, in
// which case the returned catalog equals the receiver.
func (c Catalog) ToggleFavorite(id string) (Catalog, bool) {
	idx := -1
	for i, ch := range c.Channels {
		if ch.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return c, false
	}

	next := c
	next.Channels = make([]m3u.Channel, len(c.Channels))
	copy(next.Channels, c.Channels)
	next.Channels[idx].IsFavorite = !next.Channels[idx].IsFavorite
	return next, true
}

// Favorites lists favorite channels in catalog order.
func (c Catalog) Favorites() []m3u.Channel {
	return c.Filter(Filter{FavoritesOnly: true})
}

// Filter selects channels for display.
type Filter struct {
	// Category is a category id; empty or "all" selects every category.
	Category string
	// Query is matched case-insensitively against name, description and category.
	Query string
	// FavoritesOnly restricts the result to favorite channels.
	FavoritesOnly bool
}

// Filter returns the channels matching f, in catalog order.
func (c Catalog) Filter(f Filter) []m3u.Channel {
	category := NormalizeCategory(strings.TrimSpace(f.Category))
	query := strings.TrimSpace(f.Query)

	out := []m3u.Channel{}
	for _, ch := range c.Channels {
		if f.FavoritesOnly && !ch.IsFavorite {
			continue
		}
		if category != "" && category != AllID && NormalizeCategory(ch.Category) != category {
			continue
		}
		if query != "" &&
			!containsFold(ch.Name, query) &&
			!containsFold(ch.Description, query) &&
			!containsFold(ch.Category, query) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(NormalizeCategory(s), NormalizeCategory(substr))
}

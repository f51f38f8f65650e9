// SPDX-License-Identifier: MIT

package m3u

import (
	"fmt"
	"strings"
)

const (
	// DefaultCategory is used when a directive carries no group-title.
	DefaultCategory = "General"
	// UnknownValue fills fields the format cannot express.
	UnknownValue = "Unknown"

	// GenericLogo is the placeholder used when no keyword matches.
	GenericLogo = "https://images.pexels.com/photos/1591447/pexels-photo-1591447.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"
)

type keywordAsset struct {
	keyword string
	asset   string
}

// logoByKeyword is evaluated in order; the first keyword contained in the
// lower-cased category wins.
var logoByKeyword = []keywordAsset{
	{"news", "https://images.pexels.com/photos/518543/pexels-photo-518543.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"},
	{"sports", "https://images.pexels.com/photos/274422/pexels-photo-274422.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"},
	{"entertainment", "https://images.pexels.com/photos/1624496/pexels-photo-1624496.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"},
	{"movies", "https://images.pexels.com/photos/7991579/pexels-photo-7991579.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"},
	{"music", "https://images.pexels.com/photos/1763075/pexels-photo-1763075.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"},
	{"kids", "https://images.pexels.com/photos/1148998/pexels-photo-1148998.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"},
}

// DefaultLogo resolves a placeholder logo for a category by keyword.
func DefaultLogo(category string) string {
	lower := strings.ToLower(category)
	for _, kv := range logoByKeyword {
		if strings.Contains(lower, kv.keyword) {
			return kv.asset
		}
	}
	return GenericLogo
}

// draft is a channel under construction, waiting for its locator line.
type draft struct {
	channel Channel
}

// newDraft applies the defaulting rules to a parsed directive. seq is the
// zero-based directive sequence number within the current parse.
func newDraft(d Directive, seq int) *draft {
	name := d.Title
	if name == "" {
		name = fmt.Sprintf("Channel %d", seq+1)
	}

	category := d.GroupTitle
	if category == "" {
		category = DefaultCategory
	}

	logo := d.TvgLogo
	if logo == "" {
		logo = DefaultLogo(category)
	}

	return &draft{channel: Channel{
		ID:           fmt.Sprintf("channel_%d", seq),
		Name:         name,
		Description:  name,
		Category:     category,
		Language:     UnknownValue,
		Country:      UnknownValue,
		IsHD:         strings.Contains(strings.ToLower(d.Title), "hd"),
		Logo:         logo,
		GroupTitle:   d.GroupTitle,
		TvgID:        d.TvgID,
		TvgName:      d.TvgName,
		TvgLogo:      d.TvgLogo,
		RadioStation: d.Radio,
	}}
}

// finalize attaches the locator and returns the completed channel.
func (d *draft) finalize(streamURL string) Channel {
	ch := d.channel
	ch.StreamURL = streamURL
	return ch
}

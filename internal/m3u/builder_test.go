// SPDX-License-Identifier: MIT

package m3u

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDraft_Defaults(t *testing.T) {
	ch := newDraft(Directive{}, 4).finalize("http://example.com/s")

	assert.Equal(t, "channel_4", ch.ID)
	assert.Equal(t, "Channel 5", ch.Name)
	assert.Equal(t, "Channel 5", ch.Description)
	assert.Equal(t, DefaultCategory, ch.Category)
	assert.Equal(t, UnknownValue, ch.Language)
	assert.Equal(t, UnknownValue, ch.Country)
	assert.Equal(t, GenericLogo, ch.Logo)
	assert.Equal(t, "http://example.com/s", ch.StreamURL)
	assert.False(t, ch.IsHD)
	assert.False(t, ch.IsFavorite)
	assert.False(t, ch.RadioStation)
	assert.Empty(t, ch.GroupTitle)
}

func TestNewDraft_ExplicitLogoWins(t *testing.T) {
	ch := newDraft(Directive{TvgLogo: "http://logo/x.png", GroupTitle: "News"}, 0).finalize("http://s")
	assert.Equal(t, "http://logo/x.png", ch.Logo)
	assert.Equal(t, "http://logo/x.png", ch.TvgLogo)
}

func TestNewDraft_HDDetection(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"BBC One HD", true},
		{"bbc one hd", true},
		{"Sky UHD", true},
		{"BBC One", false},
		{"", false},
	}
	for _, tt := range tests {
		ch := newDraft(Directive{Title: tt.title}, 0).finalize("http://s")
		assert.Equal(t, tt.want, ch.IsHD, "title %q", tt.title)
	}
}

func TestDefaultLogo_FirstKeywordWins(t *testing.T) {
	assert.Equal(t, logoByKeyword[0].asset, DefaultLogo("World News"))
	assert.Equal(t, logoByKeyword[1].asset, DefaultLogo("SPORTS"))
	// "news" precedes "sports" in the table.
	assert.Equal(t, logoByKeyword[0].asset, DefaultLogo("sports news"))
	assert.Equal(t, logoByKeyword[5].asset, DefaultLogo("Kids Zone"))
	assert.Equal(t, GenericLogo, DefaultLogo("Documentary"))
}

func TestFinalize_DoesNotMutateDraft(t *testing.T) {
	d := newDraft(Directive{Title: "A"}, 0)
	first := d.finalize("http://one")
	second := d.finalize("http://two")
	assert.Equal(t, "http://one", first.StreamURL)
	assert.Equal(t, "http://two", second.StreamURL)
	assert.Empty(t, d.channel.StreamURL)
}

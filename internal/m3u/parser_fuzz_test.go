// SPDX-License-Identifier: MIT

package m3u

import (
	"strings"
	"testing"
)

func FuzzParse(f *testing.F) {
	f.Add("#EXTM3U\n#EXTINF:-1 tvg-id=\"a\" group-title=\"News\",A\nhttp://a\n")
	f.Add("#EXTINF:-1,\n#EXTINF:-1 radio=\"true\",R\nrtmp://r\n")
	f.Add("http://orphan\n#EXTINF:-1")

	f.Fuzz(func(t *testing.T, content string) {
		pl := Parse(content)
		if pl.Metadata.TotalChannels != len(pl.Channels) {
			t.Fatalf("total %d != len %d", pl.Metadata.TotalChannels, len(pl.Channels))
		}
		seen := make(map[string]struct{}, len(pl.Channels))
		for _, ch := range pl.Channels {
			if ch.StreamURL == "" {
				t.Fatal("channel without stream url")
			}
			if !IsLocator(ch.StreamURL) {
				t.Fatalf("stream url %q lacks a locator scheme", ch.StreamURL)
			}
			if strings.TrimSpace(ch.Name) == "" {
				t.Fatal("channel without name")
			}
			if _, dup := seen[ch.ID]; dup {
				t.Fatalf("duplicate id %s", ch.ID)
			}
			seen[ch.ID] = struct{}{}
		}
	})
}

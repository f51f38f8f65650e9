// SPDX-License-Identifier: MIT

// Package playlist renders catalogs back to M3U.
package playlist

import (
	"bufio"
	"io"
	"strings"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/m3u"
)

// attrSanitizer keeps attribute values inside their quotes and on one line.
var attrSanitizer = strings.NewReplacer(`"`, "'", "\r", " ", "\n", " ")

// titleSanitizer keeps titles on one line. Commas survive, but the parser
// takes the title after the last comma, so a title containing one is
// shortened on re-import.
var titleSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// WriteM3U renders the catalog as an extended M3U playlist. Attributes that
// were absent in the source stay absent, so a re-import yields the same
// defaults.
func WriteM3U(w io.Writer, cat catalog.Catalog) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("#EXTM3U\n")
	if cat.Metadata.Title != "" {
		bw.WriteString("#PLAYLIST:" + titleSanitizer.Replace(cat.Metadata.Title) + "\n")
	}
	for _, ch := range cat.Channels {
		writeEntry(bw, ch)
	}
	return bw.Flush()
}

func writeEntry(bw *bufio.Writer, ch m3u.Channel) {
	bw.WriteString("#EXTINF:-1")
	writeAttr(bw, "tvg-id", ch.TvgID)
	writeAttr(bw, "tvg-name", ch.TvgName)
	writeAttr(bw, "tvg-logo", ch.TvgLogo)
	writeAttr(bw, "group-title", ch.GroupTitle)
	if ch.RadioStation {
		writeAttr(bw, "radio", "true")
	}
	bw.WriteString(",")
	bw.WriteString(titleSanitizer.Replace(ch.Name))
	bw.WriteString("\n")
	bw.WriteString(ch.StreamURL)
	bw.WriteString("\n")
}

func writeAttr(bw *bufio.Writer, key, value string) {
	if value == "" {
		return
	}
	bw.WriteString(" ")
	bw.WriteString(key)
	bw.WriteString(`="`)
	bw.WriteString(attrSanitizer.Replace(value))
	bw.WriteString(`"`)
}

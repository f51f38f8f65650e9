// SPDX-License-Identifier: MIT

package m3u

import (
	"regexp"
	"strings"
)

// DirectivePrefix introduces a channel metadata line.
const DirectivePrefix = "#EXTINF:"

// attributeRegex matches key="value" tokens anywhere on a directive line.
var attributeRegex = regexp.MustCompile(`([A-Za-z0-9_-]+)="([^"]*)"`)

// Directive is the transient attribute set extracted from one #EXTINF line.
// An empty string means the attribute was absent.
type Directive struct {
	TvgID      string
	TvgName    string
	TvgLogo    string
	GroupTitle string
	Radio      bool
	Title      string
}

// ParseDirective extracts the recognized attributes and the trailing title
// from a directive line. Unknown attribute keys are ignored; when a key
// repeats, the last occurrence wins.
//
// The title is whatever follows the last comma, so a title that itself
// contains a comma is truncated to its final segment.
func ParseDirective(line string) Directive {
	var d Directive

	if idx := strings.LastIndex(line, ","); idx != -1 {
		d.Title = strings.TrimSpace(line[idx+1:])
	}

	for _, match := range attributeRegex.FindAllStringSubmatch(line, -1) {
		key, value := match[1], match[2]
		switch strings.ToLower(key) {
		case "tvg-id":
			d.TvgID = value
		case "tvg-name":
			d.TvgName = value
		case "tvg-logo":
			d.TvgLogo = value
		case "group-title":
			d.GroupTitle = value
		case "radio":
			d.Radio = strings.ToLower(value) == "true"
		}
	}

	return d
}

// IsDirective reports whether line starts with the directive prefix.
func IsDirective(line string) bool {
	return strings.HasPrefix(line, DirectivePrefix)
}

// SPDX-License-Identifier: MIT

package m3u

// Channel is one playable catalog entry produced by the parser.
type Channel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Logo         string `json:"logo"`
	Category     string `json:"category"`
	StreamURL    string `json:"streamUrl"`
	Description  string `json:"description"`
	Language     string `json:"language"`
	Country      string `json:"country"`
	IsHD         bool   `json:"isHD"`
	IsFavorite   bool   `json:"isFavorite"`
	GroupTitle   string `json:"groupTitle,omitempty"`
	TvgID        string `json:"tvgId,omitempty"`
	TvgName      string `json:"tvgName,omitempty"`
	TvgLogo      string `json:"tvgLogo,omitempty"`
	RadioStation bool   `json:"radioStation"`
}

// Metadata describes a parsed playlist as a whole.
type Metadata struct {
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	TotalChannels int      `json:"totalChannels"`
	Categories    []string `json:"categories"`
}

// Playlist is the result of one parse call. It is owned by the caller;
// the parser keeps no reference to it.
type Playlist struct {
	Channels []Channel `json:"channels"`
	Metadata Metadata  `json:"metadata"`
}

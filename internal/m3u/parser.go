// SPDX-License-Identifier: MIT

// Package m3u parses extended M3U channel lists into an ordered channel
// sequence.
package m3u

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	xglog "github.com/ManuGH/m3ucat/internal/log"
)

// playlistTitlePrefix names the playlist as a whole; it never affects channels.
const playlistTitlePrefix = "#PLAYLIST:"

// maxLineSize bounds a single line read from a stream. Longer lines are
// skipped like any other unrecognized line.
const maxLineSize = 1024 * 1024

var locatorSchemes = []string{"http", "rtmp", "rtsp"}

// IsLocator reports whether line starts with a recognized stream scheme.
func IsLocator(line string) bool {
	for _, scheme := range locatorSchemes {
		if strings.HasPrefix(line, scheme) {
			return true
		}
	}
	return false
}

type state int

const (
	stateIdle state = iota
	stateAwaitingLocator
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingLocator:
		return "awaiting_locator"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// machine is the per-call parse state. Nothing in it outlives one parse.
type machine struct {
	state      state
	pending    *draft
	directives int
	channels   []Channel
	title      string

	// groups lists group-title values in first-seen order as directives are
	// read, including those of drafts that are later discarded.
	groups []string
	seen   map[string]struct{}

	discarded int // drafts replaced or left pending at end of input
	orphans   int // locator lines with no pending draft
	oversized int // stream lines longer than maxLineSize
}

func (m *machine) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	switch {
	case IsDirective(line):
		if m.state == stateAwaitingLocator {
			m.discarded++
		}
		d := ParseDirective(line)
		m.recordGroup(d.GroupTitle)
		m.pending = newDraft(d, m.directives)
		m.directives++
		m.state = stateAwaitingLocator

	case IsLocator(line):
		if m.state != stateAwaitingLocator {
			m.orphans++
			return
		}
		m.channels = append(m.channels, m.pending.finalize(line))
		m.pending = nil
		m.state = stateIdle

	case strings.HasPrefix(line, playlistTitlePrefix):
		if m.title == "" {
			m.title = strings.TrimSpace(strings.TrimPrefix(line, playlistTitlePrefix))
		}
	}
}

func (m *machine) recordGroup(group string) {
	if group == "" {
		return
	}
	if m.seen == nil {
		m.seen = make(map[string]struct{})
	}
	if _, ok := m.seen[group]; ok {
		return
	}
	m.seen[group] = struct{}{}
	m.groups = append(m.groups, group)
}

func (m *machine) finish() Playlist {
	if m.state == stateAwaitingLocator {
		m.discarded++
		m.pending = nil
		m.state = stateIdle
	}

	channels := m.channels
	if channels == nil {
		channels = []Channel{}
	}

	categories := m.groups
	if categories == nil {
		categories = []string{}
	}

	if m.discarded > 0 || m.orphans > 0 || m.oversized > 0 {
		logger := xglog.WithComponent("m3u")
		logger.Debug().
			Str(xglog.FieldEvent, "m3u.parse_anomalies").
			Int("discarded_drafts", m.discarded).
			Int("orphan_locators", m.orphans).
			Int("oversized_lines", m.oversized).
			Int(xglog.FieldChannels, len(channels)).
			Msg("tolerated malformed playlist entries")
	}

	return Playlist{
		Channels: channels,
		Metadata: Metadata{
			Title:         m.title,
			TotalChannels: len(channels),
			Categories:    categories,
		},
	}
}

// Parse parses M3U content in a single pass. Malformed entries are skipped,
// never reported: a directive without a locator yields no channel.
func Parse(content string) Playlist {
	var m machine
	for _, line := range strings.Split(content, "\n") {
		m.feed(line)
	}
	return m.finish()
}

// ParseReader is Parse over a stream. Lines longer than maxLineSize are
// skipped without buffering them whole. It only fails when reading fails.
func ParseReader(r io.Reader) (Playlist, error) {
	var m machine

	br := bufio.NewReaderSize(r, 64*1024)
	line := make([]byte, 0, 64*1024)
	overlong := false
	for {
		chunk, more, err := br.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Playlist{}, fmt.Errorf("read playlist: %w", err)
		}

		if !overlong && len(line)+len(chunk) > maxLineSize {
			overlong = true
			line = line[:0]
		}
		if !overlong {
			line = append(line, chunk...)
		}
		if more {
			continue
		}

		if overlong {
			m.oversized++
		} else {
			m.feed(string(line))
		}
		line = line[:0]
		overlong = false
	}

	return m.finish(), nil
}

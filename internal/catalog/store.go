// SPDX-License-Identifier: MIT

package catalog

import (
	"sort"
	"sync"
)

// Update is published to subscribers whenever a source's catalog changes.
type Update struct {
	Source  string
	Catalog Catalog
}

// Store holds the latest catalog per source with atomic replacement.
// It is in-memory only.
type Store struct {
	mu       sync.RWMutex
	catalogs map[string]Catalog

	subMu       sync.RWMutex
	nextSub     uint64
	subscribers map[uint64]chan<- Update
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		catalogs:    make(map[string]Catalog),
		subscribers: make(map[uint64]chan<- Update),
	}
}

// Set replaces the catalog for source and notifies subscribers.
func (s *Store) Set(source string, c Catalog) {
	s.mu.Lock()
	s.catalogs[source] = c
	s.mu.Unlock()

	s.notify(Update{Source: source, Catalog: c})
}

// SetBounded is Set for callers that may introduce new source names. It
// refuses a source not yet present once the store holds limit catalogs.
func (s *Store) SetBounded(source string, c Catalog, limit int) bool {
	s.mu.Lock()
	if _, exists := s.catalogs[source]; !exists && len(s.catalogs) >= limit {
		s.mu.Unlock()
		return false
	}
	s.catalogs[source] = c
	s.mu.Unlock()

	s.notify(Update{Source: source, Catalog: c})
	return true
}

// Has reports whether a catalog is loaded for source.
func (s *Store) Has(source string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.catalogs[source]
	return ok
}

// Get returns the catalog for source.
func (s *Store) Get(source string) (Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.catalogs[source]
	return c, ok
}

// Names returns the loaded source names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.catalogs))
	for name := range s.catalogs {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of loaded sources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalogs)
}

// ToggleFavorite flips a channel's favorite flag on the store's copy of the
// source catalog. It reports false when the source or channel is unknown.
func (s *Store) ToggleFavorite(source, channelID string) (Catalog, bool) {
	s.mu.Lock()
	current, ok := s.catalogs[source]
	if !ok {
		s.mu.Unlock()
		return Catalog{}, false
	}
	next, ok := current.ToggleFavorite(channelID)
	if !ok {
		s.mu.Unlock()
		return current, false
	}
	s.catalogs[source] = next
	s.mu.Unlock()

	s.notify(Update{Source: source, Catalog: next})
	return next, true
}

// Subscribe registers ch for updates and returns a func that removes it
// again; calling that func more than once is harmless. Sends never block: a
// subscriber that is not ready misses the update.
func (s *Store) Subscribe(ch chan<- Update) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subscribers)
}

func (s *Store) notify(u Update) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- u:
		default:
		}
	}
}

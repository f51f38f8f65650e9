// SPDX-License-Identifier: MIT

package catalog

import (
	"sync"
	"testing"

	"github.com/ManuGH/m3ucat/internal/m3u"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetNames(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())

	s.Set("b", Build(m3u.Parse(fixture)))
	s.Set("a", Build(m3u.Playlist{}))

	assert.Equal(t, []string{"a", "b"}, s.Names())
	assert.Equal(t, 2, s.Len())

	c, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, 5, c.TotalChannels)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_ToggleFavorite(t *testing.T) {
	s := NewStore()
	original := Build(m3u.Parse(fixture))
	s.Set("main", original)

	updates := make(chan Update, 1)
	s.Subscribe(updates)

	next, ok := s.ToggleFavorite("main", "channel_0")
	require.True(t, ok)
	assert.True(t, next.Channels[0].IsFavorite)
	assert.False(t, original.Channels[0].IsFavorite)

	stored, _ := s.Get("main")
	assert.True(t, stored.Channels[0].IsFavorite)

	u := <-updates
	assert.Equal(t, "main", u.Source)
	assert.True(t, u.Catalog.Channels[0].IsFavorite)

	_, ok = s.ToggleFavorite("main", "nope")
	assert.False(t, ok)
	_, ok = s.ToggleFavorite("nope", "channel_0")
	assert.False(t, ok)
}

func TestStore_SubscriberNeverBlocks(t *testing.T) {
	s := NewStore()
	s.Subscribe(make(chan Update)) // unbuffered, never read

	done := make(chan struct{})
	go func() {
		s.Set("x", Catalog{})
		close(done)
	}()
	<-done
}

func TestStore_SetBounded(t *testing.T) {
	s := NewStore()
	c := Build(m3u.Parse(fixture))

	assert.True(t, s.SetBounded("a", c, 2))
	assert.True(t, s.SetBounded("b", c, 2))
	assert.False(t, s.SetBounded("c", c, 2))
	assert.False(t, s.Has("c"))
	assert.True(t, s.SetBounded("a", Catalog{}, 2), "existing names are replaced at the limit")
	assert.Equal(t, 2, s.Len())
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore()
	updates := make(chan Update, 4)
	unsubscribe := s.Subscribe(updates)
	other := s.Subscribe(make(chan Update, 1))
	require.Equal(t, 2, s.subscriberCount())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, s.subscriberCount())

	s.Set("x", Catalog{})
	assert.Empty(t, updates)

	other()
	assert.Zero(t, s.subscriberCount())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	c := Build(m3u.Parse(fixture))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set("main", c)
			s.ToggleFavorite("main", "channel_1")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get("main")
			_ = s.Names()
		}()
	}
	wg.Wait()

	got, ok := s.Get("main")
	require.True(t, ok)
	assert.Equal(t, 5, got.TotalChannels)
}

// SPDX-License-Identifier: MIT

package playlist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/m3u"
)

func exportedChannels(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1
	}
	return m3u.Parse(string(data)).Metadata.TotalChannels
}

func TestExporter_WritesOnUpdate(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "out.m3u")
	store := catalog.NewStore()
	store.Set("main", catalog.Build(m3u.Parse("#EXTINF:-1,A\nhttp://a\n")))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewExporter(store, "main", path).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return exportedChannels(path) == 1 }, 2*time.Second, 10*time.Millisecond)

	// Updates for other sources are ignored.
	store.Set("other", catalog.Build(m3u.Parse("#EXTINF:-1,X\nhttp://x\n#EXTINF:-1,Y\nhttp://y\n")))
	store.Set("main", catalog.Build(m3u.Parse(source)))
	require.Eventually(t, func() bool { return exportedChannels(path) == 3 }, 2*time.Second, 10*time.Millisecond)

	_, ok := store.ToggleFavorite("main", "channel_0")
	require.True(t, ok)

	cancel()
	<-done
	assert.Equal(t, 3, exportedChannels(path))
}

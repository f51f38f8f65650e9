// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("M3UCAT_DATA", t.TempDir())

	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Empty(t, cfg.Sources)
	assert.Equal(t, 32, cfg.API.MaxSources)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
listenAddr: ":9000"
dataDir: "`+dir+`"
exportPath: "export.m3u"
sources:
  - name: iptv
    url: "https://example.com/list.m3u"
  - name: local
    path: "/srv/playlists/home.m3u8"
    watch: true
fetch:
  timeout: 5s
  burst: 10
api:
  rateLimitRequests: 30
  maxSources: 4
`)
	t.Setenv("M3UCAT_LISTEN", ":9100")
	t.Setenv("M3UCAT_FETCH_TIMEOUT", "7s")
	t.Setenv("M3UCAT_API_MAX_SOURCES", "6")

	loader := NewLoader(path, "dev")
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ListenAddr)
	assert.Equal(t, 7*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 10, cfg.Fetch.Burst)
	assert.Equal(t, 30, cfg.API.RateLimitRequests)
	assert.Equal(t, 6, cfg.API.MaxSources)
	assert.Equal(t, filepath.Join(dir, "export.m3u"), cfg.ExportPath)
	assert.Equal(t, "iptv", cfg.ExportSource)

	want := []SourceConfig{
		{Name: "iptv", URL: "https://example.com/list.m3u"},
		{Name: "local", Path: "/srv/playlists/home.m3u8", Watch: true},
	}
	if diff := cmp.Diff(want, cfg.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, loader.ConsumedEnvKeys, "M3UCAT_LISTEN")
}

func TestLoadEnvSourceReplacesNamedSource(t *testing.T) {
	path := writeConfig(t, `
dataDir: "`+t.TempDir()+`"
sources:
  - name: default
    url: "https://old.example.com/a.m3u"
`)
	t.Setenv("M3UCAT_SOURCE_PATH", "/tmp/new.m3u")

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, SourceConfig{Name: "default", Path: "/tmp/new.m3u"}, cfg.Sources[0])
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, "listenAddr: \":1\"\nbogus: true\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoadRejectsNonYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := NewLoader(path, "dev").Load()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "listenAddr: \":1\"\n---\nlistenAddr: \":2\"\n")

	_, err := NewLoader(path, "dev").Load()
	assert.ErrorContains(t, err, "multiple documents")
}

func TestLoadEmptyFile(t *testing.T) {
	t.Setenv("M3UCAT_DATA", t.TempDir())
	path := writeConfig(t, "")

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadInvalidDuration(t *testing.T) {
	path := writeConfig(t, "fetch:\n  timeout: forever\n")

	_, err := NewLoader(path, "dev").Load()
	assert.ErrorContains(t, err, "fetch.timeout")
}

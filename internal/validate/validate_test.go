// SPDX-License-Identifier: MIT

package validate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Empty(t *testing.T) {
	v := New()
	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid http", "http://example.com/list.m3u", false},
		{"valid https", "https://example.com/get.php?type=m3u", false},
		{"empty", "", true},
		{"no host", "http:///path", true},
		{"bad scheme", "ftp://example.com/list.m3u", true},
		{"unparseable", "http://[::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("url", tt.value, []string{"http", "https"})
			assert.Equal(t, tt.wantErr, !v.IsValid())
		})
	}
}

func TestGenericRules(t *testing.T) {
	v := New()
	Positive(v, "timeout", time.Second)
	Positive(v, "bytes", int64(1))
	NotNegative(v, "rate", 0.0)
	Between(v, "sampling", 0.5, 0, 1)
	assert.True(t, v.IsValid())

	Positive(v, "timeout", time.Duration(0))
	Positive(v, "burst", -1)
	NotNegative(v, "rate", -0.5)
	Between(v, "sampling", 1.5, 0, 1)
	require.Len(t, v.Errors(), 4)
	assert.Equal(t, "must be positive, got 0s", v.Errors()[0].Message)
	assert.Equal(t, "value must be between 0 and 1, got 1.5", v.Errors()[3].Message)
}

func TestValidator_OneOf(t *testing.T) {
	v := New()
	v.OneOf("exporter", "grpc", []string{"grpc", "http"})
	assert.True(t, v.IsValid())
	v.OneOf("exporter", "udp", []string{"grpc", "http"})
	require.Len(t, v.Errors(), 1)
	assert.Contains(t, v.Errors()[0].Message, `got "udp"`)
}

func TestValidator_Extension(t *testing.T) {
	allowed := []string{".m3u", ".m3u8"}

	v := New()
	v.Extension("file", "list.M3U8", allowed)
	v.Extension("file", "/tmp/channels.m3u", allowed)
	assert.True(t, v.IsValid())

	v.Extension("file", "list.txt", allowed)
	v.Extension("file", "noext", allowed)
	assert.Len(t, v.Errors(), 2)
}

func TestValidator_Directory(t *testing.T) {
	tmp := t.TempDir()

	v := New()
	created := filepath.Join(tmp, "data")
	v.Directory("dataDir", created, false)
	require.True(t, v.IsValid())
	info, err := os.Stat(created)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	v.Directory("dataDir", filepath.Join(tmp, "missing"), true)
	v.Directory("dataDir", "../escape", false)
	v.Directory("dataDir", "", false)

	file := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	v.Directory("dataDir", file, true)

	assert.Len(t, v.Errors(), 4)
}

func TestValidationError_Message(t *testing.T) {
	v := New()
	v.NotEmpty("name", " ")
	err := v.Err()
	require.Error(t, err)
	assert.Equal(t, "validation failed for name: value cannot be empty", err.Error())

	v.OneOf("level", "verbose", LogLevels)
	err = v.Err()
	assert.Contains(t, err.Error(), "; validation failed for level: value must be one of")

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors(), 2)
}

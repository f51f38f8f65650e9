// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const samplePlaylist = "#EXTM3U\n#EXTINF:-1 group-title=\"News\",Café TV\nhttp://example.com/cafe\n"

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func xzBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecodeText(t *testing.T) {
	latin1 := []byte("#EXTINF:-1 group-title=\"News\",Caf\xe9 TV\nhttp://example.com/cafe\n")

	tests := []struct {
		name        string
		raw         []byte
		contentType string
		charset     string
		compression string
	}{
		{"plain utf-8", []byte(samplePlaylist), "", "utf-8", compressionNone},
		{"utf-8 bom", append([]byte{0xef, 0xbb, 0xbf}, samplePlaylist...), "", "utf-8", compressionNone},
		{"gzip", gzipBytes(t, samplePlaylist), "", "utf-8", compressionGzip},
		{"xz", xzBytes(t, samplePlaylist), "", "utf-8", compressionXZ},
		{"declared latin1", latin1, "audio/x-mpegurl; charset=iso-8859-1", "windows-1252", compressionNone},
		{"sniffed latin1", latin1, "", "windows-1252", compressionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := decodeText(tt.raw, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.charset, dec.charset)
			assert.Equal(t, tt.compression, dec.compression)
			assert.Contains(t, string(dec.text), "Café TV")
			assert.False(t, bytes.HasPrefix(dec.text, utf8BOM))
		})
	}
}

func TestDecodeText_CorruptGzip(t *testing.T) {
	raw := gzipBytes(t, samplePlaylist)
	raw = raw[:len(raw)-6]

	_, err := decodeText(raw, "")
	assert.ErrorContains(t, err, "gzip")
}

func TestDecodeText_Empty(t *testing.T) {
	dec, err := decodeText(nil, "")
	require.NoError(t, err)
	assert.Empty(t, dec.text)
}

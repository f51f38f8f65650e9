// SPDX-License-Identifier: MIT

package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Compression names reported by decompress.
const (
	compressionNone = "none"
	compressionGzip = "gzip"
	compressionXZ   = "xz"
)

// sniffPeek is how much content DetermineEncoding inspects.
const sniffPeek = 1024

// decompress wraps r according to its magic bytes.
func decompress(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return zr, compressionGzip, nil
	case bytes.HasPrefix(head, xzMagic):
		zr, err := xz.NewReader(br)
		if err != nil {
			return nil, "", fmt.Errorf("xz: %w", err)
		}
		return zr, compressionXZ, nil
	default:
		return br, compressionNone, nil
	}
}

// decoded is playlist content after decompression and transcoding.
type decoded struct {
	text        []byte
	charset     string
	compression string
}

// decodeText decompresses raw and transcodes it to UTF-8. contentType is
// the declared media type, if any; without a charset parameter the encoding
// is sniffed from the content.
func decodeText(raw []byte, contentType string) (decoded, error) {
	r, compression, err := decompress(bytes.NewReader(raw))
	if err != nil {
		return decoded{}, err
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return decoded{}, fmt.Errorf("decompress %s: %w", compression, err)
	}
	out := decoded{compression: compression, charset: "utf-8"}

	if !declaresCharset(contentType) && utf8.Valid(plain) {
		out.text = bytes.TrimPrefix(plain, utf8BOM)
		return out, nil
	}

	peek := plain
	if len(peek) > sniffPeek {
		peek = peek[:sniffPeek]
	}
	enc, name, _ := charset.DetermineEncoding(peek, contentType)
	out.charset = name
	if name == "utf-8" {
		out.text = bytes.TrimPrefix(plain, utf8BOM)
		return out, nil
	}

	text, _, err := transform.Bytes(enc.NewDecoder(), plain)
	if err != nil {
		return decoded{}, fmt.Errorf("transcode %s: %w", name, err)
	}
	out.text = text
	return out, nil
}

func declaresCharset(contentType string) bool {
	if contentType == "" {
		return false
	}
	_, params, err := mime.ParseMediaType(contentType)
	return err == nil && params["charset"] != ""
}

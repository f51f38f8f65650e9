// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/m3ucat/internal/metrics"
)

func TestValidateExtension(t *testing.T) {
	for _, name := range []string{"list.m3u", "LIST.M3U8", "/a/b/c.m3u8"} {
		assert.NoError(t, ValidateExtension(name), name)
	}

	for _, name := range []string{"list.txt", "list", "list.m3u.bak", ".m3"} {
		err := ValidateExtension(name)
		var fe *FormatError
		assert.ErrorAs(t, err, &fe, name)
		assert.ErrorIs(t, err, ErrFormat, name)
	}
}

func TestFormatError_Message(t *testing.T) {
	assert.Equal(t, `invalid file format: ".txt" (expected .m3u or .m3u8)`, ValidateExtension("a.txt").Error())
	assert.Contains(t, ValidateExtension("playlist").Error(), "has no extension")
}

func TestRetrievalError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &RetrievalError{URI: "http://x", Status: "unreachable", Err: cause}
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to fetch playlist: unreachable: dial tcp: refused", err.Error())

	bare := &RetrievalError{StatusCode: 404, Status: "Not Found"}
	assert.ErrorIs(t, bare, ErrRetrieval)
	assert.Equal(t, "failed to fetch playlist: Not Found", bare.Error())
}

func TestReadError_Unwrap(t *testing.T) {
	err := &ReadError{Name: "a.m3u", Err: fs.ErrNotExist}
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrRetrieval)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeSuccess, Outcome(nil))
	assert.Equal(t, metrics.OutcomeFormatError, Outcome(ValidateExtension("x.txt")))
	assert.Equal(t, metrics.OutcomeRetrievalError, Outcome(&RetrievalError{Status: "x"}))
	assert.Equal(t, metrics.OutcomeReadError, Outcome(&ReadError{Err: errors.New("x")}))
	assert.Equal(t, metrics.OutcomeCanceled, Outcome(context.Canceled))
}

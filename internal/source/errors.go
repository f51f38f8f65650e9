// SPDX-License-Identifier: MIT

package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ManuGH/m3ucat/internal/metrics"
)

// Sentinels for errors.Is matching of the load error taxonomy.
var (
	ErrRetrieval = errors.New("playlist retrieval failed")
	ErrRead      = errors.New("playlist read failed")
	ErrFormat    = errors.New("unsupported playlist format")

	// ErrSourceLimit is returned when publishing would add a source beyond
	// the configured maximum.
	ErrSourceLimit = errors.New("source limit reached")
)

// Extensions accepted for file-based sources, compared case-insensitively.
var Extensions = []string{".m3u", ".m3u8"}

// RetrievalError reports a remote fetch that did not succeed. Status is the
// human-readable status description ("404 Not Found") when the server
// answered, or a short reason when it did not.
type RetrievalError struct {
	URI        string
	StatusCode int
	Status     string
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch playlist: %s: %v", e.Status, e.Err)
	}
	return "failed to fetch playlist: " + e.Status
}

// Unwrap exposes both the sentinel and the transport cause.
func (e *RetrievalError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRetrieval}
	}
	return []error{ErrRetrieval, e.Err}
}

// ReadError reports content that could not be read as playlist text.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read playlist %q: %v", e.Name, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ReadError) Unwrap() []error { return []error{ErrRead, e.Err} }

// FormatError reports a file name without a playlist extension.
type FormatError struct {
	Name      string
	Extension string
}

func (e *FormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("invalid file format: %q has no extension (expected %s)", e.Name, strings.Join(Extensions, " or "))
	}
	return fmt.Sprintf("invalid file format: %q (expected %s)", e.Extension, strings.Join(Extensions, " or "))
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ValidateExtension returns a *FormatError unless name ends in one of
// Extensions.
func ValidateExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range Extensions {
		if ext == allowed {
			return nil
		}
	}
	return &FormatError{Name: filepath.Base(name), Extension: ext}
}

// Outcome maps a load error to its metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrFormat):
		return metrics.OutcomeFormatError
	case errors.Is(err, ErrRetrieval):
		return metrics.OutcomeRetrievalError
	case errors.Is(err, ErrRead):
		return metrics.OutcomeReadError
	default:
		return metrics.OutcomeCanceled
	}
}

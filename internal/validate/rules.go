// SPDX-License-Identifier: MIT

package validate

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LogLevels lists the accepted log level names.
var LogLevels = []string{"debug", "info", "warn", "error"}

// URL requires an absolute URL with a host and one of schemes.
func (v *Validator) URL(field, value string, schemes []string) {
	if value == "" {
		v.AddError(field, "URL cannot be empty", value)
		return
	}
	u, err := url.Parse(value)
	switch {
	case err != nil:
		v.AddError(field, fmt.Sprintf("invalid URL: %v", err), value)
	case u.Host == "":
		v.AddError(field, "URL must have a host", value)
	case len(schemes) > 0 && !slices.Contains(schemes, u.Scheme):
		v.AddError(field, fmt.Sprintf("unsupported URL scheme %q (allowed: %v)", u.Scheme, schemes), value)
	}
}

// Directory requires path to be a directory. A missing directory is created
// unless mustExist is set.
func (v *Validator) Directory(field, path string, mustExist bool) {
	if path == "" {
		v.AddError(field, "directory path cannot be empty", path)
		return
	}
	if slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "..") {
		v.AddError(field, "path contains traversal sequences (..)", path)
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid path: %v", err), path)
		return
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist) && mustExist:
		v.AddError(field, "directory does not exist", path)
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(abs, 0o750); err != nil {
			v.AddError(field, fmt.Sprintf("cannot create directory: %v", err), path)
		}
	case err != nil:
		v.AddError(field, fmt.Sprintf("cannot access directory: %v", err), path)
	case !info.IsDir():
		v.AddError(field, "path is not a directory", path)
	}
}

// NotEmpty rejects empty and whitespace-only strings.
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "value cannot be empty", value)
	}
}

func (v *Validator) OneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v.AddError(field, fmt.Sprintf("value must be one of %v, got %q", allowed, value), value)
	}
}

// Extension compares the file extension of name case-insensitively.
func (v *Validator) Extension(field, name string, allowed []string) {
	ext := strings.ToLower(filepath.Ext(name))
	if slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, ext) }) {
		return
	}
	v.AddError(field, fmt.Sprintf("file extension %q not allowed (allowed: %v)", ext, allowed), name)
}

// Positive requires value > 0. It accepts any ordered number, durations included.
func Positive[T cmp.Ordered](v *Validator, field string, value T) {
	var zero T
	if value <= zero {
		v.AddError(field, fmt.Sprintf("must be positive, got %v", value), value)
	}
}

// NotNegative requires value >= 0.
func NotNegative[T cmp.Ordered](v *Validator, field string, value T) {
	var zero T
	if value < zero {
		v.AddError(field, fmt.Sprintf("must not be negative, got %v", value), value)
	}
}

// Between requires lo <= value <= hi.
func Between[T cmp.Ordered](v *Validator, field string, value, lo, hi T) {
	if value < lo || value > hi {
		v.AddError(field, fmt.Sprintf("value must be between %v and %v, got %v", lo, hi, value), value)
	}
}

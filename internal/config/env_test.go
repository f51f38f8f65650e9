// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		envSet       bool
		want         string
	}{
		{name: "environment variable set", key: "TEST_STRING", defaultValue: "default", envValue: "from-env", envSet: true, want: "from-env"},
		{name: "environment variable not set", key: "TEST_STRING_UNSET", defaultValue: "default", want: "default"},
		{name: "environment variable empty string", key: "TEST_STRING_EMPTY", defaultValue: "default", envValue: "", envSet: true, want: "default"},
		{name: "sensitive variable (token)", key: "TEST_TOKEN", defaultValue: "default", envValue: "secret123", envSet: true, want: "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.want, ParseString(tt.key, tt.defaultValue))
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  bool
	}{
		{"true", true}, {"TRUE", true}, {"1", true}, {"yes", true},
		{"false", false}, {"0", false}, {"No", false},
		{"maybe", true}, // invalid falls back to default
	} {
		t.Setenv("TEST_BOOL", tc.value)
		assert.Equal(t, tc.want, ParseBool("TEST_BOOL", true), tc.value)
	}
}

func TestParseNumericFallbacks(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty")
	t.Setenv("TEST_DURATION", "250ms")
	t.Setenv("TEST_DURATION_BAD", "soon")
	t.Setenv("TEST_FLOAT", "0.25")
	t.Setenv("TEST_INT64", "1048576")

	assert.Equal(t, 42, ParseInt("TEST_INT", 7))
	assert.Equal(t, 7, ParseInt("TEST_INT_BAD", 7))
	assert.Equal(t, 250*time.Millisecond, ParseDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, ParseDuration("TEST_DURATION_BAD", time.Second))
	assert.InDelta(t, 0.25, ParseFloat("TEST_FLOAT", 1), 1e-9)
	assert.Equal(t, int64(1048576), ParseInt64("TEST_INT64", 0))
}

func TestMaskURL(t *testing.T) {
	assert.Equal(t, "http://redacted@example.com/list.m3u", MaskURL("http://user:pw@example.com/list.m3u"))
	assert.Equal(t, "http://example.com/get.php?password=redacted&username=bob",
		MaskURL("http://example.com/get.php?username=bob&password=hunter2"))
	assert.Equal(t, "not a url", MaskURL("not a url"))
}

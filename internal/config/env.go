// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/m3ucat/internal/log"
	"github.com/rs/zerolog"
)

// ParseString reads a string from environment variable or returns default value.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		lowerKey := strings.ToLower(key)
		switch {
		case strings.Contains(lowerKey, "token") || strings.Contains(lowerKey, "password"):
			logger.Debug().
				Str("key", key).
				Str("source", "environment").
				Bool("sensitive", true).
				Msg("using environment variable")
		case value == "":
			logger.Debug().
				Str("key", key).
				Str("default", defaultValue).
				Str("source", "default").
				Msg("using default value (environment variable is empty)")
			return defaultValue
		default:
			logger.Debug().
				Str("key", key).
				Str("value", maskURL(value)).
				Str("source", "environment").
				Msg("using environment variable")
		}
		return value
	}
	logger.Debug().
		Str("key", key).
		Str("default", defaultValue).
		Str("source", "default").
		Msg("using default value")
	return defaultValue
}

// ParseInt reads an integer from environment variable or returns default value.
// It falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		warnInvalid(key, v, "integer")
		return defaultValue
	}
	return i
}

// ParseInt64 reads an int64 from environment variable or returns default value.
func ParseInt64(key string, defaultValue int64) int64 {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		warnInvalid(key, v, "integer")
		return defaultValue
	}
	return i
}

// ParseDuration reads a duration in Go format (e.g. "5s") or returns default value.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		warnInvalid(key, v, "duration")
		return defaultValue
	}
	return d
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		warnInvalid(key, v, "boolean")
		return defaultValue
	}
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	v, ok := lookupNonEmpty(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		warnInvalid(key, v, "float")
		return defaultValue
	}
	return f
}

func lookupNonEmpty(key string) (string, bool) {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().
			Str("key", key).
			Str("source", "default").
			Msg("using default value")
		return "", false
	}
	logger.Debug().
		Str("key", key).
		Str("value", v).
		Str("source", "environment").
		Msg("using environment variable")
	return v, true
}

func warnInvalid(key, value, kind string) {
	logger := log.WithComponent("config")
	logger.Warn().
		Str("key", key).
		Str("value", value).
		Msgf("invalid %s in environment variable, using default", kind)
}

// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"regexp"

	"github.com/ManuGH/m3ucat/internal/validate"
)

// sourceNamePattern keeps source names safe as URL path segments and metric labels.
var sourceNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// playlistExtensions are the local file extensions a source may point at.
var playlistExtensions = []string{".m3u", ".m3u8"}

// Validate validates the configuration and returns all accumulated errors.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.NotEmpty("ListenAddr", cfg.ListenAddr)
	v.OneOf("LogLevel", cfg.LogLevel, validate.LogLevels)
	v.Directory("DataDir", cfg.DataDir, false)

	seen := make(map[string]struct{}, len(cfg.Sources))
	for i, src := range cfg.Sources {
		field := fmt.Sprintf("Sources[%d]", i)
		if !sourceNamePattern.MatchString(src.Name) {
			v.AddError(field+".Name", "must match "+sourceNamePattern.String(), src.Name)
		}
		if _, dup := seen[src.Name]; dup {
			v.AddError(field+".Name", "duplicate source name", src.Name)
		}
		seen[src.Name] = struct{}{}

		switch {
		case src.URL != "" && src.Path != "":
			v.AddError(field, "url and path are mutually exclusive", src.Name)
		case src.URL != "":
			v.URL(field+".URL", src.URL, []string{"http", "https"})
			if src.Watch {
				v.AddError(field+".Watch", "watch is only supported for local paths", src.Name)
			}
		case src.Path != "":
			v.Extension(field+".Path", src.Path, playlistExtensions)
		default:
			v.AddError(field, "one of url or path is required", src.Name)
		}
	}

	if cfg.ExportPath != "" {
		if _, ok := seen[cfg.ExportSource]; !ok {
			v.AddError("ExportSource", "must name a configured source", cfg.ExportSource)
		}
		v.Extension("ExportPath", cfg.ExportPath, playlistExtensions)
	}

	validate.Positive(v, "Fetch.Timeout", cfg.Fetch.Timeout)
	validate.Positive(v, "Fetch.MaxBodyBytes", cfg.Fetch.MaxBodyBytes)
	validate.NotNegative(v, "Fetch.RatePerSecond", cfg.Fetch.RatePerSecond)
	if cfg.Fetch.RatePerSecond > 0 {
		validate.Positive(v, "Fetch.Burst", cfg.Fetch.Burst)
	}

	validate.Positive(v, "API.RateLimitRequests", cfg.API.RateLimitRequests)
	validate.Positive(v, "API.RateLimitWindow", cfg.API.RateLimitWindow)
	validate.Positive(v, "API.MaxUploadBytes", cfg.API.MaxUploadBytes)
	validate.Positive(v, "API.MaxSources", cfg.API.MaxSources)
	validate.Positive(v, "WatchDebounce", cfg.WatchDebounce)

	if cfg.Tracing.Enabled {
		v.OneOf("Tracing.Exporter", cfg.Tracing.Exporter, []string{"grpc", "http"})
		v.NotEmpty("Tracing.Endpoint", cfg.Tracing.Endpoint)
		validate.Between(v, "Tracing.SamplingRate", cfg.Tracing.SamplingRate, 0, 1)
	}

	return v.Err()
}

// ValidSourceName reports whether name is usable as a source name.
func ValidSourceName(name string) bool {
	return sourceNamePattern.MatchString(name)
}

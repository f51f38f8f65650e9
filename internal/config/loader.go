// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSourceName is the source name used when a single source is
// configured through the environment.
const DefaultSourceName = "default"

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envInt64(key string, defaultVal int64) int64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt64(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order is strict: parse file, apply env, validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)

	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.ExportPath != "" && !filepath.IsAbs(cfg.ExportPath) {
		cfg.ExportPath = filepath.Join(cfg.DataDir, cfg.ExportPath)
	}
	if cfg.ExportSource == "" && len(cfg.Sources) > 0 {
		cfg.ExportSource = cfg.Sources[0].Name
	}

	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr: ":8080",
		LogLevel:   "info",
		LogService: "m3ucat",
		DataDir:    "data",
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			MaxBodyBytes:  64 << 20,
			UserAgent:     "m3ucat",
			RatePerSecond: 2,
			Burst:         4,
		},
		API: APIConfig{
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
			MaxUploadBytes:    32 << 20,
			MaxSources:        32,
		},
		Tracing: TracingConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
		WatchDebounce: 500 * time.Millisecond,
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields cause an error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, src *FileConfig) error {
	setString(&cfg.ListenAddr, src.ListenAddr)
	setString(&cfg.LogLevel, src.LogLevel)
	setString(&cfg.LogService, src.LogService)
	setString(&cfg.DataDir, src.DataDir)
	setString(&cfg.ExportPath, src.ExportPath)
	setString(&cfg.ExportSource, src.ExportSource)
	if err := setDuration(&cfg.WatchDebounce, "watchDebounce", src.WatchDebounce); err != nil {
		return err
	}
	if len(src.Sources) > 0 {
		cfg.Sources = append([]SourceConfig(nil), src.Sources...)
	}

	if f := src.Fetch; f != nil {
		if err := setDuration(&cfg.Fetch.Timeout, "fetch.timeout", f.Timeout); err != nil {
			return err
		}
		setString(&cfg.Fetch.UserAgent, f.UserAgent)
		if f.MaxBodyBytes != nil {
			cfg.Fetch.MaxBodyBytes = *f.MaxBodyBytes
		}
		if f.RatePerSecond != nil {
			cfg.Fetch.RatePerSecond = *f.RatePerSecond
		}
		if f.Burst != nil {
			cfg.Fetch.Burst = *f.Burst
		}
	}

	if a := src.API; a != nil {
		if err := setDuration(&cfg.API.RateLimitWindow, "api.rateLimitWindow", a.RateLimitWindow); err != nil {
			return err
		}
		if a.RateLimitRequests != nil {
			cfg.API.RateLimitRequests = *a.RateLimitRequests
		}
		if a.MaxUploadBytes != nil {
			cfg.API.MaxUploadBytes = *a.MaxUploadBytes
		}
		if a.MaxSources != nil {
			cfg.API.MaxSources = *a.MaxSources
		}
	}

	if t := src.Tracing; t != nil {
		if t.Enabled != nil {
			cfg.Tracing.Enabled = *t.Enabled
		}
		setString(&cfg.Tracing.Exporter, t.Exporter)
		setString(&cfg.Tracing.Endpoint, t.Endpoint)
		setString(&cfg.Tracing.Environment, t.Environment)
		if t.SamplingRate != nil {
			cfg.Tracing.SamplingRate = *t.SamplingRate
		}
	}
	return nil
}

// mergeEnvConfig applies M3UCAT_* overrides on top of file and defaults.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.ListenAddr = l.envString("M3UCAT_LISTEN", cfg.ListenAddr)
	cfg.LogLevel = l.envString("M3UCAT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("M3UCAT_LOG_SERVICE", cfg.LogService)
	cfg.DataDir = l.envString("M3UCAT_DATA", cfg.DataDir)
	cfg.ExportPath = l.envString("M3UCAT_EXPORT_PATH", cfg.ExportPath)
	cfg.ExportSource = l.envString("M3UCAT_EXPORT_SOURCE", cfg.ExportSource)
	cfg.WatchDebounce = l.envDuration("M3UCAT_WATCH_DEBOUNCE", cfg.WatchDebounce)

	cfg.Fetch.Timeout = l.envDuration("M3UCAT_FETCH_TIMEOUT", cfg.Fetch.Timeout)
	cfg.Fetch.MaxBodyBytes = l.envInt64("M3UCAT_FETCH_MAX_BYTES", cfg.Fetch.MaxBodyBytes)
	cfg.Fetch.UserAgent = l.envString("M3UCAT_FETCH_USER_AGENT", cfg.Fetch.UserAgent)
	cfg.Fetch.RatePerSecond = l.envFloat("M3UCAT_FETCH_RATE", cfg.Fetch.RatePerSecond)
	cfg.Fetch.Burst = l.envInt("M3UCAT_FETCH_BURST", cfg.Fetch.Burst)

	cfg.API.RateLimitRequests = l.envInt("M3UCAT_API_RATE_LIMIT", cfg.API.RateLimitRequests)
	cfg.API.RateLimitWindow = l.envDuration("M3UCAT_API_RATE_WINDOW", cfg.API.RateLimitWindow)
	cfg.API.MaxUploadBytes = l.envInt64("M3UCAT_API_MAX_UPLOAD_BYTES", cfg.API.MaxUploadBytes)
	cfg.API.MaxSources = l.envInt("M3UCAT_API_MAX_SOURCES", cfg.API.MaxSources)

	cfg.Tracing.Enabled = l.envBool("M3UCAT_TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = l.envString("M3UCAT_TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = l.envString("M3UCAT_TRACING_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = l.envFloat("M3UCAT_TRACING_SAMPLING_RATE", cfg.Tracing.SamplingRate)
	cfg.Tracing.Environment = l.envString("M3UCAT_TRACING_ENVIRONMENT", cfg.Tracing.Environment)

	// A single source may be declared through the environment. It replaces
	// any source of the same name from the file.
	url := l.envString("M3UCAT_SOURCE_URL", "")
	path := l.envString("M3UCAT_SOURCE_PATH", "")
	if url == "" && path == "" {
		return
	}
	src := SourceConfig{
		Name:  l.envString("M3UCAT_SOURCE_NAME", DefaultSourceName),
		URL:   url,
		Path:  path,
		Watch: l.envBool("M3UCAT_SOURCE_WATCH", false),
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].Name == src.Name {
			cfg.Sources[i] = src
			return
		}
	}
	cfg.Sources = append(cfg.Sources, src)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*dst = d
	return nil
}

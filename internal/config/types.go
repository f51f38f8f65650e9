// SPDX-License-Identifier: MIT

package config

import "time"

// AppConfig is the validated runtime configuration.
type AppConfig struct {
	Version string

	ListenAddr string
	LogLevel   string
	LogService string
	DataDir    string

	// ExportPath is where the M3U export of ExportSource is written after
	// each load. Relative paths resolve against DataDir. Empty disables export.
	ExportPath   string
	ExportSource string

	Sources []SourceConfig
	Fetch   FetchConfig
	API     APIConfig
	Tracing TracingConfig

	WatchDebounce time.Duration
}

// SourceConfig names one playlist source. Exactly one of URL and Path is set.
type SourceConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url,omitempty"`
	Path  string `yaml:"path,omitempty"`
	Watch bool   `yaml:"watch,omitempty"`
}

// IsRemote reports whether the source is fetched over the network.
func (s SourceConfig) IsRemote() bool { return s.URL != "" }

// FetchConfig tunes remote retrieval.
type FetchConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	// RatePerSecond limits outbound retrievals; 0 disables the limiter.
	RatePerSecond float64
	Burst         int
}

// APIConfig tunes the HTTP API.
type APIConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	MaxUploadBytes    int64
	// MaxSources caps how many catalogs the store may hold once API loads
	// and uploads add names beyond the configured sources.
	MaxSources int
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
	Environment  string
}

// FileConfig mirrors the YAML file layout. Pointer fields distinguish
// "absent" from zero values.
type FileConfig struct {
	ListenAddr    string         `yaml:"listenAddr,omitempty"`
	LogLevel      string         `yaml:"logLevel,omitempty"`
	LogService    string         `yaml:"logService,omitempty"`
	DataDir       string         `yaml:"dataDir,omitempty"`
	ExportPath    string         `yaml:"exportPath,omitempty"`
	ExportSource  string         `yaml:"exportSource,omitempty"`
	WatchDebounce string         `yaml:"watchDebounce,omitempty"`
	Sources       []SourceConfig `yaml:"sources,omitempty"`
	Fetch         *FileFetch     `yaml:"fetch,omitempty"`
	API           *FileAPI       `yaml:"api,omitempty"`
	Tracing       *FileTracing   `yaml:"tracing,omitempty"`
}

// FileFetch is the fetch section of the YAML file.
type FileFetch struct {
	Timeout       string   `yaml:"timeout,omitempty"`
	MaxBodyBytes  *int64   `yaml:"maxBodyBytes,omitempty"`
	UserAgent     string   `yaml:"userAgent,omitempty"`
	RatePerSecond *float64 `yaml:"ratePerSecond,omitempty"`
	Burst         *int     `yaml:"burst,omitempty"`
}

// FileAPI is the api section of the YAML file.
type FileAPI struct {
	RateLimitRequests *int   `yaml:"rateLimitRequests,omitempty"`
	RateLimitWindow   string `yaml:"rateLimitWindow,omitempty"`
	MaxUploadBytes    *int64 `yaml:"maxUploadBytes,omitempty"`
	MaxSources        *int   `yaml:"maxSources,omitempty"`
}

// FileTracing is the tracing section of the YAML file.
type FileTracing struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
	Environment  string   `yaml:"environment,omitempty"`
}

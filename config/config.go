// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig indicates a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultBaseURL is the page prefix a slug is appended to.
const DefaultBaseURL = "https://www.bohrium.com/en/sciencepedia/feynman/keyword/"

// DefaultSitemapURLs lists the keyword sitemaps of the public site.
var DefaultSitemapURLs = []string{
	"https://cdn.bohrium.com/bohrium/web/static/sitemap/sp-tools/sitemap_keyword_1.xml",
	"https://cdn.bohrium.com/bohrium/web/static/sitemap/sp-tools/sitemap_keyword_2.xml",
	"https://cdn.bohrium.com/bohrium/web/static/sitemap/sp-tools/sitemap_keyword_3.xml",
	"https://cdn.bohrium.com/bohrium/web/static/sitemap/sp-tools/sitemap_keyword_4.xml",
}

// Config holds runtime configuration for lookups and index refreshes.
type Config struct {
	// BaseURL is prefixed to each slug to build result links.
	// Default: DefaultBaseURL
	BaseURL string `toml:"base_url"`

	// SitemapURLs are the sitemaps a refresh downloads slugs from.
	SitemapURLs []string `toml:"sitemap_urls"`

	// DataDir is where the index database lives.
	// Default: the user cache directory, see DefaultDataDir
	DataDir string `toml:"data_dir"`

	// TopN is the maximum number of results per query.
	// Default: 3
	TopN int `toml:"top_n"`

	// PoolSize is the number of workers used to answer a batch of queries.
	// Default: number of CPUs
	PoolSize int `toml:"pool_size"`

	// MaxRetries is the number of attempts made for each sitemap.
	// Default: 3
	MaxRetries int `toml:"max_retries"`

	// RetryDelay is the base delay for exponential backoff between attempts.
	// Default: 1s
	RetryDelay time.Duration `toml:"retry_delay"`

	// FetchTimeout bounds one sitemap request.
	// Default: 60s
	FetchTimeout time.Duration `toml:"fetch_timeout"`

	// BatchSize is the number of entries written per storage transaction.
	// Default: 1000
	BatchSize int `toml:"batch_size"`

	// ReportInterval is how often refresh progress is reported (number of entries).
	// Default: 10000
	ReportInterval int `toml:"report_interval"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the result link prefix.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithSitemapURLs sets the sitemaps to download.
func WithSitemapURLs(urls ...string) ConfigOption {
	return func(c *Config) {
		c.SitemapURLs = urls
	}
}

// WithDataDir sets the database directory.
func WithDataDir(dir string) ConfigOption {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithTopN sets the maximum number of results per query.
func WithTopN(topN int) ConfigOption {
	return func(c *Config) {
		c.TopN = topN
	}
}

// WithPoolSize sets the number of search workers.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithRetries sets the attempts per sitemap and the base backoff delay.
func WithRetries(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithFetchTimeout sets the per-request sitemap timeout.
func WithFetchTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.FetchTimeout = timeout
	}
}

// WithBatchSize sets the number of entries written per transaction.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		SitemapURLs:    slices.Clone(DefaultSitemapURLs),
		DataDir:        DefaultDataDir(),
		TopN:           3,
		PoolSize:       runtime.NumCPU(),
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		FetchTimeout:   60 * time.Second,
		BatchSize:      1000,
		ReportInterval: 10000,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithDataDir("/var/lib/sciencepedia"),
//	    WithTopN(5),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// BaseURL gets a trailing slash so a slug can be appended directly.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.DataDir != "" {
		c.DataDir = filepath.Clean(c.DataDir)
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: DataDir is required", ErrInvalidConfig)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: TopN must be at least 1 (got %d)", ErrInvalidConfig, c.TopN)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: PoolSize must be at least 1 (got %d)", ErrInvalidConfig, c.PoolSize)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%w: MaxRetries must be at least 1 (got %d)", ErrInvalidConfig, c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: RetryDelay must not be negative", ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: FetchTimeout must be positive", ErrInvalidConfig)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: BatchSize must be at least 1 (got %d)", ErrInvalidConfig, c.BatchSize)
	}
	return nil
}

// Load decodes a TOML file over the defaults. Keys missing from the file
// keep their default values. An empty path loads DefaultPath if that file
// exists and returns the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the default config file path,
// ~/.config/sciencepedia/config.toml or the OS-specific equivalent.
func DefaultPath() string {
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sciencepedia", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// DefaultDataDir returns the default database directory under the user cache directory.
func DefaultDataDir() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "sciencepedia")
	}
	return filepath.Join(".", "data")
}

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


package refresh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/sciencepedia/config"
	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
	"github.com/poiesic/sciencepedia/storage"
)

// Config holds configuration for writing the index.
type Config struct {
	// SitemapURLs are the sitemaps Run fetches slugs from
	SitemapURLs []string

	// BatchSize is the number of entries written per storage transaction
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SitemapURLs:    slices.Clone(config.DefaultSitemapURLs),
		BatchSize:      1000,
		ReportInterval: 10000,
	}
}

// Report summarizes one Run or Import.
type Report struct {
	Fingerprint core.ID
	SlugCount   int
	EntryCount  int
	// Skipped is true when the stored index already matched and nothing was written.
	Skipped bool
	Elapsed time.Duration
}

// Refresher writes slug lists into the persisted index.
type Refresher struct {
	entries  storage.IndexRepository
	meta     storage.MetadataRepository
	fetcher  Fetcher
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Refresher.
type Option func(*Refresher) error

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(r *Refresher) error {
		if cfg == nil {
			return nil
		}
		if cfg.BatchSize < 1 {
			return ErrInvalidBatchSize
		}
		r.config = cfg
		return nil
	}
}

// WithFetcher sets where Run gets its slugs. Without one, only Import works.
func WithFetcher(fetcher Fetcher) Option {
	return func(r *Refresher) error {
		r.fetcher = fetcher
		return nil
	}
}

// WithProgress sets where progress output is written (typically os.Stderr).
// Default discards it.
func WithProgress(w io.Writer) Option {
	return func(r *Refresher) error {
		r.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Refresher) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRefresher creates a new refresher.
func NewRefresher(entries storage.IndexRepository, meta storage.MetadataRepository, opts ...Option) (*Refresher, error) {
	if entries == nil || meta == nil {
		return nil, ErrRepositoryRequired
	}

	r := &Refresher{
		entries: entries,
		meta:    meta,
		config:  DefaultConfig(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Run fetches the slug list and writes it. With force unset, an unchanged
// list leaves storage untouched.
func (r *Refresher) Run(ctx context.Context, force bool) (*Report, error) {
	if r.fetcher == nil {
		return nil, ErrFetcherRequired
	}

	r.logger.Info("fetching sitemaps", "count", len(r.config.SitemapURLs))
	slugs, err := r.fetcher.FetchSlugs(ctx, r.config.SitemapURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slugs: %w", err)
	}

	return r.write(ctx, slugs, force)
}

// Import reads a slug list, one slug per line, and writes it.
func (r *Refresher) Import(ctx context.Context, src io.Reader, force bool) (*Report, error) {
	slugs, err := index.ReadSlugs(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read slugs: %w", err)
	}
	if len(slugs) == 0 {
		return nil, ErrNoSlugs
	}

	return r.write(ctx, slugs, force)
}

func (r *Refresher) write(ctx context.Context, slugs []string, force bool) (*Report, error) {
	start := time.Now()
	fingerprint := core.FingerprintSlugs(slugs)

	if !force {
		stored, err := r.currentMeta(ctx, fingerprint)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			r.logger.Info("index is up to date", "slugs", len(slugs), "entries", stored.EntryCount)
			return &Report{
				Fingerprint: fingerprint,
				SlugCount:   len(slugs),
				EntryCount:  stored.EntryCount,
				Skipped:     true,
				Elapsed:     time.Since(start),
			}, nil
		}
	}

	ix := index.Build(slugs)
	entries := ix.Entries()

	if err := r.entries.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset index: %w", err)
	}

	tracker := NewProgressTracker(r.progress, len(entries), r.config.ReportInterval)
	tracker.Start()

	for batch := range slices.Chunk(entries, r.config.BatchSize) {
		if _, err := r.entries.AddEntries(ctx, batch...); err != nil {
			return nil, fmt.Errorf("failed to write entries after %d: %w", tracker.Current(), err)
		}
		tracker.Increment(len(batch))
	}
	tracker.Finish()

	meta := &core.IndexMeta{
		Fingerprint: fingerprint,
		SlugCount:   len(slugs),
		EntryCount:  len(entries),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := r.meta.SaveMetadata(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save index metadata: %w", err)
	}

	elapsed := time.Since(start)
	r.logger.Info("index written", "slugs", len(slugs), "entries", len(entries), "elapsed", elapsed.Round(time.Millisecond))

	return &Report{
		Fingerprint: fingerprint,
		SlugCount:   len(slugs),
		EntryCount:  len(entries),
		Elapsed:     elapsed,
	}, nil
}

// Complete returns the stored metadata if storage holds every entry it
// describes, or nil if there is no index or a write was interrupted.
func (r *Refresher) Complete(ctx context.Context) (*core.IndexMeta, error) {
	meta, err := r.meta.LoadMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load index metadata: %w", err)
	}
	if meta == nil {
		return nil, nil
	}

	count, err := r.entries.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	if count != meta.EntryCount {
		r.logger.Warn("stored index is incomplete", "entries", count, "expected", meta.EntryCount)
		return nil, nil
	}
	return meta, nil
}

// currentMeta returns the stored metadata if storage already holds the
// complete index for fingerprint, or nil if it must be rewritten.
func (r *Refresher) currentMeta(ctx context.Context, fingerprint core.ID) (*core.IndexMeta, error) {
	meta, err := r.Complete(ctx)
	if err != nil || meta == nil || meta.Fingerprint != fingerprint {
		return nil, err
	}
	return meta, nil
}

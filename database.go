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


package sciencepedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/sciencepedia/config"
	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
	"github.com/poiesic/sciencepedia/refresh"
	"github.com/poiesic/sciencepedia/search"
	"github.com/poiesic/sciencepedia/storage"
	"github.com/poiesic/sciencepedia/storage/badger"
)

type Database struct {
	backend   *badger.Backend
	indexRepo storage.IndexRepository
	metaRepo  storage.MetadataRepository
	refresher *refresh.Refresher
	config    *config.Config
	logger    *slog.Logger

	mu     sync.Mutex
	loaded *index.Index
}

// Stats describes the stored index.
type Stats struct {
	// Meta is nil when no index has been written yet, or a write was interrupted.
	Meta    *core.IndexMeta
	Entries int
	// Complete is true when Meta is present and Entries matches it.
	Complete bool
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   *config.Config
	fetcher  refresh.Fetcher
	progress io.Writer
	logger   *slog.Logger
	inMemory bool
}

// WithConfig sets the runtime configuration. Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if cfg != nil {
			o.config = cfg
		}
	}
}

// WithFetcher replaces the sitemap fetcher built from the configuration.
func WithFetcher(fetcher refresh.Fetcher) DatabaseOption {
	return func(o *databaseOptions) {
		o.fetcher = fetcher
	}
}

// WithProgress sets where refresh progress is written.
func WithProgress(w io.Writer) DatabaseOption {
	return func(o *databaseOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// InMemory keeps the index in memory only. filePath is ignored.
func InMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	cfg := options.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fetcher := options.fetcher
	if fetcher == nil {
		sitemaps, err := refresh.NewSitemapFetcher(
			refresh.WithMaxAttempts(cfg.MaxRetries),
			refresh.WithRetryDelay(cfg.RetryDelay),
			refresh.WithFetchTimeout(cfg.FetchTimeout),
			refresh.WithFetcherLogger(options.logger),
		)
		if err != nil {
			return nil, err
		}
		fetcher = sitemaps
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	indexRepo, err := badger.NewIndexRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	metaRepo := badger.NewMetadataRepository(backend)

	refresher, err := refresh.NewRefresher(indexRepo, metaRepo,
		refresh.WithConfig(&refresh.Config{
			SitemapURLs:    cfg.SitemapURLs,
			BatchSize:      cfg.BatchSize,
			ReportInterval: cfg.ReportInterval,
		}),
		refresh.WithFetcher(fetcher),
		refresh.WithProgress(options.progress),
		refresh.WithLogger(options.logger),
	)
	if err != nil {
		indexRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:   backend,
		indexRepo: indexRepo,
		metaRepo:  metaRepo,
		refresher: refresher,
		config:    cfg,
		logger:    options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.indexRepo.Close(); err != nil {
		db.logger.Error("error closing index repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Config() *config.Config {
	return db.config
}

func (db *Database) IndexRepository() storage.IndexRepository {
	return db.indexRepo
}

func (db *Database) MetadataRepository() storage.MetadataRepository {
	return db.metaRepo
}

// Index returns the in-memory index, reading it from storage on first use.
// A store that is empty, or was left partial by an interrupted write, is
// refreshed from the sitemaps first.
func (db *Database) Index(ctx context.Context) (*index.Index, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.loaded != nil {
		return db.loaded, nil
	}

	meta, err := db.refresher.Complete(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		db.logger.Info("no complete stored index, refreshing from sitemaps")
		if _, err := db.refresher.Run(ctx, false); err != nil {
			return nil, err
		}
	}

	ix, err := db.indexRepo.LoadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	db.loaded = ix
	return ix, nil
}

// Refresh downloads the sitemaps and rewrites the stored index if the slug
// list changed, or unconditionally with force set.
func (db *Database) Refresh(ctx context.Context, force bool) (*refresh.Report, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	report, err := db.refresher.Run(ctx, force)
	if err != nil {
		return nil, err
	}
	if !report.Skipped {
		db.loaded = nil
	}
	return report, nil
}

// Import writes a local slug list, one slug per line, into storage.
func (db *Database) Import(ctx context.Context, src io.Reader, force bool) (*refresh.Report, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	report, err := db.refresher.Import(ctx, src, force)
	if err != nil {
		return nil, err
	}
	if !report.Skipped {
		db.loaded = nil
	}
	return report, nil
}

// Stats reports the stored metadata and entry count without loading the index.
func (db *Database) Stats(ctx context.Context) (*Stats, error) {
	meta, err := db.metaRepo.LoadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	count, err := db.indexRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Meta:     meta,
		Entries:  count,
		Complete: meta != nil && meta.EntryCount == count,
	}, nil
}

// NewSearcher returns a searcher over the in-memory index using the
// configured base URL and pool size. opts are applied after those defaults.
func (db *Database) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	ix, err := db.Index(ctx)
	if err != nil {
		return nil, err
	}

	defaults := []search.Option{
		search.WithPoolSize(db.config.PoolSize),
		search.WithLogger(db.logger),
	}
	return search.NewSearcher(ix, db.config.BaseURL, append(defaults, opts...)...)
}

package search

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/index"
)

const (
	// DefaultTopN is the number of results returned when the caller has no preference.
	DefaultTopN = 3

	poolReleaseTimeout = 5 * time.Second
)

// Searcher runs the layered match cascade over an index source.
type Searcher struct {
	source   index.Source
	baseURL  string
	poolSize int
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the number of workers SearchAll uses.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		s.poolSize = size
		return nil
	}
}

// NewSearcher creates a new searcher. Result URLs are baseURL followed by the slug.
func NewSearcher(source index.Source, baseURL string, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrIndexRequired
	}
	if err := core.ValidateBaseURL(baseURL); err != nil {
		return nil, err
	}

	s := &Searcher{
		source:   source,
		baseURL:  baseURL,
		poolSize: max(runtime.NumCPU(), 1),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to topN results for query, or a single NOT_FOUND result.
// The only error is a parameter error for topN < 1.
func (s *Searcher) Search(query string, topN int) ([]core.Result, error) {
	return s.SearchWithMonitor(query, topN, nil)
}

// SearchWithMonitor is Search with callbacks at each cascade layer.
func (s *Searcher) SearchWithMonitor(query string, topN int, monitor SearchMonitor) ([]core.Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	matches, err := s.match(query, topN, monitor)
	if err != nil {
		return nil, err
	}

	var results []core.Result
	if len(matches) == 0 {
		results = NotFound(query)
	} else {
		results = FormatResults(s.baseURL, matches)
	}
	monitor.Finish(results)

	return results, nil
}

// Match returns the raw matches for query without formatting. An empty
// slice means every layer came back empty.
func (s *Searcher) Match(query string, topN int) ([]core.Match, error) {
	return s.match(query, topN, &noopMonitor{})
}

func (s *Searcher) match(raw string, topN int, monitor SearchMonitor) ([]core.Match, error) {
	if err := core.ValidateTopN(topN); err != nil {
		return nil, err
	}

	monitor.Start(raw)
	q := parseQuery(raw)

	for _, l := range cascade {
		matches := l.match(q, s.source)
		monitor.AfterLayer(l.name, matches)
		if len(matches) == 0 {
			continue
		}
		if len(matches) > topN {
			matches = matches[:topN]
		}
		return matches, nil
	}

	s.logger.Debug("no match in any layer", "query", raw)
	return nil, nil
}

// QueryResults pairs a query with its results.
type QueryResults struct {
	Query   string
	Results []core.Result
}

// SearchAll searches every query in parallel and returns the results in
// input order. Workers only read the index.
func (s *Searcher) SearchAll(ctx context.Context, queries []string, topN int) ([]QueryResults, error) {
	if err := core.ValidateTopN(topN); err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return []QueryResults{}, nil
	}

	pool, err := ants.NewPool(min(s.poolSize, len(queries)))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := pool.ReleaseTimeout(poolReleaseTimeout); err != nil {
			s.logger.Warn("search pool did not shut down cleanly", "err", err)
		}
	}()

	out := make([]QueryResults, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			// topN is already validated, so Search cannot fail here.
			results, _ := s.Search(q, topN)
			out[i] = QueryResults{Query: q, Results: results}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()

	s.logger.Debug("batch search complete", "queries", len(queries))
	return out, nil
}

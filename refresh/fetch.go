package refresh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxAttempts is how many times a sitemap is requested before it is skipped.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the wait before the second attempt; it doubles after each failure.
	DefaultRetryDelay = 1 * time.Second

	// DefaultFetchTimeout bounds a single sitemap request.
	DefaultFetchTimeout = 60 * time.Second

	// maxSitemapBytes caps how much of one sitemap response is read.
	maxSitemapBytes = 256 << 20
)

// slugPattern captures the slug at the end of each keyword URL in a sitemap.
var slugPattern = regexp.MustCompile(`feynman/keyword/([^<]+)`)

// Fetcher produces the full slug list from a set of sources.
type Fetcher interface {
	FetchSlugs(ctx context.Context, urls []string) ([]string, error)
}

// SitemapFetcher downloads keyword sitemaps over HTTP.
type SitemapFetcher struct {
	client      *http.Client
	maxAttempts int
	retryDelay  time.Duration
	timeout     time.Duration
	logger      *slog.Logger
}

var _ Fetcher = (*SitemapFetcher)(nil)

// FetcherOption configures a SitemapFetcher.
type FetcherOption func(*SitemapFetcher) error

// WithHTTPClient sets the HTTP client.
// Default is a client with no overall timeout; each attempt is bounded by WithFetchTimeout.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *SitemapFetcher) error {
		if client != nil {
			f.client = client
		}
		return nil
	}
}

// WithMaxAttempts sets how many times each sitemap is requested.
// Default is DefaultMaxAttempts.
func WithMaxAttempts(attempts int) FetcherOption {
	return func(f *SitemapFetcher) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		f.maxAttempts = attempts
		return nil
	}
}

// WithRetryDelay sets the base backoff delay.
// Default is DefaultRetryDelay.
func WithRetryDelay(delay time.Duration) FetcherOption {
	return func(f *SitemapFetcher) error {
		if delay < 0 {
			return fmt.Errorf("retry delay must not be negative (got %v)", delay)
		}
		f.retryDelay = delay
		return nil
	}
}

// WithFetchTimeout bounds each request attempt.
// Default is DefaultFetchTimeout.
func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *SitemapFetcher) error {
		if timeout <= 0 {
			return fmt.Errorf("fetch timeout must be positive (got %v)", timeout)
		}
		f.timeout = timeout
		return nil
	}
}

// WithFetcherLogger sets a custom logger.
// Default is slog.Default().
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *SitemapFetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewSitemapFetcher creates a new fetcher.
func NewSitemapFetcher(opts ...FetcherOption) (*SitemapFetcher, error) {
	f := &SitemapFetcher{
		client:      &http.Client{},
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		timeout:     DefaultFetchTimeout,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// FetchSlugs downloads every sitemap concurrently and returns their slugs,
// in sitemap order and then document order. Duplicates are kept.
// A sitemap that fails every attempt is logged and skipped; if no slugs
// remain, ErrNoSlugs is returned.
func (f *SitemapFetcher) FetchSlugs(ctx context.Context, urls []string) ([]string, error) {
	perSitemap := make([][]string, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			slugs, err := RetryWithBackoff(gctx, f.maxAttempts, f.retryDelay, func(ctx context.Context, attempt int) ([]string, error) {
				return f.fetchSitemap(ctx, u)
			})
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				f.logger.Warn("failed to fetch sitemap", "url", u, "attempts", f.maxAttempts, "err", err)
				return nil
			}
			f.logger.Info("fetched sitemap", "url", u, "slugs", len(slugs))
			perSitemap[i] = slugs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, slugs := range perSitemap {
		total += len(slugs)
	}
	if total == 0 {
		return nil, ErrNoSlugs
	}

	all := make([]string, 0, total)
	for _, slugs := range perSitemap {
		all = append(all, slugs...)
	}
	return all, nil
}

// fetchSitemap makes one bounded request for a sitemap.
func (f *SitemapFetcher) fetchSitemap(ctx context.Context, url string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sitemap request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}
	return ExtractSlugs(body), nil
}

// ExtractSlugs returns every keyword slug in a sitemap document, in order.
func ExtractSlugs(doc []byte) []string {
	matches := slugPattern.FindAllSubmatch(doc, -1)
	slugs := make([]string, 0, len(matches))
	for _, m := range matches {
		slugs = append(slugs, string(m[1]))
	}
	return slugs
}

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


package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/sciencepedia"
	"github.com/poiesic/sciencepedia/config"
	"github.com/poiesic/sciencepedia/core"
	"github.com/poiesic/sciencepedia/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sciencepedia",
		Usage: "Look up Sciencepedia keyword pages by concept name",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides data_dir)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "lookup",
				Usage:     "Find keyword pages matching each query",
				ArgsUsage: "QUERY...",
				Action:    lookupCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Maximum results per query (default from config)",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "Prefix for result URLs (default from config)",
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Log every matching layer to stderr",
					},
				},
			},
			{
				Name:   "refresh",
				Usage:  "Download the keyword sitemaps and rebuild the index",
				Action: refreshCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Rebuild even if the slug list is unchanged",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Build the index from a local slug list, one slug per line",
				ArgsUsage: "FILE",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Rebuild even if the slug list is unchanged",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show what the stored index contains",
				Action: statsCommand,
			},
		},
	}
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.DataDir = c.String("db")
	}
	return cfg, nil
}

func openDatabase(c *cli.Context, cfg *config.Config) (*sciencepedia.Database, error) {
	db, err := sciencepedia.NewDatabase(cfg.DataDir,
		sciencepedia.WithConfig(cfg),
		sciencepedia.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func lookupCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	queries := uniqueQueries(c.Args().Slice())
	if len(queries) == 0 {
		return fmt.Errorf("at least one query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if err := core.ValidateTopN(cfg.TopN); err != nil {
		return err
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(ctx)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	var batch []search.QueryResults
	if c.Bool("explain") {
		monitor := search.NewLoggingMonitor(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
		for _, q := range queries {
			results, err := searcher.SearchWithMonitor(q, cfg.TopN, monitor)
			if err != nil {
				return err
			}
			batch = append(batch, search.QueryResults{Query: q, Results: results})
		}
	} else {
		batch, err = searcher.SearchAll(ctx, queries, cfg.TopN)
		if err != nil {
			return err
		}
	}

	return writeResults(c.App.Writer, batch)
}

// uniqueQueries drops repeated queries, keeping the first occurrence.
func uniqueQueries(args []string) []string {
	seen := make(map[string]struct{}, len(args))
	queries := make([]string, 0, len(args))
	for _, arg := range args {
		if _, ok := seen[arg]; ok {
			continue
		}
		seen[arg] = struct{}{}
		queries = append(queries, arg)
	}
	return queries
}

// orderedResults marshals as a JSON object keyed by query, in query order.
type orderedResults []search.QueryResults

func (o orderedResults) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, qr := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(qr.Query); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		results := qr.Results
		if results == nil {
			results = []core.Result{}
		}
		if err := enc.Encode(results); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeResults(w io.Writer, batch []search.QueryResults) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(orderedResults(batch))
}

func refreshCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.DataDir)
	fmt.Fprintf(c.App.ErrWriter, "Sitemaps: %d\n", len(cfg.SitemapURLs))

	report, err := db.Refresh(ctx, c.Bool("force"))
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	printReport(c.App.Writer, report.Skipped, report.SlugCount, report.EntryCount, report.Elapsed)
	return nil
}

func importCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one slug file is required")
	}
	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open slug file: %w", err)
	}
	defer f.Close()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := db.Import(ctx, f, c.Bool("force"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	printReport(c.App.Writer, report.Skipped, report.SlugCount, report.EntryCount, report.Elapsed)
	return nil
}

func printReport(w io.Writer, skipped bool, slugs, entries int, elapsed time.Duration) {
	if skipped {
		fmt.Fprintf(w, "Index unchanged: %d entries\n", entries)
		return
	}
	fmt.Fprintf(w, "Indexed %d entries from %d slugs in %v\n", entries, slugs, elapsed.Round(time.Millisecond))
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Database: %s\n", cfg.DataDir)
	if stats.Meta == nil {
		if stats.Entries == 0 {
			fmt.Fprintln(c.App.Writer, "No index. Run refresh or import first.")
		} else {
			fmt.Fprintf(c.App.Writer, "Incomplete index: %d entries without metadata. Run refresh.\n", stats.Entries)
		}
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(c.App.Writer, "Slugs: %d\n", stats.Meta.SlugCount)
	fmt.Fprintf(c.App.Writer, "Fingerprint: %016x\n", uint64(stats.Meta.Fingerprint))
	fmt.Fprintf(c.App.Writer, "Updated: %s\n", stats.Meta.UpdatedAt.Format(time.RFC3339))
	if !stats.Complete {
		fmt.Fprintf(c.App.Writer, "Incomplete index: expected %d entries. Run refresh.\n", stats.Meta.EntryCount)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

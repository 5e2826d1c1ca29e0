package search

import (
	"log/slog"

	"github.com/poiesic/sciencepedia/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to see which cascade layers ran and what they found.
type SearchMonitor interface {
	Start(query string)
	AfterLayer(layer string, matches []core.Match)
	Finish(results []core.Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                     {}
func (n *noopMonitor) AfterLayer(_ string, _ []core.Match) {}
func (n *noopMonitor) Finish(_ []core.Result)              {}

// LoggingMonitor writes each search step to a logger at debug level.
type LoggingMonitor struct {
	logger *slog.Logger
	query  string
}

var _ SearchMonitor = (*LoggingMonitor)(nil)

// NewLoggingMonitor creates a monitor that logs to logger, or slog.Default() if nil.
func NewLoggingMonitor(logger *slog.Logger) *LoggingMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingMonitor{logger: logger}
}

func (m *LoggingMonitor) Start(query string) {
	m.query = query
	m.logger.Debug("search started", "query", query)
}

func (m *LoggingMonitor) AfterLayer(layer string, matches []core.Match) {
	args := []any{"query", m.query, "layer", layer, "candidates", len(matches)}
	if len(matches) > 0 {
		args = append(args, "best", matches[0].Slug, "score", matches[0].Score)
	}
	m.logger.Debug("layer evaluated", args...)
}

func (m *LoggingMonitor) Finish(results []core.Result) {
	found := len(results) > 0 && results[0].Found()
	m.logger.Debug("search finished", "query", m.query, "results", len(results), "found", found)
}

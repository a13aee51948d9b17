package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ramendb"
)

// Ensure LoggingFetcher implements ramendb.Fetcher.
var _ ramendb.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   ramendb.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next ramendb.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *ramendb.FetchedPage, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if page != nil {
			attrs = append(attrs, "bytes", len(page.Markup))
			if page.URL != url {
				attrs = append(attrs, "final_url", page.URL)
			}
		}
		logOutcome(ctx, f.logger, "fetch", begin, err, attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

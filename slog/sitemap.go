package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs how many sitemap URLs of each page type were
// found for a site.
type LoggingSitemapService struct {
	next   ramendb.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next ramendb.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service. Failures are logged at warn
// level, results at info level with a breakdown by page type.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *ramendb.URLFilter) ([]string, error) {
	begin := time.Now()
	urls, err := s.next.DiscoverURLs(ctx, baseURL, filter)

	attrs := []any{"host", siteHost(baseURL), "duration", time.Since(begin)}
	if err != nil {
		s.logger.WarnContext(ctx, "sitemap discovery", append(attrs, "err", err)...)
		return urls, err
	}

	byType := make(map[ramendb.PageType]int)
	for _, u := range urls {
		byType[ramendb.Classify(u)]++
	}
	attrs = append(attrs,
		"urls", len(urls),
		"businesses", byType[ramendb.PageBusiness],
		"reviews", byType[ramendb.PageReview],
		"users", byType[ramendb.PageUser],
		"listings", byType[ramendb.PageBusinessList]+byType[ramendb.PageReviewList],
	)
	s.logger.InfoContext(ctx, "sitemap discovery", attrs...)
	return urls, nil
}

func siteHost(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}

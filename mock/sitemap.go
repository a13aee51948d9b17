package mock

import (
	"context"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of ramendb.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *ramendb.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *ramendb.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

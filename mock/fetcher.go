package mock

import (
	"context"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ramendb.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*ramendb.FetchedPage, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*ramendb.FetchedPage, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

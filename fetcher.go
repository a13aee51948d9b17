package ramendb

import "context"

// Fetcher retrieves pages over the network.
type Fetcher interface {
	// Fetch downloads the page at url and returns its markup decoded to UTF-8.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchedPage, error)

	// Close releases resources held by the fetcher.
	Close() error
}

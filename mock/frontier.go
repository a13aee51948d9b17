package mock

import (
	"context"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of ramendb.URLFrontier.
type URLFrontier struct {
	PushFn    func(link ramendb.DiscoveredLink) bool
	RequeueFn func(link ramendb.DiscoveredLink) bool
	PopFn     func() (ramendb.DiscoveredLink, bool)
	LenFn     func() int
	SeenFn    func(url string) bool
}

func (f *URLFrontier) Push(link ramendb.DiscoveredLink) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Requeue(link ramendb.DiscoveredLink) bool {
	return f.RequeueFn(link)
}

func (f *URLFrontier) Pop() (ramendb.DiscoveredLink, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ ramendb.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of ramendb.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

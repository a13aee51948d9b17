// Package crawl drives a ramendb crawl. It seeds a frontier, fetches pages
// politely, runs every page through the Processor, and hands the extracted
// records to a sink.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/ramendb"
)

// DefaultSeed is the first page of the shop listing.
const DefaultSeed = "https://ramendb.supleks.jp/search?page=1"

// DefaultConcurrency is the number of fetch workers when none is configured.
const DefaultConcurrency = 4

// Crawler orchestrates a crawl of the review site.
type Crawler struct {
	Fetcher     ramendb.Fetcher
	Processor   *Processor
	Records     ramendb.RecordWriter
	RateLimiter ramendb.DomainLimiter
	Sitemaps    ramendb.SitemapService
	Logger      *slog.Logger

	// Concurrency is the number of fetch workers.
	Concurrency int
	// MaxPages bounds the number of fetches in a run. Zero means no bound.
	MaxPages int
	// MaxRefetch is the per-URL re-fetch budget for mis-served pages.
	// Zero means DefaultMaxRefetch; a negative value disables re-fetching.
	MaxRefetch  int
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	// Fetched counts pages downloaded, including mis-served ones.
	Fetched int
	// Records counts records written to the sink.
	Records int
	// Refetched counts mis-served pages queued again.
	Refetched int
	// Ignored counts genuine pages that yield no record.
	Ignored int
	// Failed counts pages that could not be fetched, extracted or stored.
	Failed int
	// Bytes is the total size of fetched markup.
	Bytes int
	// Discovered approximates the number of distinct URLs queued.
	Discovered int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Queued    int
	URL       string
	// Record is the key of the record written, for ProgressExtracted.
	Record string
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressExtracted
	ProgressIgnored
	ProgressRefetch
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of fetching and processing a single link.
type pageResult struct {
	link    ramendb.DiscoveredLink
	bytes   int
	outcome *Outcome
	err     error
}

// Crawl fetches the seeds and everything reachable from them through the
// dispatch rules, staying on the host of the first seed. With no seeds it
// starts from DefaultSeed.
//
// If ctx is canceled the partial result is returned together with the
// context error.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, progress ProgressFunc) (*Result, error) {
	if len(seeds) == 0 {
		seeds = []string{DefaultSeed}
	}
	first, err := url.Parse(seeds[0])
	if err != nil || first.Host == "" {
		return nil, ramendb.Errorf(ramendb.EINVALID, "invalid seed URL: %q", seeds[0])
	}
	host := first.Host

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	switch {
	case c.MaxRefetch < 0:
		frontier.SetMaxRefetch(0)
	case c.MaxRefetch > 0:
		frontier.SetMaxRefetch(c.MaxRefetch)
	}
	for _, seed := range seeds {
		if !inScope(seed, host) {
			return nil, ramendb.Errorf(ramendb.EINVALID, "seed %q is outside %s", seed, host)
		}
		frontier.Push(ramendb.DiscoveredLink{
			URL:      seed,
			Priority: ramendb.PrioritySeed,
			Extract:  ramendb.Classify(seed),
		})
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Queued: frontier.Len()})
	}

	var result Result
	completed := 0
	handle := func(res *pageResult) {
		completed++
		ev := c.handleResult(ctx, res, frontier, host, &result)
		ev.Completed = completed
		ev.Queued = frontier.Len()
		if progress != nil {
			progress(ev)
		}
	}

	c.walkFrontier(ctx, frontier, c.processLink, handle)

	result.Discovered = frontier.Discovered()
	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Queued: frontier.Len()})
	}
	if err := ctx.Err(); err != nil {
		return &result, err
	}
	return &result, nil
}

// SitemapSeeds lists the pages in the sitemaps of baseURL that a dispatch
// rule accepts.
func (c *Crawler) SitemapSeeds(ctx context.Context, baseURL string) ([]string, error) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, baseURL, c.Processor.Rules.URLFilter())
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}
	return urls, nil
}

// processLink fetches a single link and runs it through the Processor.
// It is called from worker goroutines.
func (c *Crawler) processLink(ctx context.Context, link ramendb.DiscoveredLink) pageResult {
	res := pageResult{link: link}

	linkURL, err := url.Parse(link.URL)
	if err != nil {
		res.err = err
		return res
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, linkURL.Host); err != nil {
			res.err = err
			return res
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	page, err := FetchWithRetryDelays(ctx, link.URL, c.Fetcher.Fetch, c.logger(), delays)
	if err != nil {
		res.err = err
		return res
	}
	res.bytes = len(page.Markup)

	res.outcome, res.err = c.Processor.Process(page)
	return res
}

// handleResult applies a worker result to the frontier and the sink.
// It runs on the coordinator goroutine only.
func (c *Crawler) handleResult(ctx context.Context, res *pageResult, frontier *Frontier, host string, result *Result) ProgressEvent {
	ev := ProgressEvent{URL: res.link.URL}
	logger := c.logger()

	if res.err != nil {
		result.Failed++
		logger.Warn("page failed", "url", res.link.URL, "error", res.err)
		ev.Type, ev.Error = ProgressFailed, res.err
		return ev
	}

	result.Fetched++
	result.Bytes += res.bytes
	out := res.outcome

	if out.State == StateReenqueued {
		if !frontier.Requeue(res.link) {
			result.Failed++
			err := ramendb.Errorf(ramendb.EINTERNAL, "page still mis-served after re-fetch budget")
			logger.Warn("page failed", "url", res.link.URL, "error", err)
			ev.Type, ev.Error = ProgressFailed, err
			return ev
		}
		result.Refetched++
		logger.Debug("re-fetch", "url", res.link.URL)
		ev.Type = ProgressRefetch
		return ev
	}

	for _, link := range out.Follow {
		if inScope(link.URL, host) {
			frontier.Push(link)
		}
	}

	if out.State == StateIgnored {
		result.Ignored++
		ev.Type = ProgressIgnored
		return ev
	}

	if c.Records != nil {
		// Pages drained after cancellation are still stored.
		if err := c.Records.WriteRecord(context.WithoutCancel(ctx), out.Record); err != nil {
			result.Failed++
			logger.Warn("record not stored", "record", out.Record.Key(), "error", err)
			ev.Type, ev.Error = ProgressFailed, err
			return ev
		}
	}
	result.Records++
	ev.Type, ev.Record = ProgressExtracted, out.Record.Key()
	return ev
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// inScope reports whether rawURL lives on host.
func inScope(rawURL, host string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == host
}

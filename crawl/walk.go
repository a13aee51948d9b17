package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/ramendb"
	"golang.org/x/sync/errgroup"
)

// Frontier sizing for a crawl.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 1_000_000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
	// drainTimeout bounds how long results of in-flight pages are awaited
	// after the coordinator stops.
	drainTimeout = 5 * time.Second
)

// walkProcessor fetches and processes one link on a worker goroutine.
type walkProcessor func(ctx context.Context, link ramendb.DiscoveredLink) pageResult

// walkResultHandler consumes a result on the coordinator goroutine. It may
// push new links to the frontier.
type walkResultHandler func(res *pageResult)

// walkFrontier pops links from the frontier and feeds them to a pool of
// workers until the frontier is exhausted, MaxPages links were dispatched,
// or ctx is canceled. All frontier mutation happens on the calling
// goroutine through handleResult.
func (c *Crawler) walkFrontier(
	ctx context.Context,
	frontier *Frontier,
	processLink walkProcessor,
	handleResult walkResultHandler,
) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	workCh := make(chan ramendb.DiscoveredLink, concurrency)
	resultCh := make(chan pageResult)
	// stop releases workers still holding a result once the drain is over.
	stop := make(chan struct{})
	defer close(stop)

	var g errgroup.Group
	for range concurrency {
		g.Go(func() error {
			for link := range workCh {
				res := processLink(ctx, link)
				select {
				case resultCh <- res:
				case <-stop:
					return nil
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0
	canDispatch := func() bool { return c.MaxPages <= 0 || dispatched < c.MaxPages }

	var nextLink *ramendb.DiscoveredLink
	if link, ok := frontier.Pop(); ok {
		nextLink = &link
	}

coordinatorLoop:
	for {
		if (nextLink == nil || !canDispatch()) && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if nextLink != nil && canDispatch() {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *nextLink:
				dispatched++
				pending++
				nextLink = nil
			case res := <-resultCh:
				pending--
				handleResult(&res)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case res, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				pending--
				handleResult(&res)
			}
		}

		if nextLink == nil && canDispatch() {
			if link, ok := frontier.Pop(); ok {
				nextLink = &link
			}
		}
	}

	close(workCh)

	timeout := time.After(drainTimeout)
	for {
		select {
		case res, ok := <-resultCh:
			if !ok {
				return
			}
			handleResult(&res)
		case <-timeout:
			return
		}
	}
}

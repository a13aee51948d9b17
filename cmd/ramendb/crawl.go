package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/crawl"
)

// progressEvery is how many pages pass between progress lines.
const progressEvery = 100

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	seeds := c.Seeds
	if len(seeds) == 0 {
		seeds = []string{crawl.DefaultSeed}
	}

	run := &ramendb.Run{Seeds: seeds}

	if c.Sitemap {
		found, err := deps.Crawler.SitemapSeeds(deps.Ctx, seeds[0])
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "  Found %d URLs in sitemaps\n", len(found))
		seeds = append(seeds[:len(seeds):len(seeds)], found...)
	}

	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ramendb.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Started run %s\n", run.ID)

	var sink ramendb.RecordWriter = deps.Records
	if deps.RunSink != nil {
		sink = deps.RunSink(run.ID)
	}
	deps.Crawler.Records = sink

	progress := func(ev crawl.ProgressEvent) {
		switch ev.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Queued %d seeds\n", ev.Queued)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(ev.URL, 80), ev.Error)
		case crawl.ProgressFinished:
		default:
			if ev.Completed%progressEvery == 0 {
				fmt.Fprintf(deps.Stdout, "  %d pages, %d queued\n", ev.Completed, ev.Queued)
			}
		}
	}

	result, crawlErr := deps.Crawler.Crawl(deps.Ctx, seeds, progress)
	if result != nil {
		run.Fetched = result.Fetched
		run.Records = result.Records
		run.Refetched = result.Refetched
		run.Ignored = result.Ignored
		run.Failed = result.Failed
	}
	if crawlErr != nil {
		run.Error = crawlErr.Error()
	}

	// The run context may already be canceled; bookkeeping must still land.
	ctx := context.WithoutCancel(deps.Ctx)
	finishErr := deps.Runs.FinishRun(ctx, run)

	var exportErr error
	if deps.Export != nil {
		if crawlErr == nil || errors.Is(crawlErr, context.Canceled) {
			exportErr = deps.Export.Commit()
		} else {
			exportErr = deps.Export.Abort()
		}
	}

	if result != nil {
		fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
	}
	if crawlErr != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", crawlErr)
	}
	return errors.Join(crawlErr, finishErr, exportErr)
}

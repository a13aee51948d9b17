package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/crawl"
)

// Exporter is a sink whose output becomes visible only on Commit.
type Exporter interface {
	Commit() error
	Abort() error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Records   ramendb.RecordService
	Runs      ramendb.RunService
	Crawler   *crawl.Crawler
	Processor *crawl.Processor

	// RunSink returns the writer a run's records go to. When nil, records
	// are written to Records.
	RunSink func(runID string) ramendb.RecordWriter
	// Export is committed when a crawl ends normally and aborted otherwise.
	Export Exporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"RAMENDB_DB" help:"SQLite database path"`
	Verbose bool   `short:"v" help:"Log every fetch and write"`

	Crawl   CrawlCmd   `cmd:"" help:"Crawl the site and store extracted records"`
	Extract ExtractCmd `cmd:"" help:"Process a saved page and print the outcome as JSON"`
	List    ListCmd    `cmd:"" help:"List stored records of a kind"`
	Runs    RunsCmd    `cmd:"" help:"List crawl runs"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seeds       []string      `arg:"" optional:"" help:"Start URLs (default: first page of the shop listing)"`
	Out         string        `short:"o" env:"RAMENDB_OUT" help:"Directory for JSON-lines export"`
	RedisAddr   string        `name:"redis-addr" env:"RAMENDB_REDIS_ADDR" help:"Redis address to publish records to"`
	RedisStream string        `name:"redis-stream" env:"RAMENDB_REDIS_STREAM" default:"ramendb" help:"Redis stream key prefix"`
	RedisMaxLen int64         `name:"redis-maxlen" env:"RAMENDB_REDIS_MAXLEN" default:"0" help:"Approximate stream length cap (0 disables)"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent fetch workers"`
	RPS         float64       `name:"rps" default:"1" help:"Requests per second per host (0 disables)"`
	MaxPages    int           `name:"max-pages" default:"0" help:"Stop after this many fetches (0 = unbounded)"`
	MaxRefetch  int           `name:"max-refetch" default:"5" help:"Re-fetch budget per mis-served page (0 disables)"`
	Sitemap     bool          `help:"Also seed from the site's sitemaps"`
	Timeout     time.Duration `default:"10s" help:"HTTP request timeout"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `arg:"" help:"URL the page was served from"`
	File string `arg:"" type:"existingfile" help:"Saved HTML file"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Kind   string `arg:"" help:"Record kind (business, review, user)"`
	RunID  string `name:"run" help:"Only records from this run"`
	Limit  int    `short:"n" default:"20" help:"Maximum records to print (0 = all)"`
	Offset int    `default:"0" help:"Records to skip"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Maximum runs to print (0 = all)"`
}

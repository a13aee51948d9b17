package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ramendb"
	"github.com/fwojciec/ramendb/crawl"
	"github.com/fwojciec/ramendb/fs"
	"github.com/fwojciec/ramendb/goquery"
	rhttp "github.com/fwojciec/ramendb/http"
	"github.com/fwojciec/ramendb/redis"
	rslog "github.com/fwojciec/ramendb/slog"
	"github.com/fwojciec/ramendb/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if closeErr := m.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RecordService *sqlite.RecordService
	RunService    ramendb.RunService

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ramendb"),
		kong.Description("Crawl ramendb.supleks.jp and extract shops, reviews and users."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ramendb --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	if cmd == "extract" {
		deps.Processor = crawl.NewProcessor(goquery.NewParser())
		return kongCtx.Run(deps)
	}

	dbPath := m.DBPath
	if cli.DB != "" {
		dbPath = cli.DB
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set RAMENDB_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}

	m.RecordService = sqlite.NewRecordService(m.DB)
	m.RunService = sqlite.NewRunService(m.DB)
	deps.Records = m.RecordService
	deps.Runs = m.RunService

	if cmd == "crawl" {
		if err := m.wireCrawl(ctx, deps, &cli.Crawl); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireCrawl builds the crawler and its sinks for the crawl command.
func (m *Main) wireCrawl(ctx context.Context, deps *Dependencies, c *CrawlCmd) error {
	logger := deps.Logger

	fetcher := rhttp.NewFetcher(rhttp.WithTimeout(c.Timeout))
	m.closers = append(m.closers, fetcher)

	var extra []ramendb.RecordWriter
	if c.Out != "" {
		export := fs.NewWriter(c.Out)
		deps.Export = export
		extra = append(extra, rslog.NewLoggingRecordWriter(export, "jsonl", logger))
	}
	if c.RedisAddr != "" {
		pub, err := redis.Dial(ctx, c.RedisAddr, 0,
			redis.WithStreamPrefix(c.RedisStream),
			redis.WithMaxLen(c.RedisMaxLen),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Check RAMENDB_REDIS_ADDR or omit --redis-addr")
			return err
		}
		m.closers = append(m.closers, pub)
		extra = append(extra, rslog.NewLoggingRecordWriter(pub, "redis", logger))
	}

	records := m.RecordService
	deps.RunSink = func(runID string) ramendb.RecordWriter {
		writers := []ramendb.RecordWriter{
			rslog.NewLoggingRecordWriter(records.ForRun(runID), "sqlite", logger),
		}
		return ramendb.MultiWriter(append(writers, extra...)...)
	}

	maxRefetch := c.MaxRefetch
	if maxRefetch <= 0 {
		maxRefetch = -1
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:     rslog.NewLoggingFetcher(fetcher, logger),
		Processor:   crawl.NewProcessor(goquery.NewParser()),
		RateLimiter: crawl.NewDomainLimiter(c.RPS),
		Sitemaps:    rslog.NewLoggingSitemapService(rhttp.NewSitemapService(nil), logger),
		Logger:      logger,
		Concurrency: c.Concurrency,
		MaxPages:    c.MaxPages,
		MaxRefetch:  maxRefetch,
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("RAMENDB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ramendb.db"
	}
	dir := filepath.Join(home, ".ramendb")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "ramendb.db")
}

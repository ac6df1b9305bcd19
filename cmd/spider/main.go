package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	"github.com/fwojciec/spider/fs"
	"github.com/fwojciec/spider/goquery"
	spiderhttp "github.com/fwojciec/spider/http"
	spiderslog "github.com/fwojciec/spider/slog"
	"github.com/fwojciec/spider/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor SPIDER_DB is set.
	DBPath string

	// Configuration files searched for flag defaults, in order.
	ConfigPaths []string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProjectService spider.ProjectService
	RunService     spider.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		ConfigPaths: defaultConfigPaths(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
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
		kong.Name("spider"),
		kong.Description("Resumable single-domain web crawler."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		vars(m.DBPath),
		kong.Configuration(kongyaml.Loader, m.ConfigPaths...),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'spider --help' to see available commands")
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

	logger, closeLog, err := newLogger(stderr, cli.LogLevel, cli.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	deps.Logger = logger

	m.DBPath = cli.DB
	if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SPIDER_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ProjectService = sqlite.NewProjectService(m.DB)
	m.RunService = sqlite.NewRunService(m.DB)
	deps.DB = m.DB
	deps.Projects = m.ProjectService
	deps.Runs = m.RunService

	if strings.HasPrefix(kongCtx.Command(), "crawl ") {
		c := cli.Crawl
		fetcher := spiderslog.NewLoggingFetcher(spiderhttp.NewFetcher(
			spiderhttp.WithTimeout(c.Timeout),
			spiderhttp.WithUserAgent(c.UserAgent),
			spiderhttp.WithMaxBodyBytes(c.MaxBodyBytes),
		), logger)
		defer fetcher.Close()

		deps.Crawler = &crawl.Crawler{
			Fetcher:     fetcher,
			Extractor:   spiderslog.NewLoggingLinkExtractor(goquery.NewLinkExtractor(), logger),
			Store:       spiderslog.NewLoggingFrontierStore(fs.NewFrontierStore(fs.ProjectDir(c.Root, c.Name)), logger),
			RateLimiter: crawl.NewDomainLimiter(c.RPS),
			Concurrency: c.Workers,
			RetryDelays: retryDelays(c.Retries),
		}
	}

	return kongCtx.Run(deps)
}

// retryDelays returns n exponential backoff delays starting at one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	delay := time.Second
	for range n {
		delays = append(delays, delay)
		delay *= 2
	}
	return delays
}

func defaultDBPath() string {
	return filepath.Join(xdg.DataHome, "spider", "spider.db")
}

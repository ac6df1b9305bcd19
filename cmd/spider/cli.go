package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
	spiderhttp "github.com/fwojciec/spider/http"
	"github.com/fwojciec/spider/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Projects spider.ProjectService
	Runs     spider.RunService
	Crawler  *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB       string          `env:"SPIDER_DB" default:"${db}" help:"Path to the project registry database"`
	LogLevel string          `enum:"debug,info,warn,error" default:"info" help:"Minimum log level (debug, info, warn, error)"`
	LogFile  string          `help:"Also write JSON logs to this file, rotated by size"`
	Config   kong.ConfigFlag `help:"Load flag defaults from a YAML file"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site, resuming from the project directory"`
	Status StatusCmd `cmd:"" help:"Show the persisted crawl state of a project"`
	List   ListCmd   `cmd:"" help:"List registered projects and their latest run"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Name         string        `arg:"" help:"Project name (directory under --root)"`
	SeedURL      string        `arg:"" name:"seed-url" help:"URL the crawl starts from"`
	Workers      int           `short:"w" default:"8" help:"Number of concurrent workers"`
	Root         string        `default:"." type:"path" help:"Directory holding project directories"`
	Timeout      time.Duration `default:"10s" help:"Per-request timeout"`
	Retries      int           `default:"3" help:"Retries for transient fetch failures"`
	RPS          float64       `name:"rps" default:"0" help:"Requests per second per host (0 disables limiting)"`
	UserAgent    string        `default:"${user_agent}" help:"User-Agent header"`
	MaxBodyBytes int64         `default:"${max_body_bytes}" help:"Truncate response bodies beyond this size"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Name string `arg:"" help:"Project name"`
	Root string `default:"." type:"path" help:"Directory holding project directories"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// vars supplies interpolated flag defaults.
func vars(dbPath string) kong.Vars {
	return kong.Vars{
		"db":             dbPath,
		"user_agent":     spiderhttp.DefaultUserAgent,
		"max_body_bytes": fmt.Sprint(spiderhttp.DefaultMaxBodyBytes),
	}
}

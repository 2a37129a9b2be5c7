package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/notion"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Settings  lessondump.Settings
	Databases []notion.Database

	Browser     lessondump.Browser
	Extractor   lessondump.ContentExtractor
	Limiter     lessondump.DomainLimiter
	RetryDelays []time.Duration
	Exports     lessondump.ExportService
	Files       lessondump.FileWriter
	Notes       lessondump.NoteClient

	// Now stamps export filenames. Defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" env:"LESSONDUMP_CONFIG" help:"Config file (default ~/.lessondump/config.yaml)"`
	Verbose bool   `short:"v" help:"Log debug output to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract exercise pages and export them"`
	History HistoryCmd `cmd:"" help:"List past exports"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs []string `arg:"" name:"url" help:"Exercise page URLs"`

	Format string `short:"f" help:"Output format: markdown, json or text"`
	Out    string `short:"o" type:"path" help:"Directory for exported files"`
	Stdout bool   `help:"Print records to stdout instead of writing files"`
	Notion bool   `help:"Also send records to Notion"`
	Force  bool   `help:"Export even when the same content was exported before"`

	Driver     string  `help:"Browser driver: rod or chromedp"`
	ControlURL string  `name:"control-url" help:"DevTools URL of a running browser to attach to"`
	Headless   bool    `help:"Hide the window of a launched browser"`
	Rate       float64 `default:"0.5" help:"Page opens per second per host"`

	NoSolution bool `help:"Skip the official solution"`
	AutoOpen   bool `help:"Click the solution reveal control when the solution is hidden"`
	NoAutoOpen bool `help:"Never click the solution reveal control"`
	NoMetadata bool `help:"Omit URL and timestamp from records"`
	NoChats    bool `help:"Skip side-channel chats"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `help:"Only exports of this page"`
	Limit int    `short:"n" default:"20" help:"Maximum number of exports to list"`
}

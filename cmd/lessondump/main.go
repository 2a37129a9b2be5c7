package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lessondump"
	ldchromedp "github.com/fwojciec/lessondump/chromedp"
	"github.com/fwojciec/lessondump/extract"
	ldfs "github.com/fwojciec/lessondump/fs"
	"github.com/fwojciec/lessondump/goquery"
	"github.com/fwojciec/lessondump/htmltomarkdown"
	"github.com/fwojciec/lessondump/notion"
	ldrod "github.com/fwojciec/lessondump/rod"
	ldslog "github.com/fwojciec/lessondump/slog"
	"github.com/fwojciec/lessondump/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
	// Database and default config paths. Set before calling Run().
	DBPath     string
	ConfigPath string

	// SQLite database holding the export history.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Exports lessondump.ExportService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: defaultConfigPath(),
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
		kong.Name("lessondump"),
		kong.Description("Extract exercise pages from a running browser and export them"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lessondump --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	configPath, required := m.ConfigPath, false
	if cli.Config != "" {
		configPath, required = cli.Config, true
	}
	cfg, err := LoadConfig(configPath, required)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger
	deps.Settings = cfg.Settings
	deps.Databases = cfg.Notion.Databases

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LESSONDUMP_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Exports = sqlite.NewExportService(m.DB)
	deps.Exports = m.Exports

	if cmd == "extract" {
		closeBrowser, err := m.wireExtract(&cli.Extract, cfg, deps)
		if err != nil {
			return err
		}
		defer closeBrowser()
	}

	return kongCtx.Run(deps)
}

// wireExtract builds the browser, pipeline and export targets of the
// extract command.
func (m *Main) wireExtract(c *ExtractCmd, cfg Config, deps *Dependencies) (func(), error) {
	settings, err := c.ResolveSettings(cfg.Settings)
	if err != nil {
		return nil, err
	}
	deps.Settings = settings

	driver, err := c.ResolveDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	controlURL := c.ControlURL
	if controlURL == "" {
		controlURL = cfg.ControlURL
	}
	headless := c.Headless || cfg.Headless

	selectors := lessondump.DefaultSelectors()
	browser, err := openBrowser(driver, selectors, controlURL, headless)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or pass --control-url")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	deps.Browser = ldslog.NewLoggingBrowser(browser, deps.Logger)

	normalizer := goquery.NewNormalizer(selectors, htmltomarkdown.NewConverter())
	extractor := extract.NewExtractor(goquery.NewClassifier(selectors), goquery.NewScraper(selectors, normalizer))
	normalizer.Indent = extractor.Config.IndentSpaces
	extractor.Selectors = selectors
	extractor.Settings = settings
	extractor.Logger = deps.Logger
	deps.Extractor = ldslog.NewLoggingExtractor(extractor, deps.Logger)

	deps.Limiter = extract.NewDomainLimiter(c.Rate)
	deps.RetryDelays = extract.DefaultRetryDelays()

	outDir := c.Out
	if outDir == "" {
		outDir = cfg.OutDir
	}
	deps.Files = ldfs.NewWriter(outDir)

	if c.Notion && cfg.Notion.Token != "" {
		deps.Notes = ldslog.NewLoggingNoteClient(notion.NewClient(cfg.Notion.Token), deps.Logger)
	}

	return func() { _ = browser.Close() }, nil
}

func openBrowser(driver string, selectors lessondump.Selectors, controlURL string, headless bool) (lessondump.Browser, error) {
	if driver == driverChromedp {
		b, err := ldchromedp.NewBrowser(selectors, ldchromedp.Options{ControlURL: controlURL, Headless: headless})
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	opts := []ldrod.ManagerOption{ldrod.WithHeadless(headless)}
	if controlURL != "" {
		opts = append(opts, ldrod.WithControlURL(controlURL))
	}
	b, err := ldrod.NewBrowser(selectors, opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

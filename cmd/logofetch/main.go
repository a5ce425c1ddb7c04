package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/logofetch"
	"github.com/fwojciec/logofetch/enrich"
	"github.com/fwojciec/logofetch/fs"
	"github.com/fwojciec/logofetch/goquery"
	lfhttp "github.com/fwojciec/logofetch/http"
	"github.com/fwojciec/logofetch/rod"
	lfslog "github.com/fwojciec/logofetch/slog"
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
	// Services for end-to-end testing. When set they replace the wired
	// implementations.
	LogoService logofetch.LogoService
	AssetWriter logofetch.AssetWriter

	closers []func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases everything Run started, such as a headless browser.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
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
		kong.Name("logofetch"),
		kong.Description("Find and download the logos a website publishes."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLLoader),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'logofetch --help' to see available commands")
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

	logger, err := NewLogger(stderr, cli.LogLevel, cli.LogFormat, cli.Production)
	if err != nil {
		return err
	}
	deps.Logger = logger
	deps.Production = cli.Production

	defer m.Close()

	switch command(kongCtx) {
	case "serve":
		if err := m.wireLogos(deps, cli, nil); err != nil {
			return err
		}
	case "fetch":
		var progress enrich.ProgressFunc
		if !cli.Fetch.Quiet && !cli.Fetch.JSON {
			progress = printProgress(stderr)
		}
		if err := m.wireLogos(deps, cli, progress); err != nil {
			return err
		}
		if cli.Fetch.Out != "" {
			deps.Writer = m.AssetWriter
			if deps.Writer == nil {
				deps.Writer = fs.NewWriter(cli.Fetch.Out)
			}
		}
	}

	return kongCtx.Run(deps)
}

// wireLogos builds the logo pipeline from the global flags.
func (m *Main) wireLogos(deps *Dependencies, cli *CLI, progress enrich.ProgressFunc) error {
	if m.LogoService != nil {
		deps.Logos = m.LogoService
		return nil
	}

	httpOpts := []lfhttp.Option{
		lfhttp.WithTimeout(cli.Timeout),
		lfhttp.WithMaxRedirects(cli.MaxRedirects),
	}
	if cli.UserAgent != "" {
		httpOpts = append(httpOpts, lfhttp.WithUserAgent(cli.UserAgent))
	}
	httpFetcher := lfhttp.NewFetcher(httpOpts...)
	m.closers = append(m.closers, httpFetcher.Close)

	var pages logofetch.PageFetcher = httpFetcher
	if cli.Render {
		var browserOpts []rod.BrowserOption
		if cli.BrowserBin != "" {
			browserOpts = append(browserOpts, rod.WithBin(cli.BrowserBin))
		}
		browser, err := rod.NewBrowser(browserOpts...)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or pass --browser-bin")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, browser.Close)

		rodOpts := []rod.Option{rod.WithFetchTimeout(cli.RenderTimeout)}
		if cli.UserAgent != "" {
			rodOpts = append(rodOpts, rod.WithUserAgent(cli.UserAgent))
		}
		pages = rod.NewFetcher(browser, rodOpts...)
	}

	collector := goquery.NewCollector(
		goquery.WithMaxCandidates(cli.MaxCandidates),
		goquery.WithGenericFallbackLimit(cli.GenericFallbackLimit),
	)

	pipeline := &enrich.Pipeline{
		Pages:       lfslog.NewLoggingPageFetcher(pages, deps.Logger),
		Assets:      lfslog.NewLoggingAssetFetcher(httpFetcher, deps.Logger),
		Collector:   lfslog.NewLoggingCollector(collector, deps.Logger),
		Logger:      deps.Logger,
		Concurrency: cli.Concurrency,
		Progress:    progress,
	}
	deps.Logos = lfslog.NewLoggingLogoService(pipeline, deps.Logger)
	return nil
}

// command returns the name of the selected subcommand.
func command(ctx *kong.Context) string {
	name, _, _ := strings.Cut(ctx.Command(), " ")
	return name
}

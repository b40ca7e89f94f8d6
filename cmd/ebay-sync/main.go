package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ebay-sheets-sync/internal/browser"
	"ebay-sheets-sync/internal/config"
	"ebay-sheets-sync/internal/parser"
	"ebay-sheets-sync/internal/ratelimit"
	"ebay-sheets-sync/internal/runner"
	"ebay-sheets-sync/internal/scraper"
	"ebay-sheets-sync/internal/sheets"
)

func main() {
	// .env is optional; real env vars win either way.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		spreadsheetID = flag.String("spreadsheet", cfg.Sheets.SpreadsheetID, "Google Sheets spreadsheet ID")
		sheetName     = flag.String("sheet", cfg.Sheets.SheetName, "Worksheet name")
		credsFile     = flag.String("creds", cfg.Sheets.CredentialsFile, "Service account credentials file")
		headless      = flag.Bool("headless", cfg.Browser.Headless, "Run browser in headless mode")
	)
	flag.Parse()

	cfg.Sheets.SpreadsheetID = *spreadsheetID
	cfg.Sheets.SheetName = *sheetName
	cfg.Sheets.CredentialsFile = *credsFile
	cfg.Browser.Headless = *headless

	setupLogging(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	client, err := sheets.NewClient(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	header, rows, err := sheets.ReadRows(ctx, client, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
	if err != nil {
		return err
	}

	// Column mapping happens before the browser starts: a misconfigured
	// sheet must fail fast, not after minutes of fetching.
	cols, err := sheets.MapColumns(header)
	if err != nil {
		return err
	}

	slog.Info("sheet loaded", "rows", len(rows), "columns", len(header))

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	browserOpts.ViewportWidth = cfg.Browser.ViewportWidth
	browserOpts.ViewportHeight = cfg.Browser.ViewportHeight
	browserOpts.AcceptLanguage = cfg.Browser.AcceptLanguage
	browserOpts.TimezoneID = cfg.Browser.TimezoneID
	browserOpts.Locale = cfg.Browser.Locale
	browserOpts.ProxyServer = cfg.Browser.ProxyServer

	b, err := browser.New(browserOpts)
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	limiter := ratelimit.NewSimpleRateLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax)

	fetcher, err := scraper.NewPageFetcher(b, limiter, cfg.Scraper.SettleDelay, cfg.Scraper.FetchTimeout)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer fetcher.Close()

	r := runner.New(fetcher, parser.NewEbayParser())
	results, summary := r.Run(ctx, rows)

	updates := sheets.BuildUpdates(cols, results)
	if err := sheets.Apply(ctx, client, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, updates); err != nil {
		return fmt.Errorf("batch write-back failed, extracted data for this run is lost: %w", err)
	}

	slog.Info("sync complete",
		"run_id", summary.RunID,
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"cell_updates", len(updates))

	return nil
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// Package main provides the HEP planned outage checker command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hepoutage/internal/checker"
	"hepoutage/internal/config"
	"hepoutage/internal/crawler"
	"hepoutage/internal/crawler/parsers"
	"hepoutage/internal/logger"
	"hepoutage/internal/metrics"
	"hepoutage/internal/notifier"

	"github.com/google/uuid"
)

const unsetDays = -1

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to YAML configuration file (default configs/checker.yaml if present)")
	dryRun := flag.Bool("dry-run", false, "Print outages instead of sending email")
	windowDays := flag.Int("days", unsetDays, "Days to look ahead after today (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	showUsage := flag.Bool("help", false, "Show usage information")

	var filterFlag string

	flag.StringVar(&filterFlag, "filter", "", "Only report outages whose location or street contains this text")
	flag.StringVar(&filterFlag, "f", "", "Shorthand for -filter")

	flag.Parse()

	if *showUsage {
		printUsage()

		return 0
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)

		return 1
	}

	if *dryRun {
		cfg.Check.DryRun = true
	}

	if filterFlag != "" {
		cfg.Check.Filter = filterFlag
	}

	if *windowDays != unsetDays {
		cfg.Check.WindowDays = *windowDays
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)

		return 1
	}

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)

		return 1
	}

	log := logger.NewLogger(cfg.Logging.Level).With("run_id", uuid.NewString())
	log.Info("🔍 HEP outage checker starting", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scraper := crawler.NewScraperWithConfig(cfg.HEP.BaseURL, &cfg.Fetch)
	client := crawler.NewClient(scraper, parsers.NewParser(), log,
		crawler.WithLocation(loc),
		crawler.WithDelay(cfg.Fetch.GetDelay()),
	)

	var reporter *notifier.Reporter
	if cfg.Check.DryRun {
		reporter = notifier.NewDryRunReporter(os.Stdout, log)
	} else {
		reporter = notifier.NewReporter(notifier.NewSMTPSender(cfg.Email, cfg.Fetch.GetTimeout()), log)
	}

	m := metrics.New()

	c := checker.New(client, reporter, checker.Settings{
		Area:       cfg.HEP.AreaCode,
		Office:     cfg.HEP.OfficeCode,
		WindowDays: cfg.Check.WindowDays,
		Filter:     cfg.Check.Filter,
		SourceURL:  crawler.NewURLBuilder(cfg.HEP.BaseURL).ListingURL(cfg.HEP.AreaCode, cfg.HEP.OfficeCode),
	}, log, m)

	c.Run(ctx)

	if cfg.Metrics.TextfilePath != "" {
		if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.Warn("metrics not written", "error", err)
		}
	}

	return 0
}

func printUsage() {
	fmt.Println("HEP Outage Checker - planned power outage notifications")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  checker [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  HEP_CITY, HEP_OFFICE           area and office codes (required)")
	fmt.Println("  TO_EMAIL, FROM_EMAIL           recipient and sender addresses")
	fmt.Println("  SMTP_USERNAME, SMTP_PASSWORD   SMTP credentials")
	fmt.Println("  SMTP_SERVER, SMTP_PORT         relay (default smtp.gmail.com:587)")
	fmt.Println("  HEP_FILTER, HEP_WINDOW_DAYS    filter text and look-ahead days")
	fmt.Println("  HEP_TIMEZONE, LOG_LEVEL        zone for \"today\" and log level")
	fmt.Println("  METRICS_TEXTFILE               Prometheus textfile output path")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  checker -dry-run")
	fmt.Println("  checker -f Valentići")
	fmt.Println("  checker -config configs/checker.yaml -days 3")
}

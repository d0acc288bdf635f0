// Package checker runs one pass of the outage check: crawl the window,
// filter by location and report.
package checker

import (
	"context"
	"time"

	"hepoutage/internal/crawler"
	"hepoutage/internal/filter"
	"hepoutage/internal/logger"
	"hepoutage/internal/metrics"
	"hepoutage/internal/notifier"
)

// Settings selects what a run checks.
type Settings struct {
	Area       string
	Office     string
	WindowDays int
	Filter     string
	SourceURL  string
}

// Summary is the outcome of one run.
type Summary struct {
	Days       int
	FailedDays int
	Total      int
	Matched    int
	Sent       bool
	DryRun     bool
	SendErr    error
	Duration   time.Duration
}

// Checker wires the crawler, the filter and the reporter together.
type Checker struct {
	client   *crawler.Client
	reporter *notifier.Reporter
	metrics  *metrics.Metrics
	log      *logger.Logger
	settings Settings
}

// New creates a checker. A nil metrics value records into a throwaway registry.
func New(client *crawler.Client, reporter *notifier.Reporter, settings Settings, log *logger.Logger, m *metrics.Metrics) *Checker {
	if log == nil {
		log = logger.Discard()
	}

	if m == nil {
		m = metrics.New()
	}

	return &Checker{
		client:   client,
		reporter: reporter,
		metrics:  m,
		log:      log,
		settings: settings,
	}
}

// Run performs a single check. Fetch and send failures are logged and
// summarized; they never abort the run.
func (c *Checker) Run(ctx context.Context) Summary {
	startTime := time.Now()
	s := c.settings

	c.log.Info("outage check started",
		"area", s.Area,
		"office", s.Office,
		"window_days", s.WindowDays,
		"filter", s.Filter,
	)

	window := c.client.CrawlWindow(ctx, s.Area, s.Office, s.WindowDays)
	for _, day := range window.Days {
		c.metrics.ObserveDay(day.Err, day.Duration)
	}

	matched := filter.ByLocation(window.Outages, s.Filter)
	c.metrics.ObserveOutages(len(window.Outages), len(matched))

	result := c.reporter.Report(ctx, matched, notifier.ReportInfo{
		Filter:     s.Filter,
		SourceURL:  s.SourceURL,
		Total:      len(window.Outages),
		WindowDays: s.WindowDays,
	})
	c.metrics.ObserveNotification(result.Sent, result.DryRun, result.Err)

	summary := Summary{
		Days:       len(window.Days),
		FailedDays: window.FailedDays(),
		Total:      len(window.Outages),
		Matched:    result.Matched,
		Sent:       result.Sent,
		DryRun:     result.DryRun,
		SendErr:    result.Err,
		Duration:   time.Since(startTime),
	}

	c.metrics.Finish(time.Now())

	if summary.FailedDays == summary.Days && summary.Days > 0 {
		c.log.Warn("every day failed to fetch, the result may be incomplete", "days", summary.Days)
	}

	c.log.Info("outage check finished",
		"days", summary.Days,
		"failed_days", summary.FailedDays,
		"total", summary.Total,
		"matched", summary.Matched,
		"sent", summary.Sent,
		"dry_run", summary.DryRun,
		"duration", summary.Duration,
	)

	return summary
}

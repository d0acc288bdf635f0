package crawler

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"hepoutage/internal/crawler/parsers"
	"hepoutage/internal/logger"
	"hepoutage/internal/models"
	"hepoutage/pkg/utils"
)

// PageFetcher returns the raw HTML published for one day.
type PageFetcher interface {
	Fetch(ctx context.Context, area, office string, date time.Time) (string, error)
}

// URLResolver is implemented by fetchers that can tell which URL they fetch.
type URLResolver interface {
	PageURL(area, office string, date time.Time) string
}

// PageParser turns one day's HTML into outages.
type PageParser interface {
	ParseWithStats(page string) ([]models.Outage, parsers.Stats)
}

// DayResult is the outcome of one day in the look-ahead window.
type DayResult struct {
	Offset   int
	Date     time.Time
	URL      string
	Outages  []models.Outage
	Stats    parsers.Stats
	Err      error
	Duration time.Duration
}

// WindowResult aggregates every day of a crawl.
type WindowResult struct {
	Outages []models.Outage
	Days    []DayResult
}

// FailedDays returns how many days could not be fetched.
func (w *WindowResult) FailedDays() int {
	failed := 0

	for _, day := range w.Days {
		if day.Err != nil {
			failed++
		}
	}

	return failed
}

// Client walks the look-ahead window one day at a time.
type Client struct {
	fetcher  PageFetcher
	parser   PageParser
	log      *logger.Logger
	location *time.Location
	delay    time.Duration
	now      func() time.Time
	text     *utils.StringHelper
}

// Option configures a Client.
type Option func(*Client)

// WithLocation sets the zone in which "today" is computed.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithDelay pauses between two consecutive day fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a crawler client over the given fetcher and parser.
func NewClient(fetcher PageFetcher, parser PageParser, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Discard()
	}

	c := &Client{
		fetcher:  fetcher,
		parser:   parser,
		log:      log,
		location: time.Local,
		now:      time.Now,
		text:     utils.NewStringHelper(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Dates returns the calendar days of the window, today first. A negative
// window is empty.
func (c *Client) Dates(windowDays int) []time.Time {
	if windowDays < 0 {
		return []time.Time{}
	}

	now := c.now().In(c.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location)

	dates := make([]time.Time, 0, windowDays+1)
	for d := 0; d <= windowDays; d++ {
		dates = append(dates, today.AddDate(0, 0, d))
	}

	return dates
}

// Days fetches and parses each day of the window lazily. A failed day is
// yielded with Err set and the sequence continues.
func (c *Client) Days(ctx context.Context, area, office string, windowDays int) iter.Seq[DayResult] {
	return func(yield func(DayResult) bool) {
		for offset, date := range c.Dates(windowDays) {
			if offset > 0 && c.delay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(c.delay):
				}
			}

			if !yield(c.crawlDay(ctx, area, office, offset, date)) {
				return
			}
		}
	}
}

// CrawlWindow collects every outage published for today and the next
// windowDays days. Days that fail are logged and skipped; if all of them fail
// the result is simply empty.
func (c *Client) CrawlWindow(ctx context.Context, area, office string, windowDays int) *WindowResult {
	result := &WindowResult{
		Outages: []models.Outage{},
	}

	for day := range c.Days(ctx, area, office, windowDays) {
		result.Days = append(result.Days, day)
		result.Outages = append(result.Outages, day.Outages...)
	}

	return result
}

func (c *Client) crawlDay(ctx context.Context, area, office string, offset int, date time.Time) DayResult {
	day := DayResult{
		Offset: offset,
		Date:   date,
	}

	if resolver, ok := c.fetcher.(URLResolver); ok {
		day.URL = resolver.PageURL(area, office, date)
	}

	log := c.log.With("date", date.Format(models.SourceDateLayout), "url", day.URL)

	startTime := time.Now()
	page, err := c.fetcher.Fetch(ctx, area, office, date)
	day.Duration = time.Since(startTime)

	if err != nil {
		day.Err = fmt.Errorf("failed to fetch %s: %w", date.Format(models.SourceDateLayout), err)
		log.Warn("day skipped", "error", err, "duration", day.Duration)

		return day
	}

	outages, stats := c.parser.ParseWithStats(page)
	for i := range outages {
		outages[i].SourceDate = date
	}

	day.Outages = outages
	day.Stats = stats

	attrs := []any{
		"bytes", stats.Bytes,
		"fingerprint", stats.Fingerprint,
		"root_found", stats.RootFound,
		"labels", stats.Labels,
		"outages", len(outages),
		"duration", day.Duration,
	}

	if len(outages) > 0 {
		attrs = append(attrs, "entries", c.summarize(outages))
	}

	log.Info("day checked", attrs...)

	return day
}

func (c *Client) summarize(outages []models.Outage) string {
	parts := make([]string, 0, len(outages))

	for _, o := range outages {
		place := o.Location
		if place == "" {
			place = o.Street
		}

		parts = append(parts, c.text.TruncateString(place, 40)+": "+o.TimeRange)
	}

	return strings.Join(parts, "; ")
}

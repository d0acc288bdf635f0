package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"hepoutage/internal/checker"
	"hepoutage/internal/config"
	"hepoutage/internal/crawler"
	"hepoutage/internal/crawler/parsers"
	"hepoutage/internal/logger"
	"hepoutage/internal/metrics"
	"hepoutage/internal/notifier"
)

var fixtureDir = filepath.Join("..", "..", "internal", "crawler", "parsers", "testdata")

func readFixture(t *testing.T, name string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(fixtureDir, name))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	return string(content)
}

// hepServer serves one fixture per date and records every requested date.
type hepServer struct {
	mu      sync.Mutex
	dates   []string
	pages   map[string]string
	failing map[string]bool
}

func (h *hepServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("datum")

	h.mu.Lock()
	h.dates = append(h.dates, date)
	h.mu.Unlock()

	if r.URL.Query().Get("dp") != "4005" || r.URL.Query().Get("el") != "4006" {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	if h.failing[date] {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	page, ok := h.pages[date]
	if !ok {
		page = h.pages["default"]
	}

	_, _ = w.Write([]byte(page))
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	env := map[string]string{
		"HEP_BASE_URL":    baseURL,
		"HEP_CITY":        "4005",
		"HEP_OFFICE":      "4006",
		"HEP_TIMEZONE":    "UTC",
		"HEP_WINDOW_DAYS": "7",
		"HEP_FILTER":      "pula",
	}

	cfg := config.Default()
	if err := cfg.ApplyEnv(func(key string) string { return env[key] }); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	cfg.Check.DryRun = true
	cfg.Fetch.DelayMs = 0
	cfg.Fetch.BreakerFailures = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	return cfg
}

func TestCheckerFlow_FilteredEmail(t *testing.T) {
	today := time.Date(2025, time.October, 20, 6, 0, 0, 0, time.UTC)

	server := &hepServer{
		pages: map[string]string{
			"20.10.2025": readFixture(t, "two_outages.html"),
			"22.10.2025": readFixture(t, "table_layout.html"),
			"default":    readFixture(t, "no_outages.html"),
		},
		failing: map[string]bool{"24.10.2025": true},
	}

	ts := httptest.NewServer(server)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	loc, _ := cfg.Location()

	scraper := crawler.NewScraperWithConfig(cfg.HEP.BaseURL, &cfg.Fetch)
	client := crawler.NewClient(scraper, parsers.NewParser(), logger.Discard(),
		crawler.WithLocation(loc),
		crawler.WithClock(func() time.Time { return today }),
	)

	var mailbox bytes.Buffer

	m := metrics.New()
	reporter := notifier.NewReporter(notifier.NewConsoleSender(&mailbox), logger.Discard())

	summary := checker.New(client, reporter, checker.Settings{
		Area:       cfg.HEP.AreaCode,
		Office:     cfg.HEP.OfficeCode,
		WindowDays: cfg.Check.WindowDays,
		Filter:     cfg.Check.Filter,
		SourceURL:  crawler.NewURLBuilder(cfg.HEP.BaseURL).ListingURL(cfg.HEP.AreaCode, cfg.HEP.OfficeCode),
	}, logger.Discard(), m).Run(context.Background())

	if len(server.dates) != 8 {
		t.Fatalf("Expected 8 requests, got %d: %v", len(server.dates), server.dates)
	}

	if server.dates[0] != "20.10.2025" || server.dates[7] != "27.10.2025" {
		t.Errorf("Unexpected request dates: %v", server.dates)
	}

	if summary.Total != 4 || summary.Matched != 1 || summary.FailedDays != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	mail := mailbox.String()

	if !strings.HasPrefix(mail, "Subject: ⚡ Power Outage Alert - pula\n") {
		t.Errorf("Unexpected subject line:\n%s", mail)
	}

	if !strings.Contains(mail, "📍 Location: Pula") || strings.Contains(mail, "Valentići") {
		t.Errorf("Expected only the Pula outage, got:\n%s", mail)
	}

	if !strings.Contains(mail, "Source: "+ts.URL+"?dp=4005&el=4006") {
		t.Errorf("Expected source link in body, got:\n%s", mail)
	}

	path := filepath.Join(t.TempDir(), "hep.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}

	if !strings.Contains(string(content), `hep_outage_days_checked_total{result="failed"} 1`) {
		t.Errorf("Expected failed day in metrics, got:\n%s", content)
	}
}

func TestCheckerFlow_SiteDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	cfg.Fetch.BreakerFailures = 2

	var console bytes.Buffer

	client := crawler.NewClient(crawler.NewScraperWithConfig(cfg.HEP.BaseURL, &cfg.Fetch), parsers.NewParser(), nil,
		crawler.WithLocation(time.UTC),
	)

	summary := checker.New(client, notifier.NewDryRunReporter(&console, nil), checker.Settings{
		Area:       cfg.HEP.AreaCode,
		Office:     cfg.HEP.OfficeCode,
		WindowDays: cfg.Check.WindowDays,
	}, nil, nil).Run(context.Background())

	if summary.Days != 8 || summary.FailedDays != 8 || summary.Total != 0 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	if !strings.Contains(console.String(), "No outages found in the next 7 days.") {
		t.Errorf("Expected empty dry-run banner, got:\n%s", console.String())
	}
}

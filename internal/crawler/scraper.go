package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hepoutage/internal/config"
	"hepoutage/pkg/utils"

	"github.com/sony/gobreaker"
)

// Scraper errors.
var (
	// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrCircuitOpen is returned without a request once the site failed repeatedly.
	ErrCircuitOpen = errors.New("circuit breaker open")
	// ErrResponseTooLarge indicates a page longer than the configured buffer.
	ErrResponseTooLarge = errors.New("response exceeds buffer size")
)

// Scraper fetches outage pages over HTTP. Each page gets exactly one attempt.
type Scraper struct {
	client       *http.Client
	urls         *URLBuilder
	headers      *utils.HTTPHelper
	circuit      *gobreaker.CircuitBreaker
	bufferSizeKb int
}

// NewScraper creates a new scraper instance with default config.
func NewScraper(baseURL string) *Scraper {
	return NewScraperWithConfig(baseURL, &config.FetchConfig{
		TimeoutSec:      config.DefaultTimeoutSec,
		BufferSizeKb:    config.DefaultBufferSizeKb,
		BreakerFailures: config.DefaultBreakerFailures,
	})
}

// NewScraperWithConfig creates a new scraper with custom fetch settings.
func NewScraperWithConfig(baseURL string, fetchCfg *config.FetchConfig) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: fetchCfg.GetTimeout(),
		},
		urls:         NewURLBuilder(baseURL),
		headers:      utils.NewHTTPHelper(fetchCfg.UserAgent),
		bufferSizeKb: fetchCfg.BufferSizeKb,
	}

	if fetchCfg.BreakerFailures > 0 {
		threshold := uint32(fetchCfg.BreakerFailures)
		s.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "hep-ods",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: reachable,
		})
	}

	return s
}

// PageURL returns the URL fetched for the given day.
func (s *Scraper) PageURL(area, office string, date time.Time) string {
	return s.urls.PageURL(area, office, date)
}

// Fetch returns the HTML of the outage page for one day.
func (s *Scraper) Fetch(ctx context.Context, area, office string, date time.Time) (string, error) {
	content, _, _, err := s.FetchWithMetrics(ctx, area, office, date)

	return content, err
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (s *Scraper) FetchWithMetrics(ctx context.Context, area, office string, date time.Time) (string, int, time.Duration, error) {
	startTime := time.Now()
	pageURL := s.PageURL(area, office, date)

	if s.circuit == nil {
		content, status, err := s.get(ctx, pageURL)

		return content, status, time.Since(startTime), err
	}

	var status int

	result, err := s.circuit.Execute(func() (interface{}, error) {
		content, code, getErr := s.get(ctx, pageURL)
		status = code

		return content, getErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}

		return "", status, time.Since(startTime), err
	}

	content, ok := result.(string)
	if !ok {
		return "", status, time.Since(startTime), fmt.Errorf("unexpected result type from circuit breaker")
	}

	return content, status, time.Since(startTime), nil
}

// reachable reports whether err still proves the site answered. Only
// transport failures count against the breaker; a bad status or an
// oversized page affects a single day.
func reachable(err error) bool {
	return err == nil ||
		errors.Is(err, ErrUnexpectedStatusCode) ||
		errors.Is(err, ErrResponseTooLarge) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (s *Scraper) get(ctx context.Context, pageURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.BuildHeaders(nil)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// Read with buffer limit
	// bufferSizeKb is in KB, convert to bytes
	limit := int64(s.bufferSizeKb) * 1024
	reader := io.LimitReader(resp.Body, limit+1)

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > limit {
		return "", resp.StatusCode, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, limit)
	}

	return string(body), resp.StatusCode, nil
}

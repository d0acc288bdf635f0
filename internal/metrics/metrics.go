// Package metrics records run statistics in Prometheus format. The checker
// is a short-lived job, so metrics are written to a textfile for the
// node_exporter textfile collector instead of being served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hep_outage"

// Metrics holds the collectors of one run.
type Metrics struct {
	registry *prometheus.Registry

	daysChecked    *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	outagesFound   prometheus.Gauge
	outagesMatched prometheus.Gauge
	notifications  *prometheus.CounterVec
	lastRun        prometheus.Gauge
}

// New creates metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		daysChecked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_checked_total",
			Help:      "Days of the look-ahead window checked, by outcome.",
		}, []string{"result"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a single day page fetch.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
		outagesFound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outages_found",
			Help:      "Outages found in the window during the last run.",
		}),
		outagesMatched: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outages_matched",
			Help:      "Outages left after the location filter during the last run.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification outcomes, by result.",
		}, []string{"result"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDay records the outcome of one day fetch.
func (m *Metrics) ObserveDay(err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "failed"
	}

	m.daysChecked.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(duration.Seconds())
}

// ObserveOutages records the window total and the filtered count.
func (m *Metrics) ObserveOutages(found, matched int) {
	m.outagesFound.Set(float64(found))
	m.outagesMatched.Set(float64(matched))
}

// ObserveNotification records what happened to the report.
func (m *Metrics) ObserveNotification(sent, dryRun bool, err error) {
	var result string

	switch {
	case dryRun:
		result = "dry_run"
	case err != nil:
		result = "failed"
	case sent:
		result = "sent"
	default:
		result = "skipped"
	}

	m.notifications.WithLabelValues(result).Inc()
}

// Finish stamps the end of the run.
func (m *Metrics) Finish(at time.Time) {
	m.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}

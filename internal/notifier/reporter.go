package notifier

import (
	"context"
	"io"

	"hepoutage/internal/formatter"
	"hepoutage/internal/logger"
	"hepoutage/internal/models"
)

// ReportInfo carries the run details shown around the outage list.
type ReportInfo struct {
	Filter     string
	SourceURL  string
	Total      int
	WindowDays int
}

// Result describes what the reporter did.
type Result struct {
	Matched int
	Sent    bool
	DryRun  bool
	Err     error
}

// Reporter decides whether and how a list of outages is delivered.
type Reporter struct {
	sender  Sender
	log     *logger.Logger
	console io.Writer
}

// NewReporter creates a reporter that sends through sender.
func NewReporter(sender Sender, log *logger.Logger) *Reporter {
	if log == nil {
		log = logger.Discard()
	}

	return &Reporter{
		sender: sender,
		log:    log,
	}
}

// NewDryRunReporter creates a reporter that prints to console and never sends.
func NewDryRunReporter(console io.Writer, log *logger.Logger) *Reporter {
	r := NewReporter(nil, log)
	r.console = console

	return r
}

// Report delivers the outages. An empty list is never sent, and a failed
// send is logged and returned in the result rather than aborting the run.
func (r *Reporter) Report(ctx context.Context, outages []models.Outage, info ReportInfo) Result {
	result := Result{Matched: len(outages)}

	if info.Filter != "" {
		r.log.Info(formatter.FilterSummary(info.Filter, len(outages), info.Total))
	}

	if r.console != nil {
		result.DryRun = true

		if _, err := io.WriteString(r.console, formatter.RenderConsole(outages, info.SourceURL, info.WindowDays)); err != nil {
			result.Err = err
			r.log.Error("failed to print outages", "error", err)
		}

		return result
	}

	if len(outages) == 0 {
		r.log.Info("no matching outages, no email sent", "total", info.Total)

		return result
	}

	subject := formatter.Subject(info.Filter)
	body := formatter.RenderBody(outages, info.SourceURL)

	if err := r.sender.Send(ctx, subject, body); err != nil {
		result.Err = err
		r.log.Error("email notification failed", "error", err, "outages", len(outages))

		return result
	}

	result.Sent = true
	r.log.Info("email notification sent", "outages", len(outages), "subject", subject)

	return result
}

// Package formatter renders outage lists for email and for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"hepoutage/internal/models"

	"github.com/mattn/go-runewidth"
)

// SubjectPrefix starts every notification subject.
const SubjectPrefix = "⚡ Power Outage Alert"

const (
	bodyHeader  = "⚡ PLANNED POWER OUTAGES IN YOUR AREA ⚡"
	bodyFooter  = "This is an automated notification from HEP Outage Checker"
	dryRunTitle = "⚡ DRY RUN - POWER OUTAGE DATA (NO EMAIL SENT) ⚡"
	boxWidth    = 64
	ruleWidth   = 46
	labelWidth  = 10
)

type field struct {
	icon  string
	label string
	value string
}

// fields lists the printable fields of an outage; the note only when set.
func fields(o models.Outage) []field {
	out := []field{
		{"📅", "Date:", o.Day()},
		{"📍", "Location:", o.Location},
		{"🛣️ ", "Street:", o.Street},
		{"⏰", "Time:", o.TimeRange},
	}

	if o.Note != "" {
		out = append(out, field{"📝", "Note:", o.Note})
	}

	return out
}

// Subject returns the email subject, naming the filter when one is applied.
func Subject(filter string) string {
	if filter == "" {
		return SubjectPrefix
	}

	return SubjectPrefix + " - " + filter
}

// RenderBody renders the plain text email body. The output depends only on
// its arguments.
func RenderBody(outages []models.Outage, sourceURL string) string {
	var sb strings.Builder

	sb.WriteString(bodyHeader + "\n\n")
	fmt.Fprintf(&sb, "Found %d scheduled outage(s):\n\n", len(outages))

	for i, outage := range outages {
		fmt.Fprintf(&sb, "━━━ OUTAGE %d ━━━\n", i+1)

		for _, f := range fields(outage) {
			fmt.Fprintf(&sb, "%s %s %s\n", f.icon, f.label, f.value)
		}

		sb.WriteString("\n")
	}

	sb.WriteString("\n---\n")
	sb.WriteString(bodyFooter + "\n")
	fmt.Fprintf(&sb, "Source: %s\n", sourceURL)

	return sb.String()
}

// RenderConsole renders the dry-run view printed instead of sending email.
func RenderConsole(outages []models.Outage, sourceURL string, windowDays int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	writeBox(&sb, dryRunTitle)
	sb.WriteString("\n")

	if len(outages) == 0 {
		fmt.Fprintf(&sb, "✅ No outages found in the next %d days.\n\n", windowDays)

		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d scheduled outage(s):\n\n", len(outages))

	for i, outage := range outages {
		sb.WriteString(centerRule(fmt.Sprintf(" OUTAGE %d ", i+1), ruleWidth) + "\n")

		for _, f := range fields(outage) {
			fmt.Fprintf(&sb, "%s %s%s\n", f.icon, runewidth.FillRight(f.label, labelWidth), f.value)
		}

		sb.WriteString("\n")
	}

	rule := strings.Repeat("━", ruleWidth)
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Source: %s\n", sourceURL)
	sb.WriteString(rule + "\n\n")

	return sb.String()
}

// FilterSummary describes how many outages survived the location filter.
func FilterSummary(filter string, matched, total int) string {
	return fmt.Sprintf("Filter applied: '%s' - %d of %d outage(s) match", filter, matched, total)
}

func writeBox(sb *strings.Builder, title string) {
	border := strings.Repeat("═", boxWidth)

	sb.WriteString("╔" + border + "╗\n")
	sb.WriteString("║" + center(title, boxWidth) + "║\n")
	sb.WriteString("╚" + border + "╝\n")
}

// center pads s with spaces to the given display width.
func center(s string, width int) string {
	padding := width - runewidth.StringWidth(s)
	if padding <= 0 {
		return s
	}

	left := padding / 2

	return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
}

func centerRule(label string, width int) string {
	padding := width - runewidth.StringWidth(label)
	if padding <= 0 {
		return label
	}

	left := padding / 2

	return strings.Repeat("━", left) + label + strings.Repeat("━", padding-left)
}

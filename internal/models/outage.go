// Package models defines the data types shared across the checker.
package models

import "time"

// SourceDateLayout is the date format the provider uses in its query string.
const SourceDateLayout = "02.01.2006"

// Outage represents one planned power interruption announcement.
type Outage struct {
	SourceDate time.Time `json:"sourceDate"`
	DateLabel  string    `json:"dateLabel"`
	Location   string    `json:"location"`
	Street     string    `json:"street"`
	TimeRange  string    `json:"timeRange"`
	Note       string    `json:"note,omitempty"`
}

// HasPlace reports whether the record names a location or a street.
func (o Outage) HasPlace() bool {
	return o.Location != "" || o.Street != ""
}

// Day returns the label to show for the outage date, preferring the
// published heading over the fetch date.
func (o Outage) Day() string {
	if o.DateLabel != "" {
		return o.DateLabel
	}

	if o.SourceDate.IsZero() {
		return ""
	}

	return o.SourceDate.Format(SourceDateLayout)
}

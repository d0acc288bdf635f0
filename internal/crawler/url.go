package crawler

import (
	"net/url"
	"time"

	"hepoutage/internal/models"
)

// URLBuilder builds outage page URLs for one area and office.
type URLBuilder struct {
	baseURL string
}

// NewURLBuilder creates a URL builder for the given listing base URL.
func NewURLBuilder(baseURL string) *URLBuilder {
	return &URLBuilder{baseURL: baseURL}
}

// ListingURL returns the undated listing URL, used as the report source link.
func (b *URLBuilder) ListingURL(area, office string) string {
	values := url.Values{}
	values.Set("dp", area)
	values.Set("el", office)

	return b.baseURL + "?" + values.Encode()
}

// PageURL returns the URL of the outage page for a single date.
func (b *URLBuilder) PageURL(area, office string, date time.Time) string {
	values := url.Values{}
	values.Set("dp", area)
	values.Set("el", office)
	values.Set("datum", date.Format(models.SourceDateLayout))

	return b.baseURL + "?" + values.Encode()
}

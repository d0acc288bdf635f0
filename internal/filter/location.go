// Package filter narrows outage lists down to the places a user cares about.
package filter

import (
	"strings"

	"hepoutage/internal/models"

	"golang.org/x/text/cases"
)

// ByLocation keeps the outages whose location or street contains pattern,
// ignoring case. An empty pattern returns the input unchanged.
func ByLocation(outages []models.Outage, pattern string) []models.Outage {
	if pattern == "" {
		return outages
	}

	fold := cases.Fold()
	needle := fold.String(pattern)

	matched := make([]models.Outage, 0, len(outages))

	for _, outage := range outages {
		if strings.Contains(fold.String(outage.Location), needle) ||
			strings.Contains(fold.String(outage.Street), needle) {
			matched = append(matched, outage)
		}
	}

	return matched
}

// Package normalizer turns raw labelled fields scraped from an outage page
// into clean outage records.
package normalizer

import (
	"hepoutage/internal/models"
)

// Entry holds the raw field values collected for one outage on a page.
type Entry struct {
	Location  string
	Street    string
	TimeRange string
	Note      string
}

// Processor handles data processing and transformation.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// Process cleans the entries of one page, keeping page order. Entries that
// fail validation are dropped and counted.
func (p *Processor) Process(dateLabel string, entries []Entry) ([]models.Outage, int) {
	outages := make([]models.Outage, 0, len(entries))
	dropped := 0

	for _, entry := range entries {
		outage := p.transformer.Transform(dateLabel, entry)

		if err := p.validator.Validate(outage); err != nil {
			dropped++

			continue
		}

		outages = append(outages, outage)
	}

	return outages, dropped
}

package normalizer

import (
	"hepoutage/internal/models"
	"hepoutage/pkg/utils"
)

// Transformer handles field cleanup.
type Transformer struct {
	strings *utils.StringHelper
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		strings: utils.NewStringHelper(),
	}
}

// Transform trims every field and collapses internal whitespace.
func (t *Transformer) Transform(dateLabel string, entry Entry) models.Outage {
	return models.Outage{
		DateLabel: t.strings.NormalizeWhitespace(dateLabel),
		Location:  t.strings.NormalizeWhitespace(entry.Location),
		Street:    t.strings.NormalizeWhitespace(entry.Street),
		TimeRange: t.strings.NormalizeWhitespace(entry.TimeRange),
		Note:      t.strings.NormalizeWhitespace(entry.Note),
	}
}

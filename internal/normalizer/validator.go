package normalizer

import (
	"errors"

	"hepoutage/internal/models"
)

// ErrNoPlace marks parser noise: an entry without location and street.
var ErrNoPlace = errors.New("outage has neither location nor street")

// Validator handles data validation.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks that the outage can be reported.
func (v *Validator) Validate(outage models.Outage) error {
	if !outage.HasPlace() {
		return ErrNoPlace
	}

	return nil
}

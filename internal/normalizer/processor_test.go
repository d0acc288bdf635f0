package normalizer

import (
	"errors"
	"testing"

	"hepoutage/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor()

	entries := []Entry{
		{Location: "  Valentići ", Street: "cijela\n naselja", TimeRange: " 09:00  -  11:30 "},
		{Location: "", Street: "  "},
		{Street: "Istarska ulica 12-45", TimeRange: "08:00 - 12:00", Note: " radovi  na mreži "},
	}

	outages, dropped := p.Process(" Ponedjeljak,  20.10.2025. ", entries)

	if dropped != 1 {
		t.Errorf("Expected 1 dropped entry, got %d", dropped)
	}

	if len(outages) != 2 {
		t.Fatalf("Expected 2 outages, got %d", len(outages))
	}

	want := models.Outage{
		DateLabel: "Ponedjeljak, 20.10.2025.",
		Location:  "Valentići",
		Street:    "cijela naselja",
		TimeRange: "09:00 - 11:30",
	}
	if outages[0] != want {
		t.Errorf("Unexpected first outage: %+v", outages[0])
	}

	if outages[1].Location != "" || outages[1].Street != "Istarska ulica 12-45" {
		t.Errorf("Unexpected second outage: %+v", outages[1])
	}

	if outages[1].Note != "radovi na mreži" {
		t.Errorf("Expected collapsed note, got %q", outages[1].Note)
	}
}

func TestProcessor_Process_Empty(t *testing.T) {
	outages, dropped := NewProcessor().Process("", nil)

	if len(outages) != 0 || dropped != 0 {
		t.Errorf("Expected no outages and no drops, got %d / %d", len(outages), dropped)
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(models.Outage{Location: "Pula"}); err != nil {
		t.Errorf("Validate returned unexpected error for location-only outage: %v", err)
	}

	if err := v.Validate(models.Outage{Street: "Centar"}); err != nil {
		t.Errorf("Validate returned unexpected error for street-only outage: %v", err)
	}

	if err := v.Validate(models.Outage{TimeRange: "09:00 - 11:30"}); !errors.Is(err, ErrNoPlace) {
		t.Errorf("Expected ErrNoPlace, got %v", err)
	}
}

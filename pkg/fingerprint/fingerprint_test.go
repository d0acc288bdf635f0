package fingerprint

import (
	"slices"
	"testing"
)

func TestSkeleton(t *testing.T) {
	page := `<html><body><div class="b a"><p>Mjesto: X</p><br/><p>Ulica: Y</p></div></body></html>`

	got := Skeleton(page)
	want := []string{"body", "br", "div.a.b", "html", "p"}

	if !slices.Equal(got, want) {
		t.Errorf("Skeleton() = %v, want %v", got, want)
	}
}

func TestCalculate_IgnoresTextAndCounts(t *testing.T) {
	one := `<div class="list"><p>Mjesto: Valentići</p></div>`
	two := `<div class="list"><p>Mjesto: Pula</p><p>Mjesto: Rovinj</p></div>`

	if Calculate(one) != Calculate(two) {
		t.Error("expected equal fingerprints for pages with the same markup")
	}

	if len(Calculate(one)) != Length {
		t.Errorf("expected fingerprint length %d, got %d", Length, len(Calculate(one)))
	}
}

func TestCalculate_DetectsLayoutChange(t *testing.T) {
	before := `<div class="list"><p>Mjesto: Valentići</p></div>`
	after := `<section class="cards"><span>Mjesto: Valentići</span></section>`

	if Calculate(before) == Calculate(after) {
		t.Error("expected different fingerprints after a layout change")
	}

	if Calculate("plain text") != Empty {
		t.Error("expected text-only page to match the empty fingerprint")
	}
}

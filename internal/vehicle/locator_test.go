package vehicle

import (
	"testing"

	"github.com/joseph-ayodele/lease-extractor/constants"
)

func TestLocateMergesVariantLine(t *testing.T) {
	text := "Ford Focus\nTitanium Ecoboost\nInitial rental £500.00"
	if got := NewLocator().Locate(text); got != "Ford Focus Titanium Ecoboost" {
		t.Fatalf("Locate() = %q", got)
	}
}

func TestLocateSkipsNoiseLines(t *testing.T) {
	text := `
  ABC Vehicle Consultancy Ltd
Tel:
sales@
VAT Reg No
0161 234 5678
Volkswagen Golf
`
	if got := NewLocator().Locate(text); got != "Volkswagen Golf" {
		t.Fatalf("Locate() = %q", got)
	}
}

func TestLocateNoSurvivor(t *testing.T) {
	text := "Company registered in England\n01234 567 890\n@@@\n----"
	if got := NewLocator().Locate(text); got != constants.NotAvailable {
		t.Fatalf("expected sentinel, got %q", got)
	}
}

func TestLocateEmpty(t *testing.T) {
	if got := NewLocator().Locate("  \n\n"); got != constants.NotAvailable {
		t.Fatalf("expected sentinel, got %q", got)
	}
}

func TestLocateDoesNotMergeDigitHeavyNext(t *testing.T) {
	// "2.0 TDI 150" has 5 digits out of 11 characters
	text := "Audi A4 Avant\n2.0 TDI 150\nS line"
	if got := NewLocator().Locate(text); got != "Audi A4 Avant" {
		t.Fatalf("Locate() = %q", got)
	}
}

func TestLocateDoesNotMergeNoiseNext(t *testing.T) {
	text := "BMW 3 Series\nContract hire quotation"
	if got := NewLocator().Locate(text); got != "BMW 3 Series" {
		t.Fatalf("Locate() = %q", got)
	}
}

func TestLocateDigitShareBoundary(t *testing.T) {
	// exactly 40% digits: accepted as candidate, rejected as continuation
	candidate := "ab12c" // 2 of 5
	if got := NewLocator().Locate(candidate); got != candidate {
		t.Fatalf("expected candidate at 40%% accepted, got %q", got)
	}
	if got := NewLocator().Locate("Kia Niro\n" + candidate); got != "Kia Niro" {
		t.Fatalf("expected no merge at 40%%, got %q", got)
	}
}

func TestLocateIdempotent(t *testing.T) {
	inputs := []string{
		"Ford Focus\nTitanium Ecoboost",
		"Tel 0800\nNissan Leaf\nTekna 40kWh\nmore",
		"nothing here 123456789",
	}
	loc := NewLocator()
	for _, in := range inputs {
		first := loc.Locate(in)
		if again := loc.Locate(first); again != first {
			t.Fatalf("not idempotent for %q: %q then %q", in, first, again)
		}
	}
}

func TestExplainReportsRules(t *testing.T) {
	got := NewLocator().Explain("Phone us\n12345678\nx@y\nMazda MX-5\nignored")
	want := []Decision{
		{Line: "Phone us", SkippedBy: "noise-keyword"},
		{Line: "12345678", SkippedBy: "digit-heavy"},
		{Line: "x@y", SkippedBy: "email"},
		{Line: "Mazda MX-5", SkippedBy: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("Explain() returned %d decisions: %+v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decision %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCustomRulesReplaceDefaults(t *testing.T) {
	loc := NewLocator(Rule{Name: "short", Skip: func(l string) bool { return len(l) < 4 }})
	if got := loc.Locate("abc\n12345"); got != "12345" {
		t.Fatalf("Locate() = %q", got)
	}
}

func TestLines(t *testing.T) {
	got := Lines(" a \r\n\n b\t\n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Lines() = %q", got)
	}
}

package types

import "testing"

func TestNormalizeSection(t *testing.T) {
	cases := map[string]string{
		"5":     "5",
		"5a":    "5 a",
		"5 a":   "5 a",
		"5  A":  "5 a",
		" 12 ":  "12",
		"a b c": "a b c",
	}
	for input, expected := range cases {
		if got := NormalizeSection(input); got != expected {
			t.Errorf("NormalizeSection(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestNormalizeProvisionRef(t *testing.T) {
	cases := map[string]string{
		"1:5a":    "1:5 a",
		"1:5 a":   "1:5 a",
		" 2 : 2 ": "2:2",
		"5A":      "5 a",
		"12":      "12",
	}
	for input, expected := range cases {
		if got := NormalizeProvisionRef(input); got != expected {
			t.Errorf("NormalizeProvisionRef(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestProvisionRef(t *testing.T) {
	if got := ProvisionRef(Some("3"), "5 a"); got != "3:5 a" {
		t.Errorf("chaptered: got %q", got)
	}
	if got := ProvisionRef(None[string](), "12"); got != "12" {
		t.Errorf("flat: got %q", got)
	}
}

func TestEUReferenceDerivedIdentifiers(t *testing.T) {
	gdpr := EUReference{Type: EURegulation, ID: "2016/679", Year: 2016, Number: 679}
	if gdpr.LookupKey() != "regulation:2016/679" {
		t.Errorf("LookupKey: got %q", gdpr.LookupKey())
	}
	if gdpr.CELEX() != "32016R0679" {
		t.Errorf("CELEX: got %q", gdpr.CELEX())
	}

	dpd := EUReference{Type: EUDirective, ID: "1995/46", Year: 1995, Number: 46}
	if dpd.CELEX() != "31995L0046" {
		t.Errorf("CELEX: got %q", dpd.CELEX())
	}
}

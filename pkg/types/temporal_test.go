package types

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2018-05-25")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if date != NewDate(2018, 5, 25) {
		t.Errorf("got %v, want 2018-05-25", date)
	}
	if date.String() != "2018-05-25" {
		t.Errorf("String: got %q", date.String())
	}

	if _, err := ParseDate("25/05/2018"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestValidityIntervalContains(t *testing.T) {
	from := NewDate(2018, 5, 25)
	to := NewDate(2021, 1, 1)

	cases := []struct {
		name     string
		interval ValidityInterval
		date     Date
		expected bool
	}{
		{"inside", ValidityInterval{From: Some(from), To: Some(to)}, NewDate(2019, 6, 1), true},
		{"from_is_inclusive", ValidityInterval{From: Some(from), To: Some(to)}, from, true},
		{"to_is_exclusive", ValidityInterval{From: Some(from), To: Some(to)}, to, false},
		{"before_start", ValidityInterval{From: Some(from), To: Some(to)}, NewDate(2017, 1, 1), false},
		{"open_end", ValidityInterval{From: Some(from)}, NewDate(2030, 1, 1), true},
		{"open_start", ValidityInterval{To: Some(to)}, NewDate(1900, 1, 1), true},
		{"unbounded", ValidityInterval{}, NewDate(2000, 1, 1), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.interval.Contains(tc.date); got != tc.expected {
				t.Errorf("Contains(%v) = %v, want %v", tc.date, got, tc.expected)
			}
		})
	}
}

func TestValidityIntervalOverlaps(t *testing.T) {
	first := ValidityInterval{From: Some(NewDate(2018, 5, 25)), To: Some(NewDate(2021, 1, 1))}
	second := ValidityInterval{From: Some(NewDate(2021, 1, 1))}
	if first.Overlaps(second) {
		t.Error("adjacent half-open intervals must not overlap")
	}

	third := ValidityInterval{From: Some(NewDate(2020, 1, 1))}
	if !first.Overlaps(third) {
		t.Error("expected overlap")
	}
	if !second.IsCurrent() || first.IsCurrent() {
		t.Error("IsCurrent mismatch")
	}
}

func TestOptionJSON(t *testing.T) {
	type wrapper struct {
		Chapter Option[string] `json:"chapter"`
	}

	encoded, err := json.Marshal(wrapper{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(encoded) != `{"chapter":null}` {
		t.Errorf("got %s", encoded)
	}

	encoded, _ = json.Marshal(wrapper{Chapter: Some("3")})
	if string(encoded) != `{"chapter":"3"}` {
		t.Errorf("got %s", encoded)
	}

	var decoded wrapper
	if err := json.Unmarshal([]byte(`{"chapter":"7"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Chapter.OrElse("") != "7" {
		t.Errorf("got %v", decoded.Chapter)
	}
	if err := json.Unmarshal([]byte(`{"chapter":null}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Chapter.IsSome() {
		t.Error("expected None after null")
	}
}

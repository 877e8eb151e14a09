// Package types provides the core domain types for Swedish legal documents,
// provisions, their version history and the references between them.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and display format for dates.
const DateLayout = "2006-01-02"

// Date represents a calendar date without time component.
// Implements comparison via time.Time.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// NewDate constructs a Date.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ToTime converts a Date to a time.Time at midnight UTC.
func (d Date) ToTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FromTime creates a Date from a time.Time.
func FromTime(t time.Time) Date {
	return Date{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

// Today returns the current date.
func Today() Date {
	return FromTime(time.Now())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before returns true if d is before other.
func (d Date) Before(other Date) bool {
	return d.ToTime().Before(other.ToTime())
}

// After returns true if d is after other.
func (d Date) After(other Date) bool {
	return d.ToTime().After(other.ToTime())
}

// Equal returns true if d equals other.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// BeforeOrEqual returns true if d is before or equal to other.
func (d Date) BeforeOrEqual(other Date) bool {
	return d.Before(other) || d.Equal(other)
}

// AfterOrEqual returns true if d is after or equal to other.
func (d Date) AfterOrEqual(other Date) bool {
	return d.After(other) || d.Equal(other)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// ValidityInterval is a half-open interval [From, To). A missing From means
// "since the document's inception"; a missing To means "still current".
type ValidityInterval struct {
	From Option[Date] `json:"valid_from"`
	To   Option[Date] `json:"valid_to"`
}

// Contains reports whether date falls inside the interval.
func (v ValidityInterval) Contains(date Date) bool {
	if from, ok := v.From.Get(); ok && date.Before(from) {
		return false
	}
	if to, ok := v.To.Get(); ok && !to.After(date) {
		return false
	}
	return true
}

// IsCurrent reports whether the interval has no end date.
func (v ValidityInterval) IsCurrent() bool {
	return v.To.IsNone()
}

// Overlaps reports whether two half-open intervals share any date.
func (v ValidityInterval) Overlaps(other ValidityInterval) bool {
	if to, ok := v.To.Get(); ok {
		if otherFrom, ok := other.From.Get(); ok && !otherFrom.Before(to) {
			return false
		}
	}
	if otherTo, ok := other.To.Get(); ok {
		if from, ok := v.From.Get(); ok && !from.Before(otherTo) {
			return false
		}
	}
	return true
}

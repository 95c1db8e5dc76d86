// Package worktime turns check-in/check-out wall-clock pairs into worked and
// overtime hours.
package worktime

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStandardHours applies when neither the employee nor the deployment
// configures a standard working day.
const DefaultStandardHours = 8.0

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClock parses HH:MM or HH:MM:SS into an offset from midnight.
func ParseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// HoursBetween returns the hours from start to end on the same nominal day,
// rounded to 2 decimals. An end earlier than start rolls over midnight.
// Returns nil when either time is missing or unparseable.
func HoursBetween(start, end string) *float64 {
	s, ok := ParseClock(start)
	if !ok {
		return nil
	}
	e, ok := ParseClock(end)
	if !ok {
		return nil
	}

	diff := e - s
	if diff < 0 {
		diff += 24 * time.Hour
	}

	hours := Round2(diff.Hours())
	return &hours
}

// OvertimeHours is max(0, round(worked-standard, 2)).
func OvertimeHours(worked, standard float64) float64 {
	if worked <= standard {
		return 0
	}
	ot := Round2(worked - standard)
	if ot < 0 {
		return 0
	}
	return ot
}

// IsOvertime reports whether worked exceeds the standard day.
func IsOvertime(worked, standard float64) bool {
	return worked > standard
}

// StandardHours picks the employee's configured day, then fallback, then 8.
func StandardHours(perDay, fallback float64) float64 {
	if perDay > 0 {
		return perDay
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultStandardHours
}

// Derived holds the fields persisted alongside an attendance row.
type Derived struct {
	WorkHours     *float64
	IsOvertime    bool
	OvertimeHours float64
}

// Computed reports whether work hours could be derived.
func (d Derived) Computed() bool {
	return d.WorkHours != nil
}

// Derive computes the persisted fields for a check-in/check-out pair.
// Both times must be present; otherwise the zero Derived is returned.
func Derive(checkIn, checkOut *string, standard float64) Derived {
	if checkIn == nil || checkOut == nil {
		return Derived{}
	}

	worked := HoursBetween(*checkIn, *checkOut)
	if worked == nil {
		return Derived{}
	}

	return Derived{
		WorkHours:     worked,
		IsOvertime:    IsOvertime(*worked, standard),
		OvertimeHours: OvertimeHours(*worked, standard),
	}
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

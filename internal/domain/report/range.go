package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

// ResolveRange turns a preset and optional explicit dates into a Period.
// When both start and end are given they win over the preset. An empty
// preset means this_month.
func ResolveRange(preset DateRange, start, end string, now time.Time) (Period, error) {
	if start != "" && end != "" {
		s, ok := validator.IsValidDate(start)
		if !ok {
			return Period{}, ErrInvalidDateRange
		}
		e, ok := validator.IsValidDate(end)
		if !ok {
			return Period{}, ErrInvalidDateRange
		}
		s = inLocation(s, now.Location())
		e = inLocation(e, now.Location())
		if e.Before(s) {
			return Period{}, ErrInvalidDateRange
		}
		return Period{Start: s, End: e}, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch preset {
	case RangeToday:
		return Period{Start: today, End: today}, nil
	case RangeYesterday:
		y := today.AddDate(0, 0, -1)
		return Period{Start: y, End: y}, nil
	case RangeThisWeek:
		return Period{Start: mondayOf(today), End: today}, nil
	case RangeLastWeek:
		monday := mondayOf(today).AddDate(0, 0, -7)
		return Period{Start: monday, End: monday.AddDate(0, 0, 6)}, nil
	case RangeThisMonth, "":
		return Period{Start: firstOfMonth(today), End: today}, nil
	case RangeLastMonth:
		first := firstOfMonth(today).AddDate(0, -1, 0)
		return Period{Start: first, End: first.AddDate(0, 1, -1)}, nil
	case RangeThisYear:
		return Period{Start: time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()), End: today}, nil
	case RangeLastYear:
		y := today.Year() - 1
		return Period{
			Start: time.Date(y, 1, 1, 0, 0, 0, 0, today.Location()),
			End:   time.Date(y, 12, 31, 0, 0, 0, 0, today.Location()),
		}, nil
	case RangeCustom:
		return Period{}, ErrMissingCustomDate
	default:
		return Period{}, ErrInvalidDateRange
	}
}

func mondayOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func firstOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}

func inLocation(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

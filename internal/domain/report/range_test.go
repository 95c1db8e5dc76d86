package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestResolveRange_Presets(t *testing.T) {
	// Thursday
	now := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		preset DateRange
		start  string
		end    string
	}{
		{RangeToday, "2024-03-14", "2024-03-14"},
		{RangeYesterday, "2024-03-13", "2024-03-13"},
		{RangeThisWeek, "2024-03-11", "2024-03-14"},
		{RangeLastWeek, "2024-03-04", "2024-03-10"},
		{RangeThisMonth, "2024-03-01", "2024-03-14"},
		{"", "2024-03-01", "2024-03-14"},
		{RangeLastMonth, "2024-02-01", "2024-02-29"},
		{RangeThisYear, "2024-01-01", "2024-03-14"},
		{RangeLastYear, "2023-01-01", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			p, err := ResolveRange(tt.preset, "", "", now)
			require.NoError(t, err)
			assert.Equal(t, day(tt.start), p.Start)
			assert.Equal(t, day(tt.end), p.End)
		})
	}
}

func TestResolveRange_WeekStartsMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)

	p, err := ResolveRange(RangeThisWeek, "", "", sunday)
	require.NoError(t, err)
	assert.Equal(t, day("2024-03-11"), p.Start)
	assert.Equal(t, day("2024-03-17"), p.End)
}

func TestResolveRange_LastMonthAcrossYear(t *testing.T) {
	now := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	p, err := ResolveRange(RangeLastMonth, "", "", now)
	require.NoError(t, err)
	assert.Equal(t, day("2023-12-01"), p.Start)
	assert.Equal(t, day("2023-12-31"), p.End)
}

func TestResolveRange_ExplicitDatesOverridePreset(t *testing.T) {
	now := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	p, err := ResolveRange(RangeToday, "2024-01-10", "2024-02-05", now)
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-10"), p.Start)
	assert.Equal(t, day("2024-02-05"), p.End)

	sm, sy, em, ey := p.Months()
	assert.Equal(t, []int{1, 2024, 2, 2024}, []int{sm, sy, em, ey})
}

func TestResolveRange_Errors(t *testing.T) {
	now := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	_, err := ResolveRange(RangeCustom, "2024-03-10", "2024-03-01", now)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ResolveRange(RangeCustom, "", "", now)
	assert.ErrorIs(t, err, ErrMissingCustomDate)

	_, err = ResolveRange("fortnight", "", "", now)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestReportFilter_Validate(t *testing.T) {
	paid := "paid"
	f := ReportFilter{Type: TypeSalary, Status: &paid}
	require.NoError(t, f.Validate())
	assert.Equal(t, RangeThisMonth, f.DateRange)

	f = ReportFilter{Type: TypeAttendance, Status: &paid}
	assert.Error(t, f.Validate())

	all := "all"
	f = ReportFilter{Type: TypeEmployee, Status: &all}
	require.NoError(t, f.Validate())
	assert.Nil(t, f.Status)

	f = ReportFilter{Type: "payroll"}
	assert.Error(t, f.Validate())

	f = ReportFilter{Type: TypeSummary, DateRange: RangeCustom, StartDate: "2024-01-01"}
	assert.Error(t, f.Validate())
}

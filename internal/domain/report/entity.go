package report

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAttendance Type = "attendance"
	TypeSalary     Type = "salary"
	TypeEmployee   Type = "employee"
	TypeSummary    Type = "summary"
)

func Types() []string {
	return []string{string(TypeAttendance), string(TypeSalary), string(TypeEmployee), string(TypeSummary)}
}

// DateRange names a preset reporting window relative to today.
type DateRange string

const (
	RangeToday     DateRange = "today"
	RangeYesterday DateRange = "yesterday"
	RangeThisWeek  DateRange = "this_week"
	RangeLastWeek  DateRange = "last_week"
	RangeThisMonth DateRange = "this_month"
	RangeLastMonth DateRange = "last_month"
	RangeThisYear  DateRange = "this_year"
	RangeLastYear  DateRange = "last_year"
	RangeCustom    DateRange = "custom"
)

func DateRanges() []string {
	return []string{
		string(RangeToday), string(RangeYesterday), string(RangeThisWeek), string(RangeLastWeek),
		string(RangeThisMonth), string(RangeLastMonth), string(RangeThisYear), string(RangeLastYear),
		string(RangeCustom),
	}
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// Months returns the (month, year) bounds covering the period. Salary
// reports select records by calendar month rather than by day.
func (p Period) Months() (startMonth, startYear, endMonth, endYear int) {
	return int(p.Start.Month()), p.Start.Year(), int(p.End.Month()), p.End.Year()
}

// AttendanceAggregate summarises attendance rows inside a period.
type AttendanceAggregate struct {
	Total         int64
	Present       int64
	Absent        int64
	HalfDay       int64
	Late          int64
	Leave         int64
	WorkHours     float64
	OvertimeHours float64
}

// SalaryAggregate summarises salary records inside a month range.
type SalaryAggregate struct {
	Total           int64
	TotalBasic      decimal.Decimal
	TotalOvertime   decimal.Decimal
	TotalBonus      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalAmount     decimal.Decimal
	Paid            int64
	Pending         int64
	Cancelled       int64
}

// Scope narrows every report query.
type Scope struct {
	Period     Period
	EmployeeID *string
	Status     *string
}

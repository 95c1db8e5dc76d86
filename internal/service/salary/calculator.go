package salary

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// Input is the caller-supplied part of a salary run.
type Input struct {
	Month      int
	Year       int
	Bonus      decimal.Decimal
	Deductions decimal.Decimal
	Note       *string
}

// Calculation is a salary row ready to persist plus how it was reached.
type Calculation struct {
	Salary    salary.Salary
	Breakdown salary.Breakdown
}

// MonthPeriod returns the first and last calendar day of month/year in UTC.
func MonthPeriod(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// WorkingDays counts Monday to Friday days between start and end inclusive.
func WorkingDays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// Calculate derives one month's pay from the employee's rates and the
// attendance rows of that month.
//
// A monthly rate pays flat. Otherwise an hourly rate pays for attended days
// (present, half a day per half-day, and leave) at the employee's working
// hours per day. Overtime is paid only against an hourly rate. The total is
// not floored at zero.
func Calculate(emp employee.Employee, records []attendance.Attendance, in Input, multiplier decimal.Decimal) Calculation {
	start, end := MonthPeriod(in.Month, in.Year)

	s := salary.Salary{
		EmployeeID:    emp.ID,
		Month:         in.Month,
		Year:          in.Year,
		Bonus:         in.Bonus.Round(2),
		Deductions:    in.Deductions.Round(2),
		PaymentStatus: salary.PaymentStatusPending,
		Note:          in.Note,

		EmployeeName:     emp.Name,
		EmployeePosition: emp.Position,
	}

	var workHours, overtimeHours decimal.Decimal
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			s.PresentDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		case attendance.StatusHalfDay:
			s.HalfDays++
		case attendance.StatusLeave:
			s.LeaveDays++
		case attendance.StatusLate:
			s.LateDays++
		}
		if r.WorkHours != nil {
			workHours = workHours.Add(decimal.NewFromFloat(*r.WorkHours))
		}
		overtimeHours = overtimeHours.Add(decimal.NewFromFloat(r.OvertimeHours))
	}
	s.TotalWorkHours = workHours.Round(2).InexactFloat64()
	s.TotalOvertimeHours = overtimeHours.Round(2).InexactFloat64()

	b := salary.Breakdown{
		Basis:              "none",
		PeriodStart:        start.Format("2006-01-02"),
		PeriodEnd:          end.Format("2006-01-02"),
		AttendedDays:       decimal.Zero,
		AttendedHours:      decimal.Zero,
		HourlyRate:         decimal.Zero,
		MonthlyRate:        decimal.Zero,
		OvertimeMultiplier: multiplier,
	}
	if emp.HourlyRate != nil {
		b.HourlyRate = *emp.HourlyRate
	}
	if emp.MonthlyRate != nil {
		b.MonthlyRate = *emp.MonthlyRate
	}

	basic := decimal.Zero
	switch {
	case emp.HasMonthlyRate():
		b.Basis = "monthly"
		basic = *emp.MonthlyRate
	case emp.HasHourlyRate():
		b.Basis = "hourly"
		b.WorkingDays = WorkingDays(start, end)
		b.AttendedDays = decimal.NewFromInt(int64(s.PresentDays)).
			Add(decimal.NewFromInt(int64(s.HalfDays)).Mul(half)).
			Add(decimal.NewFromInt(int64(s.LeaveDays)))
		b.AttendedHours = b.AttendedDays.Mul(decimal.NewFromFloat(emp.WorkHoursPerDay))
		basic = emp.HourlyRate.Mul(b.AttendedHours)
	}

	overtime := decimal.Zero
	if overtimeHours.IsPositive() && emp.HasHourlyRate() {
		overtime = overtimeHours.Mul(*emp.HourlyRate).Mul(multiplier)
	}

	s.BasicSalary = basic.Round(2)
	s.OvertimePay = overtime.Round(2)
	s.TotalSalary = s.BasicSalary.Add(s.OvertimePay).Add(s.Bonus).Sub(s.Deductions)

	return Calculation{Salary: s, Breakdown: b}
}

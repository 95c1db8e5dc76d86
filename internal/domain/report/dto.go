package report

import (
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ReportFilter struct {
	Type       Type      `json:"type"`
	DateRange  DateRange `json:"date_range"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	EmployeeID *string   `json:"employee_id,omitempty"`
	Status     *string   `json:"status,omitempty"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(f.Type), Types()) {
		errs.Add("type", "type must be one of: attendance, salary, employee, summary")
	}
	if f.DateRange == "" {
		f.DateRange = RangeThisMonth
	}
	if !validator.IsInSlice(string(f.DateRange), DateRanges()) {
		errs.Add("date_range", "date_range is not a known preset")
	}
	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if f.DateRange == RangeCustom && (f.StartDate == "" || f.EndDate == "") {
		errs.Add("date_range", ErrMissingCustomDate.Error())
	}
	if f.EmployeeID != nil && validator.IsEmpty(*f.EmployeeID) {
		f.EmployeeID = nil
	}

	if f.Status != nil && (*f.Status == "" || *f.Status == "all") {
		f.Status = nil
	}
	if f.Status != nil {
		var allowed []string
		switch f.Type {
		case TypeAttendance:
			allowed = attendance.Statuses()
		case TypeSalary:
			allowed = salary.PaymentStatuses()
		case TypeEmployee, TypeSummary:
			allowed = employee.Statuses()
		}
		if allowed != nil && !validator.IsInSlice(*f.Status, allowed) {
			errs.Add("status", "status is not valid for this report type")
		}
	}

	return errs.OrNil()
}

// Report is the generated payload. Exactly one of the typed sections is
// populated, matching Type.
type Report struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	GeneratedAt string   `json:"generated_at"`
	Columns     []string `json:"columns,omitempty"`

	Attendance *AttendanceReport `json:"attendance,omitempty"`
	Salary     *SalaryReport     `json:"salary,omitempty"`
	Employee   *EmployeeReport   `json:"employee,omitempty"`
	Summary    *SummaryReport    `json:"summary,omitempty"`
}

type AttendanceReport struct {
	Rows    []attendance.AttendanceResponse `json:"rows"`
	Summary AttendanceSummary               `json:"summary"`
}

type AttendanceSummary struct {
	TotalRecords  int64   `json:"total_records"`
	Present       int64   `json:"present"`
	Absent        int64   `json:"absent"`
	HalfDay       int64   `json:"half_day"`
	Late          int64   `json:"late"`
	Leave         int64   `json:"leave"`
	WorkHours     float64 `json:"total_work_hours"`
	OvertimeHours float64 `json:"total_overtime_hours"`
}

func NewAttendanceSummary(a AttendanceAggregate) AttendanceSummary {
	return AttendanceSummary{
		TotalRecords:  a.Total,
		Present:       a.Present,
		Absent:        a.Absent,
		HalfDay:       a.HalfDay,
		Late:          a.Late,
		Leave:         a.Leave,
		WorkHours:     a.WorkHours,
		OvertimeHours: a.OvertimeHours,
	}
}

type SalaryReport struct {
	Rows    []salary.SalaryResponse `json:"rows"`
	Summary SalarySummary           `json:"summary"`
}

type SalarySummary struct {
	TotalRecords    int64           `json:"total_records"`
	TotalBasic      decimal.Decimal `json:"total_basic"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Paid            int64           `json:"paid"`
	Pending         int64           `json:"pending"`
	Cancelled       int64           `json:"cancelled"`
	CurrencyCode    string          `json:"currency_code"`
}

func NewSalarySummary(a SalaryAggregate, currency string) SalarySummary {
	return SalarySummary{
		TotalRecords:    a.Total,
		TotalBasic:      a.TotalBasic,
		TotalOvertime:   a.TotalOvertime,
		TotalBonus:      a.TotalBonus,
		TotalDeductions: a.TotalDeductions,
		TotalAmount:     a.TotalAmount,
		Paid:            a.Paid,
		Pending:         a.Pending,
		Cancelled:       a.Cancelled,
		CurrencyCode:    currency,
	}
}

type EmployeeReport struct {
	Rows    []employee.EmployeeResponse   `json:"rows"`
	Summary employee.StatusCountsResponse `json:"summary"`
}

type SummaryReport struct {
	Attendance     AttendanceSummary `json:"attendance"`
	Salary         SalarySummary     `json:"salary"`
	TotalEmployees int64             `json:"total_employees"`
}

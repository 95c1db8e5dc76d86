package salary

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== GENERATE ==========

type GenerateSalaryRequest struct {
	EmployeeID string          `json:"employee_id" validate:"required"`
	Month      int             `json:"month" validate:"required,min=1,max=12"`
	Year       int             `json:"year" validate:"required,min=2000,max=2100"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deductions decimal.Decimal `json:"deductions"`
	Note       *string         `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *GenerateSalaryRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Bonus.IsNegative() {
		errs.Add("bonus", "bonus must not be negative")
	}
	if r.Deductions.IsNegative() {
		errs.Add("deductions", "deductions must not be negative")
	}

	return errs.OrNil()
}

// Breakdown explains how the amounts of a generated record were reached.
type Breakdown struct {
	Basis              string          `json:"basis"` // monthly, hourly or none
	PeriodStart        string          `json:"period_start"`
	PeriodEnd          string          `json:"period_end"`
	WorkingDays        int             `json:"working_days"`
	AttendedDays       decimal.Decimal `json:"attended_days"`
	AttendedHours      decimal.Decimal `json:"attended_hours"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	MonthlyRate        decimal.Decimal `json:"monthly_rate"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
}

type GenerateSalaryResponse struct {
	Salary    SalaryResponse `json:"salary"`
	Breakdown Breakdown      `json:"breakdown"`
}

// ========== STATUS ==========

type UpdateSalaryStatusRequest struct {
	ID            string  `json:"-"`
	Status        string  `json:"status" validate:"required,oneof=pending paid cancelled"`
	PaymentDate   *string `json:"payment_date,omitempty" validate:"omitempty,isodate"`
	PaymentMethod *string `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	Note          *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *UpdateSalaryStatusRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Status == string(PaymentStatusPaid) && (r.PaymentDate == nil || validator.IsEmpty(*r.PaymentDate)) {
		errs.Add("payment_date", "payment_date is required for paid status")
	}

	return errs.OrNil()
}

// ========== LIST ==========

type SalaryFilter struct {
	Month  int     `json:"month"` // 0 means the current month
	Year   int     `json:"year"`
	Status *string `json:"status,omitempty"`
	Search *string `json:"search,omitempty"` // employee name or position

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Month < 0 || f.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year != 0 && (f.Year < 2000 || f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if f.Status != nil && *f.Status != "" && *f.Status != "all" {
		if !validator.IsInSlice(*f.Status, PaymentStatuses()) {
			errs.Add("status", "status must be one of: pending, paid, cancelled")
		}
	}

	return errs.OrNil()
}

type SalaryResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name,omitempty"`
	EmployeePosition   string          `json:"employee_position,omitempty"`
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	BasicSalary        decimal.Decimal `json:"basic_salary"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	Bonus              decimal.Decimal `json:"bonus"`
	Deductions         decimal.Decimal `json:"deductions"`
	TotalSalary        decimal.Decimal `json:"total_salary"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentDate        *string         `json:"payment_date"`
	PaymentMethod      *string         `json:"payment_method"`
	Note               *string         `json:"note"`
	PresentDays        int             `json:"present_days"`
	AbsentDays         int             `json:"absent_days"`
	LeaveDays          int             `json:"leave_days"`
	HalfDays           int             `json:"half_days"`
	LateDays           int             `json:"late_days"`
	TotalWorkHours     float64         `json:"total_work_hours"`
	TotalOvertimeHours float64         `json:"total_overtime_hours"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

func NewSalaryResponse(s Salary) SalaryResponse {
	resp := SalaryResponse{
		ID:                 s.ID,
		EmployeeID:         s.EmployeeID,
		EmployeeName:       s.EmployeeName,
		EmployeePosition:   s.EmployeePosition,
		Month:              s.Month,
		Year:               s.Year,
		BasicSalary:        s.BasicSalary,
		OvertimePay:        s.OvertimePay,
		Bonus:              s.Bonus,
		Deductions:         s.Deductions,
		TotalSalary:        s.TotalSalary,
		PaymentStatus:      string(s.PaymentStatus),
		PaymentMethod:      s.PaymentMethod,
		Note:               s.Note,
		PresentDays:        s.PresentDays,
		AbsentDays:         s.AbsentDays,
		LeaveDays:          s.LeaveDays,
		HalfDays:           s.HalfDays,
		LateDays:           s.LateDays,
		TotalWorkHours:     s.TotalWorkHours,
		TotalOvertimeHours: s.TotalOvertimeHours,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
	if s.PaymentDate != nil {
		pd := s.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &pd
	}
	return resp
}

type ListSalaryResponse struct {
	Month      int              `json:"month"`
	Year       int              `json:"year"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Salaries   []SalaryResponse `json:"salaries"`
}

type StatusCountsResponse struct {
	Month     int   `json:"month"`
	Year      int   `json:"year"`
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Paid      int64 `json:"paid"`
	Cancelled int64 `json:"cancelled"`
}

func NewStatusCountsResponse(month, year int, counts map[PaymentStatus]int64) StatusCountsResponse {
	resp := StatusCountsResponse{
		Month:     month,
		Year:      year,
		Pending:   counts[PaymentStatusPending],
		Paid:      counts[PaymentStatusPaid],
		Cancelled: counts[PaymentStatusCancelled],
	}
	resp.Total = resp.Pending + resp.Paid + resp.Cancelled
	return resp
}

type StatsResponse struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	TotalRecords    int64           `json:"total_records"`
	TotalBasic      decimal.Decimal `json:"total_basic"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CurrencyCode    string          `json:"currency_code"`
}

type UnsalariedEmployeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest carries the full employee form.
type CreateEmployeeRequest struct {
	Name            string           `json:"name" validate:"required,max=100"`
	Position        string           `json:"position" validate:"required,max=100"`
	Email           string           `json:"email" validate:"required,email,max=254"`
	Phone           *string          `json:"phone,omitempty"`
	Address         *string          `json:"address,omitempty"`
	HireDate        string           `json:"hire_date" validate:"required,isodate"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`
	MonthlyRate     *decimal.Decimal `json:"monthly_rate,omitempty"`
	WorkHoursPerDay *float64         `json:"work_hours_per_day,omitempty"`
	Status          string           `json:"status" validate:"omitempty,oneof=active inactive on_leave terminated"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Position = strings.TrimSpace(r.Position)
	r.Email = strings.TrimSpace(r.Email)

	errs := validator.Struct(r)

	if r.Phone != nil && !validator.IsEmpty(*r.Phone) && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must contain 7-15 digits")
	}

	hasHourly := r.HourlyRate != nil && !r.HourlyRate.IsZero()
	hasMonthly := r.MonthlyRate != nil && !r.MonthlyRate.IsZero()
	if !hasHourly && !hasMonthly {
		errs.Add("hourly_rate", "either hourly rate or monthly rate is required")
		errs.Add("monthly_rate", "either hourly rate or monthly rate is required")
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "hourly_rate must not be negative")
	}
	if r.MonthlyRate != nil && r.MonthlyRate.IsNegative() {
		errs.Add("monthly_rate", "monthly_rate must not be negative")
	}

	if r.WorkHoursPerDay != nil && (*r.WorkHoursPerDay <= 0 || *r.WorkHoursPerDay > 24) {
		errs.Add("work_hours_per_day", "work_hours_per_day must be greater than 0 and at most 24")
	}

	if r.Status == "" {
		r.Status = string(StatusActive)
	}

	return errs.OrNil()
}

// UpdateEmployeeRequest replaces every editable field of an employee.
type UpdateEmployeeRequest struct {
	ID string `json:"-"`
	CreateEmployeeRequest
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if err := r.CreateEmployeeRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	return errs.OrNil()
}

type EmployeeFilter struct {
	Search *string `json:"search,omitempty"` // name, position, email or phone
	Status *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
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

	if f.Status != nil && *f.Status != "" && *f.Status != "all" {
		if !validator.IsInSlice(*f.Status, Statuses()) {
			errs.Add("status", "status must be one of: active, inactive, on_leave, terminated")
		}
	}

	return errs.OrNil()
}

type EmployeeResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Position        string           `json:"position"`
	Email           string           `json:"email"`
	Phone           *string          `json:"phone"`
	Address         *string          `json:"address"`
	HireDate        string           `json:"hire_date"`
	HourlyRate      *decimal.Decimal `json:"hourly_rate"`
	MonthlyRate     *decimal.Decimal `json:"monthly_rate"`
	WorkHoursPerDay float64          `json:"work_hours_per_day"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		Position:        e.Position,
		Email:           e.Email,
		Phone:           e.Phone,
		Address:         e.Address,
		HireDate:        e.HireDate.Format("2006-01-02"),
		HourlyRate:      e.HourlyRate,
		MonthlyRate:     e.MonthlyRate,
		WorkHoursPerDay: e.WorkHoursPerDay,
		Status:          string(e.Status),
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       e.UpdatedAt.Format(time.RFC3339),
	}
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

type StatusCountsResponse struct {
	Total      int64 `json:"total"`
	Active     int64 `json:"active"`
	Inactive   int64 `json:"inactive"`
	OnLeave    int64 `json:"on_leave"`
	Terminated int64 `json:"terminated"`
}

// NewStatusCountsResponse folds per-status counts into the response shape.
func NewStatusCountsResponse(counts map[Status]int64) StatusCountsResponse {
	resp := StatusCountsResponse{
		Active:     counts[StatusActive],
		Inactive:   counts[StatusInactive],
		OnLeave:    counts[StatusOnLeave],
		Terminated: counts[StatusTerminated],
	}
	resp.Total = resp.Active + resp.Inactive + resp.OnLeave + resp.Terminated
	return resp
}

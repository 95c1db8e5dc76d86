package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

// MarkAttendanceRequest creates or replaces the record for (employee, date).
type MarkAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	Date         string  `json:"date" validate:"omitempty,isodate"` // defaults to today
	Status       string  `json:"status" validate:"required,oneof=present absent half-day late leave"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Note         *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *MarkAttendanceRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

// BulkAttendanceRequest marks many employees with one status for one date.
// The whole batch succeeds or nothing is written.
type BulkAttendanceRequest struct {
	Date        string   `json:"date" validate:"omitempty,isodate"`
	Status      string   `json:"status" validate:"required,oneof=present absent half-day late leave"`
	EmployeeIDs []string `json:"employee_ids" validate:"required,min=1,dive,required"`
	Note        *string  `json:"note,omitempty" validate:"omitempty,max=1000"`
}

func (r *BulkAttendanceRequest) Validate() error {
	errs := validator.Struct(r)

	seen := make(map[string]struct{}, len(r.EmployeeIDs))
	for _, id := range r.EmployeeIDs {
		if _, dup := seen[id]; dup {
			errs.Add("employee_ids", "employee_ids must not contain duplicates")
			break
		}
		seen[id] = struct{}{}
	}

	return errs.OrNil()
}

type AttendanceFilter struct {
	Date   string  `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Status *string `json:"status,omitempty"`
	Search *string `json:"search,omitempty"` // employee name or position

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
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
			errs.Add("status", "status must be one of: present, absent, half-day, late, leave")
		}
	}

	if f.Date != "" {
		if _, valid := validator.IsValidDate(f.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	return errs.OrNil()
}

type AttendanceResponse struct {
	ID               string   `json:"id"`
	EmployeeID       string   `json:"employee_id"`
	EmployeeName     string   `json:"employee_name,omitempty"`
	EmployeePosition string   `json:"employee_position,omitempty"`
	Date             string   `json:"date"`
	Status           string   `json:"status"`
	CheckInTime      *string  `json:"check_in_time"`
	CheckOutTime     *string  `json:"check_out_time"`
	WorkHours        *float64 `json:"work_hours"`
	IsOvertime       bool     `json:"is_overtime"`
	OvertimeHours    float64  `json:"overtime_hours"`
	Note             *string  `json:"note"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		EmployeePosition: a.EmployeePosition,
		Date:             a.Date.Format("2006-01-02"),
		Status:           string(a.Status),
		CheckInTime:      a.CheckInTime,
		CheckOutTime:     a.CheckOutTime,
		WorkHours:        a.WorkHours,
		IsOvertime:       a.IsOvertime,
		OvertimeHours:    a.OvertimeHours,
		Note:             a.Note,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
	}
}

type MarkAttendanceResponse struct {
	Created    bool               `json:"created"`
	Attendance AttendanceResponse `json:"attendance"`
}

type BulkAttendanceResponse struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type ListAttendanceResponse struct {
	Date        string               `json:"date"`
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type StatusCountsResponse struct {
	Date    string `json:"date"`
	Total   int64  `json:"total"`
	Present int64  `json:"present"`
	Absent  int64  `json:"absent"`
	HalfDay int64  `json:"half_day"`
	Late    int64  `json:"late"`
	Leave   int64  `json:"leave"`
}

func NewStatusCountsResponse(date string, counts map[Status]int64) StatusCountsResponse {
	resp := StatusCountsResponse{
		Date:    date,
		Present: counts[StatusPresent],
		Absent:  counts[StatusAbsent],
		HalfDay: counts[StatusHalfDay],
		Late:    counts[StatusLate],
		Leave:   counts[StatusLeave],
	}
	resp.Total = resp.Present + resp.Absent + resp.HalfDay + resp.Late + resp.Leave
	return resp
}

type UnmarkedEmployeeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

package activity

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

type ActivityFilter struct {
	UserID     *string `json:"user_id,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Action     *string `json:"action,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ActivityFilter) Validate() error {
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

	return errs.OrNil()
}

type ActivityResponse struct {
	ID           string  `json:"id"`
	UserID       *string `json:"user_id"`
	Username     *string `json:"username"`
	EmployeeID   *string `json:"employee_id"`
	EmployeeName *string `json:"employee_name"`
	Action       string  `json:"action"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
}

func NewActivityResponse(a Activity) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Username:     a.Username,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Action:       string(a.Action),
		Description:  a.Description,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}

type ListActivityResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Activities []ActivityResponse `json:"activities"`
}

// FeedEvent is one live update pushed to activity stream subscribers.
type FeedEvent struct {
	Event string           `json:"event"`
	Data  ActivityResponse `json:"data"`
}

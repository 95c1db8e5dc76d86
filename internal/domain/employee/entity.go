package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              string
	Name            string
	Position        string
	Email           string
	Phone           *string
	Address         *string
	HireDate        time.Time
	HourlyRate      *decimal.Decimal
	MonthlyRate     *decimal.Decimal
	WorkHoursPerDay float64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
)

func Statuses() []string {
	return []string{string(StatusActive), string(StatusInactive), string(StatusOnLeave), string(StatusTerminated)}
}

// HasHourlyRate reports a positive hourly rate.
func (e *Employee) HasHourlyRate() bool {
	return e.HourlyRate != nil && e.HourlyRate.IsPositive()
}

// HasMonthlyRate reports a positive monthly rate. A monthly rate takes
// precedence over the hourly rate for basic pay.
func (e *Employee) HasMonthlyRate() bool {
	return e.MonthlyRate != nil && e.MonthlyRate.IsPositive()
}

package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func PaymentStatuses() []string {
	return []string{string(PaymentStatusPending), string(PaymentStatusPaid), string(PaymentStatusCancelled)}
}

// Terminal reports whether s ends the payment lifecycle in strict mode.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusCancelled
}

// CanTransition reports whether a record may move from one status to
// another. Outside strict mode any move is allowed. In strict mode paid and
// cancelled are terminal.
func CanTransition(from, to PaymentStatus, strict bool) bool {
	if !strict || from == to {
		return true
	}
	return !from.Terminal()
}

// Salary is one generated pay record for an employee and calendar month.
// At most one exists per (employee, month, year) and amounts are never
// recomputed after generation.
type Salary struct {
	ID                 string
	EmployeeID         string
	Month              int
	Year               int
	BasicSalary        decimal.Decimal
	OvertimePay        decimal.Decimal
	Bonus              decimal.Decimal
	Deductions         decimal.Decimal
	TotalSalary        decimal.Decimal
	PaymentStatus      PaymentStatus
	PaymentDate        *time.Time
	PaymentMethod      *string
	Note               *string
	PresentDays        int
	AbsentDays         int
	LeaveDays          int
	HalfDays           int
	LateDays           int
	TotalWorkHours     float64
	TotalOvertimeHours float64
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined from employees
	EmployeeName     string
	EmployeePosition string
}

// Stats aggregates the money columns of one month.
type Stats struct {
	TotalRecords    int64
	TotalBasic      decimal.Decimal
	TotalOvertime   decimal.Decimal
	TotalBonus      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalAmount     decimal.Decimal
}

// UnsalariedEmployee is an active employee without a record for a month.
type UnsalariedEmployee struct {
	ID       string
	Name     string
	Position string
}

package salary

import (
	"context"
	"time"
)

type SalaryRepository interface {
	// Create returns ErrDuplicatePeriod when the period is already taken.
	Create(ctx context.Context, s Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error)
	// UpdateStatus overwrites status, payment date and method. note is
	// applied only when non-empty.
	UpdateStatus(ctx context.Context, id string, status PaymentStatus, paymentDate *time.Time, paymentMethod *string, note *string) (Salary, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, month, year int, filter SalaryFilter) ([]Salary, int64, error)
	CountByStatus(ctx context.Context, month, year int) (map[PaymentStatus]int64, error)
	Stats(ctx context.Context, month, year int) (Stats, error)
	ListUnsalaried(ctx context.Context, month, year int) ([]UnsalariedEmployee, error)
}

package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Attendance, error)
	// Upsert writes every column of a on (employee_id, date) and reports
	// whether a new row was inserted.
	Upsert(ctx context.Context, a Attendance) (Attendance, bool, error)
	// UpsertStatus touches only status and note on (employee_id, date).
	UpsertStatus(ctx context.Context, id string, employeeID string, date time.Time, status Status, note *string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, date time.Time, filter AttendanceFilter) ([]Attendance, int64, error)
	CountByStatus(ctx context.Context, date time.Time) (map[Status]int64, error)
	ListUnmarked(ctx context.Context, date time.Time) ([]UnmarkedEmployee, error)
	// ListByEmployeeAndPeriod returns rows with start <= date <= end.
	ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	Recent(ctx context.Context, limit int) ([]Attendance, error)
}

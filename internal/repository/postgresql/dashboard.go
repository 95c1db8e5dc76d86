package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetAttendanceStats returns per-status counts for a day range in single query
func (r *dashboardRepositoryImpl) GetAttendanceStats(ctx context.Context, start, end time.Time) (*dashboard.AttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) as present_count,
			COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) as absent_count,
			COALESCE(SUM(CASE WHEN status = 'half-day' THEN 1 ELSE 0 END), 0) as half_day_count,
			COALESCE(SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END), 0) as late_count,
			COALESCE(SUM(CASE WHEN status = 'leave' THEN 1 ELSE 0 END), 0) as leave_count
		FROM attendance
		WHERE date BETWEEN $1 AND $2
	`

	var stats dashboard.AttendanceStats
	err := q.QueryRow(ctx, query, start, end).Scan(
		&stats.Total, &stats.Present, &stats.Absent, &stats.HalfDay, &stats.Late, &stats.Leave,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance stats: %w", err)
	}
	return &stats, nil
}

// CountActiveEmployees returns the number of active employees
func (r *dashboardRepositoryImpl) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE status = 'active'`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return total, nil
}

package dashboard

import (
	"context"
	"time"
)

// AttendanceStats counts attendance rows per status in a day range.
type AttendanceStats struct {
	Total   int64
	Present int64
	Absent  int64
	HalfDay int64
	Late    int64
	Leave   int64
}

// DashboardRepository defines the aggregate queries behind the dashboard
type DashboardRepository interface {
	// GetAttendanceStats counts rows with start <= date <= end in a single query
	GetAttendanceStats(ctx context.Context, start, end time.Time) (*AttendanceStats, error)

	// CountActiveEmployees counts employees with status 'active'
	CountActiveEmployees(ctx context.Context) (int64, error)
}

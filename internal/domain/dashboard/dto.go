package dashboard

import (
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
)

// RecentLimit is how many attendance rows and activities the dashboard shows.
const RecentLimit = 10

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	Date             string                          `json:"date"` // Format: "YYYY-MM-DD"
	TodayStats       AttendanceStatsResponse         `json:"today_stats"`
	ActiveEmployees  int64                           `json:"active_employees"`
	MonthStats       MonthStatsResponse              `json:"month_stats"`
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"`
	RecentActivities []activity.ActivityResponse     `json:"recent_activities"`
	UpdatedAt        string                          `json:"updated_at"`
}

// ========== ATTENDANCE STATS ==========

type AttendanceStatsResponse struct {
	Total   int64 `json:"total"`
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	HalfDay int64 `json:"half_day"`
	Late    int64 `json:"late"`
	Leave   int64 `json:"leave"`
	// Share of active employees already marked, 0-100
	MarkedPercent float64 `json:"marked_percent,omitempty"`
}

func NewAttendanceStatsResponse(s *AttendanceStats) AttendanceStatsResponse {
	if s == nil {
		return AttendanceStatsResponse{}
	}
	return AttendanceStatsResponse{
		Total:   s.Total,
		Present: s.Present,
		Absent:  s.Absent,
		HalfDay: s.HalfDay,
		Late:    s.Late,
		Leave:   s.Leave,
	}
}

// ========== MONTH TO DATE ==========

type MonthStatsResponse struct {
	Month     string `json:"month"` // Format: "YYYY-MM"
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	AttendanceStatsResponse
}

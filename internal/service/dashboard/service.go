package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/worktime"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	attendanceRepo attendance.AttendanceRepository
	activities     activity.ActivityService
	cache          cache.Cache
	clock          clock.Clock
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	attendanceRepo attendance.AttendanceRepository,
	activities activity.ActivityService,
	c cache.Cache,
	clk clock.Clock,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		attendanceRepo:      attendanceRepo,
		activities:          activities,
		cache:               c,
		clock:               clk,
	}
}

// GetDashboard returns combined dashboard data, loading its parts in parallel.
// The result is cached until any write touches the dashboard tag.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	local := clock.Today(s.clock)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	day := today.Format("2006-01-02")

	return cache.Remember(ctx, s.cache, cache.Key("dashboard", day), []cache.Tag{cache.TagDashboard},
		func(ctx context.Context) (*dashboard.DashboardResponse, error) {
			return s.load(ctx, today)
		})
}

func (s *DashboardServiceImpl) load(ctx context.Context, today time.Time) (*dashboard.DashboardResponse, error) {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		todayStats       *dashboard.AttendanceStats
		monthStats       *dashboard.AttendanceStats
		activeEmployees  int64
		recentAttendance []attendance.AttendanceResponse
		recentActivities []activity.ActivityResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.GetAttendanceStats(gCtx, today, today)
		if err != nil {
			return err
		}
		todayStats = stats
		return nil
	})

	g.Go(func() error {
		stats, err := s.GetAttendanceStats(gCtx, monthStart, today)
		if err != nil {
			return err
		}
		monthStats = stats
		return nil
	})

	g.Go(func() error {
		count, err := s.CountActiveEmployees(gCtx)
		if err != nil {
			return err
		}
		activeEmployees = count
		return nil
	})

	g.Go(func() error {
		rows, err := s.attendanceRepo.Recent(gCtx, dashboard.RecentLimit)
		if err != nil {
			return err
		}
		recentAttendance = make([]attendance.AttendanceResponse, 0, len(rows))
		for _, a := range rows {
			recentAttendance = append(recentAttendance, attendance.NewAttendanceResponse(a))
		}
		return nil
	})

	g.Go(func() error {
		entries, err := s.activities.Recent(gCtx, dashboard.RecentLimit)
		if err != nil {
			return err
		}
		recentActivities = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	todayResp := dashboard.NewAttendanceStatsResponse(todayStats)
	if activeEmployees > 0 {
		todayResp.MarkedPercent = worktime.Round2(float64(todayResp.Total) / float64(activeEmployees) * 100)
	}

	return &dashboard.DashboardResponse{
		Date:            today.Format("2006-01-02"),
		TodayStats:      todayResp,
		ActiveEmployees: activeEmployees,
		MonthStats: dashboard.MonthStatsResponse{
			Month:                   today.Format("2006-01"),
			StartDate:               monthStart.Format("2006-01-02"),
			EndDate:                 today.Format("2006-01-02"),
			AttendanceStatsResponse: dashboard.NewAttendanceStatsResponse(monthStats),
		},
		RecentAttendance: recentAttendance,
		RecentActivities: recentActivities,
		UpdatedAt:        s.clock.Now().Format(time.RFC3339),
	}, nil
}

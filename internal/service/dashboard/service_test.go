package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsCall struct {
	start, end time.Time
}

type fakeDashboardRepo struct {
	mu     sync.Mutex
	calls  []statsCall
	loads  int
	active int64
	err    error
}

func (r *fakeDashboardRepo) GetAttendanceStats(ctx context.Context, start, end time.Time) (*dashboard.AttendanceStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, statsCall{start: start, end: end})
	if r.err != nil {
		return nil, r.err
	}
	if start.Equal(end) {
		return &dashboard.AttendanceStats{Total: 3, Present: 2, Late: 1}, nil
	}
	return &dashboard.AttendanceStats{Total: 40, Present: 30, Absent: 5, Leave: 5}, nil
}

func (r *fakeDashboardRepo) CountActiveEmployees(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return r.active, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
}

func (fakeAttendanceRepo) Recent(ctx context.Context, limit int) ([]attendance.Attendance, error) {
	return []attendance.Attendance{{ID: "a1", EmployeeName: "Alice", Status: attendance.StatusPresent, Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)}}, nil
}

type fakeActivities struct {
	activity.ActivityService
	limit int
}

func (f *fakeActivities) Recent(ctx context.Context, limit int) ([]activity.ActivityResponse, error) {
	f.limit = limit
	return []activity.ActivityResponse{{ID: "x1", Action: "login", Description: "User logged in"}}, nil
}

func newService(repo *fakeDashboardRepo, acts *fakeActivities) (*DashboardServiceImpl, *cache.MemoryCache) {
	c := cache.NewMemoryCache(time.Minute)
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 3, 14, 23, 30, 0, 0, ist)
	svc := NewDashboardService(repo, fakeAttendanceRepo{}, acts, c, clock.Fixed(now)).(*DashboardServiceImpl)
	return svc, c
}

func TestGetDashboard(t *testing.T) {
	repo := &fakeDashboardRepo{active: 4}
	acts := &fakeActivities{}
	svc, _ := newService(repo, acts)

	resp, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-03-14", resp.Date)
	assert.Equal(t, int64(3), resp.TodayStats.Total)
	assert.Equal(t, 75.0, resp.TodayStats.MarkedPercent)
	assert.Equal(t, int64(4), resp.ActiveEmployees)

	assert.Equal(t, "2024-03", resp.MonthStats.Month)
	assert.Equal(t, "2024-03-01", resp.MonthStats.StartDate)
	assert.Equal(t, "2024-03-14", resp.MonthStats.EndDate)
	assert.Equal(t, int64(40), resp.MonthStats.Total)
	assert.Zero(t, resp.MonthStats.MarkedPercent)

	require.Len(t, resp.RecentAttendance, 1)
	assert.Equal(t, "Alice", resp.RecentAttendance[0].EmployeeName)
	require.Len(t, resp.RecentActivities, 1)
	assert.Equal(t, dashboard.RecentLimit, acts.limit)

	assert.Len(t, repo.calls, 2)
}

func TestGetDashboard_CachedUntilInvalidated(t *testing.T) {
	repo := &fakeDashboardRepo{active: 4}
	svc, c := newService(repo, &fakeActivities{})
	ctx := context.Background()

	_, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	_, err = svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)

	require.NoError(t, c.Invalidate(ctx, cache.TagDashboard))
	_, err = svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}

func TestGetDashboard_ErrorNotCached(t *testing.T) {
	boom := errors.New("db down")
	repo := &fakeDashboardRepo{err: boom}
	svc, c := newService(repo, &fakeActivities{})

	_, err := svc.GetDashboard(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

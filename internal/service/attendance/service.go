package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/worktime"
)

const dateLayout = "2006-01-02"

type AttendanceServiceImpl struct {
	tx              database.Transactor
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	cache           cache.Cache
	activity        activity.Recorder
	clock           clock.Clock
	defaultHours    float64
	defaultPageSize int
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	c cache.Cache,
	recorder activity.Recorder,
	clk clock.Clock,
	defaultHours float64,
	defaultPageSize int,
) attendance.AttendanceService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &AttendanceServiceImpl{
		tx:              tx,
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		cache:           c,
		activity:        recorder,
		clock:           clk,
		defaultHours:    defaultHours,
		defaultPageSize: defaultPageSize,
	}
}

// MarkAttendance creates or replaces the record for (employee, date). Work and
// overtime hours are derived here and stored with the row.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	checkIn := wallClock(ctx, emp.ID, "check_in_time", req.CheckInTime)
	checkOut := wallClock(ctx, emp.ID, "check_out_time", req.CheckOutTime)
	derived := worktime.Derive(checkIn, checkOut, worktime.StandardHours(emp.WorkHoursPerDay, s.defaultHours))

	record := attendance.Attendance{
		EmployeeID:    emp.ID,
		Date:          date,
		Status:        attendance.Status(req.Status),
		CheckInTime:   checkIn,
		CheckOutTime:  checkOut,
		WorkHours:     derived.WorkHours,
		IsOvertime:    derived.IsOvertime,
		OvertimeHours: derived.OvertimeHours,
		Note:          emptyToNil(req.Note),
	}

	saved, created, err := s.attendanceRepo.Upsert(ctx, record)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	day := date.Format(dateLayout)
	s.invalidate(ctx, day)

	action, verb := activity.ActionUpdate, "Updated"
	if created {
		action, verb = activity.ActionCreate, "Marked"
	}
	s.activity.Record(ctx, action, fmt.Sprintf("%s attendance for %s on %s", verb, emp.Name, day), auth.ActorID(ctx), &emp.ID)

	return attendance.MarkAttendanceResponse{
		Created:    created,
		Attendance: attendance.NewAttendanceResponse(saved),
	}, nil
}

// BulkMarkAttendance writes one status for every listed employee. Any failure
// rolls the whole batch back.
func (s *AttendanceServiceImpl) BulkMarkAttendance(ctx context.Context, req attendance.BulkAttendanceRequest) (attendance.BulkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkAttendanceResponse{}, err
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return attendance.BulkAttendanceResponse{}, err
	}

	status := attendance.Status(req.Status)
	note := emptyToNil(req.Note)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, employeeID := range req.EmployeeIDs {
			if err := s.attendanceRepo.UpsertStatus(ctx, "", employeeID, date, status, note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.BulkAttendanceResponse{}, err
	}

	day := date.Format(dateLayout)
	s.invalidate(ctx, day)
	s.activity.Record(ctx, activity.ActionBulkCreate,
		fmt.Sprintf("Marked bulk attendance for %d employees on %s", len(req.EmployeeIDs), day), auth.ActorID(ctx), nil)

	return attendance.BulkAttendanceResponse{
		Date:   day,
		Status: req.Status,
		Count:  len(req.EmployeeIDs),
	}, nil
}

func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	a, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(a), nil
}

func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	existing, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}

	day := existing.Date.Format(dateLayout)
	s.invalidate(ctx, day)
	s.activity.Record(ctx, activity.ActionDelete,
		fmt.Sprintf("Deleted attendance for %s on %s", existing.EmployeeName, day), auth.ActorID(ctx), &existing.EmployeeID)

	return nil
}

func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Limit == 0 {
		filter.Limit = s.defaultPageSize
	}
	if filter.Status != nil && (*filter.Status == "" || *filter.Status == "all") {
		filter.Status = nil
	}
	if filter.Search != nil && *filter.Search == "" {
		filter.Search = nil
	}

	date, err := s.resolveDate(filter.Date)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	day := date.Format(dateLayout)

	key := cache.Key(cache.AttendanceDateKey(day), "list", deref(filter.Status), deref(filter.Search),
		strconv.Itoa(filter.Page), strconv.Itoa(filter.Limit))

	return cache.Remember(ctx, s.cache, key, []cache.Tag{cache.TagAttendance, cache.TagAttendanceDate(day)},
		func(ctx context.Context) (attendance.ListAttendanceResponse, error) {
			rows, total, err := s.attendanceRepo.List(ctx, date, filter)
			if err != nil {
				return attendance.ListAttendanceResponse{}, err
			}

			responses := make([]attendance.AttendanceResponse, 0, len(rows))
			for _, a := range rows {
				responses = append(responses, attendance.NewAttendanceResponse(a))
			}

			return attendance.ListAttendanceResponse{
				Date:        day,
				TotalCount:  total,
				Page:        filter.Page,
				Limit:       filter.Limit,
				TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
				Attendances: responses,
			}, nil
		})
}

func (s *AttendanceServiceImpl) StatusCounts(ctx context.Context, dateStr string) (attendance.StatusCountsResponse, error) {
	date, err := s.resolveDate(dateStr)
	if err != nil {
		return attendance.StatusCountsResponse{}, err
	}
	day := date.Format(dateLayout)

	return cache.Remember(ctx, s.cache, cache.Key(cache.AttendanceDateKey(day), "counts"),
		[]cache.Tag{cache.TagAttendance, cache.TagAttendanceDate(day)},
		func(ctx context.Context) (attendance.StatusCountsResponse, error) {
			counts, err := s.attendanceRepo.CountByStatus(ctx, date)
			if err != nil {
				return attendance.StatusCountsResponse{}, err
			}
			return attendance.NewStatusCountsResponse(day, counts), nil
		})
}

func (s *AttendanceServiceImpl) ListUnmarkedEmployees(ctx context.Context, dateStr string) ([]attendance.UnmarkedEmployeeResponse, error) {
	date, err := s.resolveDate(dateStr)
	if err != nil {
		return nil, err
	}

	unmarked, err := s.attendanceRepo.ListUnmarked(ctx, date)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.UnmarkedEmployeeResponse, 0, len(unmarked))
	for _, e := range unmarked {
		responses = append(responses, attendance.UnmarkedEmployeeResponse{ID: e.ID, Name: e.Name, Position: e.Position})
	}
	return responses, nil
}

// resolveDate parses YYYY-MM-DD, defaulting to today on the service clock.
func (s *AttendanceServiceImpl) resolveDate(value string) (time.Time, error) {
	if value == "" {
		today := clock.Today(s.clock)
		return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, ok := validator.IsValidDate(value)
	if !ok {
		return time.Time{}, attendance.ErrInvalidDate
	}
	return date, nil
}

func (s *AttendanceServiceImpl) invalidate(ctx context.Context, day string) {
	cache.InvalidateQuietly(ctx, s.cache, cache.TagAttendance, cache.TagAttendanceDate(day), cache.TagDashboard)
}

// wallClock keeps a usable check-in/out time. An unparseable value is logged
// and dropped so the row is still saved with its hours left uncomputed.
func wallClock(ctx context.Context, employeeID, field string, v *string) *string {
	v = emptyToNil(v)
	if v == nil {
		return nil
	}
	if _, ok := worktime.ParseClock(*v); !ok {
		slog.WarnContext(ctx, "Ignoring unparseable time, work hours not computed",
			"employee_id", employeeID, "field", field, "value", *v)
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	rows      map[string]attendance.Attendance // keyed by employee_id|date
	seq       int
	failOn    string
}

func newStore(emps ...employee.Employee) *store {
	s := &store{employees: make(map[string]employee.Employee), rows: make(map[string]attendance.Attendance)}
	for _, e := range emps {
		s.employees[e.ID] = e
	}
	return s
}

func rowKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

// fakeTransactor restores the row set when fn fails.
type fakeTransactor struct {
	s *store
}

func (f fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.s.mu.Lock()
	snapshot := make(map[string]attendance.Attendance, len(f.s.rows))
	for k, v := range f.s.rows {
		snapshot[k] = v
	}
	f.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.s.mu.Lock()
		f.s.rows = snapshot
		f.s.mu.Unlock()
		return err
	}
	return nil
}

type fakeAttendanceRepo struct{ s *store }

func (r fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.rows {
		if a.ID == id {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r fakeAttendanceRepo) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[a.EmployeeID]
	if !ok {
		return attendance.Attendance{}, false, employee.ErrEmployeeNotFound
	}
	key := rowKey(a.EmployeeID, a.Date)
	existing, found := r.s.rows[key]
	if found {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	} else {
		r.s.seq++
		a.ID = fmt.Sprintf("att-%d", r.s.seq)
	}
	a.EmployeeName = emp.Name
	a.EmployeePosition = emp.Position
	r.s.rows[key] = a
	return a, !found, nil
}

func (r fakeAttendanceRepo) UpsertStatus(ctx context.Context, id string, employeeID string, date time.Time, status attendance.Status, note *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[employeeID]
	if !ok || employeeID == r.s.failOn {
		return employee.ErrEmployeeNotFound
	}
	key := rowKey(employeeID, date)
	a, found := r.s.rows[key]
	if !found {
		r.s.seq++
		a = attendance.Attendance{ID: fmt.Sprintf("att-%d", r.s.seq), EmployeeID: employeeID, Date: date, EmployeeName: emp.Name}
	}
	a.Status = status
	a.Note = note
	r.s.rows[key] = a
	return nil
}

func (r fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, a := range r.s.rows {
		if a.ID == id {
			delete(r.s.rows, k)
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (r fakeAttendanceRepo) onDate(date time.Time) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range r.s.rows {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out
}

func (r fakeAttendanceRepo) List(ctx context.Context, date time.Time, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.onDate(date) {
		if filter.Status != nil && string(a.Status) != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r fakeAttendanceRepo) CountByStatus(ctx context.Context, date time.Time) (map[attendance.Status]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[attendance.Status]int64)
	for _, a := range r.onDate(date) {
		counts[a.Status]++
	}
	return counts, nil
}

func (r fakeAttendanceRepo) ListUnmarked(ctx context.Context, date time.Time) ([]attendance.UnmarkedEmployee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []attendance.UnmarkedEmployee
	for _, e := range r.s.employees {
		if _, ok := r.s.rows[rowKey(e.ID, date)]; !ok && e.Status == employee.StatusActive {
			out = append(out, attendance.UnmarkedEmployee{ID: e.ID, Name: e.Name, Position: e.Position})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (r fakeAttendanceRepo) Recent(ctx context.Context, limit int) ([]attendance.Attendance, error) {
	return nil, nil
}

// fakeEmployeeRepo only serves lookups; the attendance service never writes employees.
type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	s *store
}

func (r fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeRecorder struct {
	descriptions []string
	actions      []activity.Action
}

func (f *fakeRecorder) Record(ctx context.Context, action activity.Action, description string, userID, employeeID *string) {
	f.actions = append(f.actions, action)
	f.descriptions = append(f.descriptions, description)
}

var today = time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)

func newFixture(emps ...employee.Employee) (*AttendanceServiceImpl, *store, *fakeRecorder) {
	s := newStore(emps...)
	rec := &fakeRecorder{}
	svc := NewAttendanceService(
		fakeTransactor{s: s},
		fakeAttendanceRepo{s: s},
		fakeEmployeeRepo{s: s},
		cache.NewMemoryCache(time.Minute),
		rec,
		clock.Fixed(today),
		8,
		10,
	).(*AttendanceServiceImpl)
	return svc, s, rec
}

func staff(n int) []employee.Employee {
	out := make([]employee.Employee, n)
	for i := range out {
		out[i] = employee.Employee{
			ID:       fmt.Sprintf("e%d", i+1),
			Name:     fmt.Sprintf("Employee %d", i+1),
			Position: "Clerk",
			Status:   employee.StatusActive,
		}
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestMarkAttendance_DerivesHours(t *testing.T) {
	emp := employee.Employee{ID: "e1", Name: "Alice", Status: employee.StatusActive, WorkHoursPerDay: 8}
	svc, _, rec := newFixture(emp)

	resp, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID:   "e1",
		Date:         "2024-03-11",
		Status:       "present",
		CheckInTime:  strPtr("09:00"),
		CheckOutTime: strPtr("19:30"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Created)
	require.NotNil(t, resp.Attendance.WorkHours)
	assert.Equal(t, 10.5, *resp.Attendance.WorkHours)
	assert.True(t, resp.Attendance.IsOvertime)
	assert.Equal(t, 2.5, resp.Attendance.OvertimeHours)
	assert.Equal(t, []string{"Marked attendance for Alice on 2024-03-11"}, rec.descriptions)
}

func TestMarkAttendance_OvernightShiftUsesEmployeeHours(t *testing.T) {
	emp := employee.Employee{ID: "e1", Name: "Night", Status: employee.StatusActive, WorkHoursPerDay: 6}
	svc, _, _ := newFixture(emp)

	resp, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID:   "e1",
		Status:       "present",
		CheckInTime:  strPtr("22:00"),
		CheckOutTime: strPtr("06:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-14", resp.Attendance.Date)
	require.NotNil(t, resp.Attendance.WorkHours)
	assert.Equal(t, 8.0, *resp.Attendance.WorkHours)
	assert.Equal(t, 2.0, resp.Attendance.OvertimeHours)
}

func TestMarkAttendance_UpdateReplacesAndClearsDerived(t *testing.T) {
	emp := employee.Employee{ID: "e1", Name: "Alice", Status: employee.StatusActive}
	svc, s, rec := newFixture(emp)
	ctx := context.Background()

	first, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: "e1", Status: "present", CheckInTime: strPtr("09:00"), CheckOutTime: strPtr("17:00"),
	})
	require.NoError(t, err)

	second, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: "e1", Status: "absent",
	})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Attendance.ID, second.Attendance.ID)
	assert.Nil(t, second.Attendance.WorkHours)
	assert.False(t, second.Attendance.IsOvertime)
	assert.Len(t, s.rows, 1)
	assert.Equal(t, activity.ActionUpdate, rec.actions[1])
	assert.Equal(t, "Updated attendance for Alice on 2024-03-14", rec.descriptions[1])
}

func TestMarkAttendance_Errors(t *testing.T) {
	svc, s, _ := newFixture(staff(1)...)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "missing", Status: "present"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "e1", Status: "sick"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")

	assert.Empty(t, s.rows)
}

func TestMarkAttendance_UnparseableTimeSavedUncomputed(t *testing.T) {
	svc, s, _ := newFixture(staff(1)...)

	resp, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID:   "e1",
		Status:       "present",
		CheckInTime:  strPtr("25:99"),
		CheckOutTime: strPtr(" 17:00 "),
	})
	require.NoError(t, err)

	assert.True(t, resp.Created)
	assert.Nil(t, resp.Attendance.CheckInTime)
	require.NotNil(t, resp.Attendance.CheckOutTime)
	assert.Equal(t, "17:00", *resp.Attendance.CheckOutTime)
	assert.Nil(t, resp.Attendance.WorkHours)
	assert.False(t, resp.Attendance.IsOvertime)
	assert.Zero(t, resp.Attendance.OvertimeHours)
	assert.Len(t, s.rows, 1)
}

func TestBulkMarkAttendance(t *testing.T) {
	svc, s, rec := newFixture(staff(5)...)

	resp, err := svc.BulkMarkAttendance(context.Background(), attendance.BulkAttendanceRequest{
		Date:        "2024-03-12",
		Status:      "present",
		EmployeeIDs: []string{"e1", "e2", "e3", "e4", "e5"},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Count)
	assert.Len(t, s.rows, 5)
	assert.Equal(t, []string{"Marked bulk attendance for 5 employees on 2024-03-12"}, rec.descriptions)
}

func TestBulkMarkAttendance_RollsBackOnFailure(t *testing.T) {
	svc, s, rec := newFixture(staff(5)...)
	s.failOn = "e3"

	_, err := svc.BulkMarkAttendance(context.Background(), attendance.BulkAttendanceRequest{
		Date:        "2024-03-12",
		Status:      "present",
		EmployeeIDs: []string{"e1", "e2", "e3", "e4", "e5"},
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Empty(t, s.rows)
	assert.Empty(t, rec.descriptions)
}

func TestBulkMarkAttendance_Validation(t *testing.T) {
	svc, s, _ := newFixture(staff(2)...)
	ctx := context.Background()

	_, err := svc.BulkMarkAttendance(ctx, attendance.BulkAttendanceRequest{Status: "present"})
	assert.Error(t, err)

	_, err = svc.BulkMarkAttendance(ctx, attendance.BulkAttendanceRequest{Status: "present", EmployeeIDs: []string{"e1", "e2", "e1"}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "employee_ids must not contain duplicates", verrs.ToMap()["employee_ids"])
	assert.Empty(t, s.rows)
}

func TestListAndCounts_RefreshAfterWrite(t *testing.T) {
	svc, _, _ := newFixture(staff(3)...)
	ctx := context.Background()

	_, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "e1", Status: "present"})
	require.NoError(t, err)

	counts, err := svc.StatusCounts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Present)

	list, err := svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", list.Date)
	assert.Len(t, list.Attendances, 1)

	_, err = svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "e2", Status: "late"})
	require.NoError(t, err)

	counts, err = svc.StatusCounts(ctx, "2024-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Total)
	assert.Equal(t, int64(1), counts.Late)

	list, err = svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, list.Attendances, 2)

	unmarked, err := svc.ListUnmarkedEmployees(ctx, "")
	require.NoError(t, err)
	require.Len(t, unmarked, 1)
	assert.Equal(t, "e3", unmarked[0].ID)

	_, err = svc.StatusCounts(ctx, "14-03-2024")
	assert.ErrorIs(t, err, attendance.ErrInvalidDate)
}

func TestDeleteAttendance(t *testing.T) {
	svc, s, rec := newFixture(staff(1)...)
	ctx := context.Background()

	marked, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "e1", Date: "2024-03-01", Status: "leave"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAttendance(ctx, marked.Attendance.ID))
	assert.Empty(t, s.rows)
	assert.Equal(t, "Deleted attendance for Employee 1 on 2024-03-01", rec.descriptions[len(rec.descriptions)-1])

	assert.ErrorIs(t, svc.DeleteAttendance(ctx, marked.Attendance.ID), attendance.ErrAttendanceNotFound)
	_, err = svc.GetAttendance(ctx, marked.Attendance.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

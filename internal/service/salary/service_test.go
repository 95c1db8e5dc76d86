package salary

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSalaryRepo struct {
	mu   sync.Mutex
	rows map[string]salary.Salary
	seq  int
}

func (r *fakeSalaryRepo) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.EmployeeID == s.EmployeeID && existing.Month == s.Month && existing.Year == s.Year {
			return salary.Salary{}, salary.ErrDuplicatePeriod
		}
	}
	r.seq++
	s.ID = fmt.Sprintf("sal-%d", r.seq)
	r.rows[s.ID] = s
	return s, nil
}

func (r *fakeSalaryRepo) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	return s, nil
}

func (r *fakeSalaryRepo) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.EmployeeID == employeeID && s.Month == month && s.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSalaryRepo) UpdateStatus(ctx context.Context, id string, status salary.PaymentStatus, paymentDate *time.Time, paymentMethod *string, note *string) (salary.Salary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	s.PaymentStatus = status
	s.PaymentDate = paymentDate
	s.PaymentMethod = paymentMethod
	if note != nil && *note != "" {
		s.Note = note
	}
	r.rows[id] = s
	return s, nil
}

func (r *fakeSalaryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return salary.ErrSalaryNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeSalaryRepo) inPeriod(month, year int) []salary.Salary {
	var out []salary.Salary
	for _, s := range r.rows {
		if s.Month == month && s.Year == year {
			out = append(out, s)
		}
	}
	return out
}

func (r *fakeSalaryRepo) List(ctx context.Context, month, year int, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.inPeriod(month, year)
	return out, int64(len(out)), nil
}

func (r *fakeSalaryRepo) CountByStatus(ctx context.Context, month, year int) (map[salary.PaymentStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[salary.PaymentStatus]int64)
	for _, s := range r.inPeriod(month, year) {
		counts[s.PaymentStatus]++
	}
	return counts, nil
}

func (r *fakeSalaryRepo) Stats(ctx context.Context, month, year int) (salary.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var st salary.Stats
	for _, s := range r.inPeriod(month, year) {
		st.TotalRecords++
		st.TotalBasic = st.TotalBasic.Add(s.BasicSalary)
		st.TotalOvertime = st.TotalOvertime.Add(s.OvertimePay)
		st.TotalBonus = st.TotalBonus.Add(s.Bonus)
		st.TotalDeductions = st.TotalDeductions.Add(s.Deductions)
		st.TotalAmount = st.TotalAmount.Add(s.TotalSalary)
	}
	return st, nil
}

func (r *fakeSalaryRepo) ListUnsalaried(ctx context.Context, month, year int) ([]salary.UnsalariedEmployee, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (r fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
	start   time.Time
	end     time.Time
}

func (r *fakeAttendanceRepo) ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	r.start, r.end = start, end
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.EmployeeID == employeeID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeRecorder struct {
	descriptions []string
}

func (f *fakeRecorder) Record(ctx context.Context, action activity.Action, description string, userID, employeeID *string) {
	f.descriptions = append(f.descriptions, description)
}

type fixture struct {
	svc        *SalaryServiceImpl
	salaries   *fakeSalaryRepo
	attendance *fakeAttendanceRepo
	recorder   *fakeRecorder
}

func newFixture(strict bool) fixture {
	emp := employee.Employee{ID: "e1", Name: "Alice", Position: "Engineer", HourlyRate: decPtr("200"), WorkHoursPerDay: 8, Status: employee.StatusActive}

	var records []attendance.Attendance
	for d := 1; d <= 3; d++ {
		wh := 8.0
		records = append(records, attendance.Attendance{
			EmployeeID: "e1",
			Date:       time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC),
			Status:     attendance.StatusPresent,
			WorkHours:  &wh,
		})
	}
	// Outside the period.
	records = append(records, attendance.Attendance{EmployeeID: "e1", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent})

	f := fixture{
		salaries:   &fakeSalaryRepo{rows: make(map[string]salary.Salary)},
		attendance: &fakeAttendanceRepo{records: records},
		recorder:   &fakeRecorder{},
	}
	f.svc = NewSalaryService(
		f.salaries,
		fakeEmployeeRepo{employees: map[string]employee.Employee{"e1": emp}},
		f.attendance,
		cache.NewMemoryCache(time.Minute),
		f.recorder,
		clock.Fixed(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)),
		Options{OvertimeMultiplier: multiplier, StrictTransitions: strict, CurrencyCode: "INR"},
	).(*SalaryServiceImpl)
	return f
}

func generate(t *testing.T, f fixture) salary.GenerateSalaryResponse {
	t.Helper()
	resp, err := f.svc.GenerateSalary(context.Background(), salary.GenerateSalaryRequest{
		EmployeeID: "e1",
		Month:      3,
		Year:       2024,
		Bonus:      dec("100"),
	})
	require.NoError(t, err)
	return resp
}

func TestGenerateSalary(t *testing.T) {
	f := newFixture(false)

	resp := generate(t, f)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.attendance.start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), f.attendance.end)
	assert.Equal(t, 3, resp.Salary.PresentDays)
	assertDecimal(t, "4800", resp.Salary.BasicSalary)
	assertDecimal(t, "4900", resp.Salary.TotalSalary)
	assert.Equal(t, "pending", resp.Salary.PaymentStatus)
	assert.Equal(t, "Alice", resp.Salary.EmployeeName)
	assert.Equal(t, []string{"Generated salary for Alice for March 2024"}, f.recorder.descriptions)
}

func TestGenerateSalary_DuplicatePeriodKeepsFirst(t *testing.T) {
	f := newFixture(false)
	first := generate(t, f)

	_, err := f.svc.GenerateSalary(context.Background(), salary.GenerateSalaryRequest{
		EmployeeID: "e1",
		Month:      3,
		Year:       2024,
		Bonus:      dec("999"),
	})
	assert.ErrorIs(t, err, salary.ErrDuplicatePeriod)

	require.Len(t, f.salaries.rows, 1)
	stored := f.salaries.rows[first.Salary.ID]
	assertDecimal(t, "100", stored.Bonus)
}

func TestGenerateSalary_Errors(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	_, err := f.svc.GenerateSalary(ctx, salary.GenerateSalaryRequest{EmployeeID: "ghost", Month: 3, Year: 2024})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.GenerateSalary(ctx, salary.GenerateSalaryRequest{EmployeeID: "e1", Month: 13, Year: 2024, Bonus: dec("-1")})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "month")
	assert.Contains(t, fields, "bonus")

	assert.Empty(t, f.salaries.rows)
}

func TestUpdateSalaryStatus_PaidRequiresDate(t *testing.T) {
	f := newFixture(false)
	created := generate(t, f)

	_, err := f.svc.UpdateSalaryStatus(context.Background(), salary.UpdateSalaryStatusRequest{ID: created.Salary.ID, Status: "paid"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "payment_date")
	assert.Equal(t, salary.PaymentStatusPending, f.salaries.rows[created.Salary.ID].PaymentStatus)
}

func TestUpdateSalaryStatus_PaidThenBack(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	created := generate(t, f)

	date := "2024-03-31"
	method := "bank_transfer"
	note := "March payout"
	paid, err := f.svc.UpdateSalaryStatus(ctx, salary.UpdateSalaryStatusRequest{
		ID: created.Salary.ID, Status: "paid", PaymentDate: &date, PaymentMethod: &method, Note: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.PaymentStatus)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, date, *paid.PaymentDate)
	assert.Equal(t, "Updated salary status to 'paid' for Alice for March 2024", f.recorder.descriptions[1])

	empty := ""
	pending, err := f.svc.UpdateSalaryStatus(ctx, salary.UpdateSalaryStatusRequest{ID: created.Salary.ID, Status: "pending", Note: &empty})
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.PaymentStatus)
	assert.Nil(t, pending.PaymentDate)
	require.NotNil(t, pending.Note)
	assert.Equal(t, "March payout", *pending.Note)
}

func TestUpdateSalaryStatus_StrictTransitions(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	created := generate(t, f)

	_, err := f.svc.UpdateSalaryStatus(ctx, salary.UpdateSalaryStatusRequest{ID: created.Salary.ID, Status: "cancelled"})
	require.NoError(t, err)

	_, err = f.svc.UpdateSalaryStatus(ctx, salary.UpdateSalaryStatusRequest{ID: created.Salary.ID, Status: "pending"})
	assert.ErrorIs(t, err, salary.ErrInvalidStatusTransition)
	assert.Equal(t, salary.PaymentStatusCancelled, f.salaries.rows[created.Salary.ID].PaymentStatus)

	_, err = f.svc.UpdateSalaryStatus(ctx, salary.UpdateSalaryStatusRequest{ID: "missing", Status: "pending"})
	assert.ErrorIs(t, err, salary.ErrSalaryNotFound)
}

func TestDeleteSalary(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	created := generate(t, f)

	require.NoError(t, f.svc.DeleteSalary(ctx, created.Salary.ID))
	assert.Empty(t, f.salaries.rows)
	assert.Equal(t, "Deleted salary record for Alice for March 2024", f.recorder.descriptions[1])
	assert.ErrorIs(t, f.svc.DeleteSalary(ctx, created.Salary.ID), salary.ErrSalaryNotFound)
}

func TestListAndStats_DefaultToCurrentMonth(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	list, err := f.svc.ListSalaries(ctx, salary.SalaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Salaries)

	generate(t, f)

	list, err = f.svc.ListSalaries(ctx, salary.SalaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Month)
	assert.Equal(t, 2024, list.Year)
	assert.Len(t, list.Salaries, 1)

	stats, err := f.svc.Stats(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalRecords)
	assertDecimal(t, "4900", stats.TotalAmount)
	assert.Equal(t, "INR", stats.CurrencyCode)

	counts, err := f.svc.StatusCounts(ctx, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Pending)

	_, err = f.svc.Stats(ctx, 14, 2024)
	assert.Error(t, err)
}

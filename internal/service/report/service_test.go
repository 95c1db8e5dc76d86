package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeReportRepo struct {
	scopes      []report.Scope
	countStatus *string
}

func (r *fakeReportRepo) AttendanceRows(ctx context.Context, scope report.Scope) ([]attendance.Attendance, error) {
	r.scopes = append(r.scopes, scope)
	wh := 9.5
	in, out := "09:00:00", "18:30:00"
	return []attendance.Attendance{{
		ID: "a1", EmployeeID: "e1", EmployeeName: "Alice",
		Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent,
		CheckInTime: &in, CheckOutTime: &out, WorkHours: &wh, IsOvertime: true, OvertimeHours: 1.5,
	}}, nil
}

func (r *fakeReportRepo) SalaryRows(ctx context.Context, scope report.Scope) ([]salary.Salary, error) {
	r.scopes = append(r.scopes, scope)
	return []salary.Salary{{
		ID: "s1", EmployeeID: "e1", EmployeeName: "Alice", Month: 2, Year: 2024,
		BasicSalary: decimal.NewFromInt(1000), TotalSalary: decimal.NewFromInt(1000),
		PaymentStatus: salary.PaymentStatusPending,
	}}, nil
}

func (r *fakeReportRepo) EmployeeRows(ctx context.Context, scope report.Scope) ([]employee.Employee, error) {
	r.scopes = append(r.scopes, scope)
	monthly := decimal.NewFromInt(50000)
	hourly := decimal.NewFromInt(200)
	return []employee.Employee{
		{ID: "e1", Name: "Alice", Position: "Engineer", Status: employee.StatusActive, MonthlyRate: &monthly},
		{ID: "e2", Name: "Bob", Position: "Clerk", Status: employee.StatusOnLeave, HourlyRate: &hourly},
	}, nil
}

func (r *fakeReportRepo) AttendanceAggregate(ctx context.Context, scope report.Scope) (report.AttendanceAggregate, error) {
	r.scopes = append(r.scopes, scope)
	return report.AttendanceAggregate{Total: 1, Present: 1, WorkHours: 9.5, OvertimeHours: 1.5}, nil
}

func (r *fakeReportRepo) SalaryAggregate(ctx context.Context, scope report.Scope) (report.SalaryAggregate, error) {
	r.scopes = append(r.scopes, scope)
	return report.SalaryAggregate{Total: 1, TotalAmount: decimal.NewFromInt(1000), Pending: 1}, nil
}

func (r *fakeReportRepo) EmployeeCount(ctx context.Context, status *string) (int64, error) {
	r.countStatus = status
	return 7, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if id != "e1" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: "e1", Name: "Alice", Position: "Engineer"}, nil
}

var now = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

func newService() (*ReportServiceImpl, *fakeReportRepo) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, fakeEmployeeRepo{}, clock.Fixed(now), "INR").(*ReportServiceImpl)
	return svc, repo
}

func strPtr(s string) *string { return &s }

func TestGenerate_Attendance(t *testing.T) {
	svc, repo := newService()

	rep, err := svc.Generate(context.Background(), report.ReportFilter{Type: report.TypeAttendance})
	require.NoError(t, err)

	assert.Equal(t, "Attendance Report", rep.Title)
	assert.Equal(t, "2024-03-01 - 2024-03-14", rep.Subtitle)
	assert.Equal(t, attendanceColumns, rep.Columns)
	require.NotNil(t, rep.Attendance)
	assert.Len(t, rep.Attendance.Rows, 1)
	assert.Equal(t, int64(1), rep.Attendance.Summary.Present)
	assert.Nil(t, rep.Salary)

	require.NotEmpty(t, repo.scopes)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), repo.scopes[0].Period.Start)
}

func TestGenerate_EmployeeFilterPrefixesSubtitle(t *testing.T) {
	svc, repo := newService()

	rep, err := svc.Generate(context.Background(), report.ReportFilter{
		Type:       report.TypeSalary,
		DateRange:  report.RangeLastMonth,
		EmployeeID: strPtr("e1"),
		Status:     strPtr("pending"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice (Engineer) - 2024-02-01 - 2024-02-29", rep.Subtitle)
	require.NotNil(t, rep.Salary)
	assert.Equal(t, "INR", rep.Salary.Summary.CurrencyCode)
	require.NotNil(t, repo.scopes[0].Status)
	assert.Equal(t, "pending", *repo.scopes[0].Status)

	_, err = svc.Generate(context.Background(), report.ReportFilter{Type: report.TypeSalary, EmployeeID: strPtr("ghost")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGenerate_EmployeeReport(t *testing.T) {
	svc, _ := newService()

	rep, err := svc.Generate(context.Background(), report.ReportFilter{Type: report.TypeEmployee})
	require.NoError(t, err)

	assert.Equal(t, "Total Employees: 2", rep.Subtitle)
	require.NotNil(t, rep.Employee)
	assert.Equal(t, int64(1), rep.Employee.Summary.Active)
	assert.Equal(t, int64(1), rep.Employee.Summary.OnLeave)
	assert.Equal(t, "50000.00 / month", salaryRate(rep.Employee.Rows[0]))
	assert.Equal(t, "200.00 / hour", salaryRate(rep.Employee.Rows[1]))
}

func TestGenerate_SummaryAppliesStatusToEmployeesOnly(t *testing.T) {
	svc, repo := newService()

	rep, err := svc.Generate(context.Background(), report.ReportFilter{
		Type:   report.TypeSummary,
		Status: strPtr("active"),
	})
	require.NoError(t, err)

	require.NotNil(t, rep.Summary)
	assert.Equal(t, int64(7), rep.Summary.TotalEmployees)
	require.NotNil(t, repo.countStatus)
	assert.Equal(t, "active", *repo.countStatus)
	for _, scope := range repo.scopes {
		assert.Nil(t, scope.Status)
	}
}

func TestGenerate_InvalidFilters(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Generate(ctx, report.ReportFilter{Type: "payroll"})
	assert.Error(t, err)

	_, err = svc.Generate(ctx, report.ReportFilter{Type: report.TypeAttendance, DateRange: report.RangeCustom})
	assert.Error(t, err)

	_, err = svc.Generate(ctx, report.ReportFilter{Type: report.TypeAttendance, StartDate: "2024-03-10", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, report.ErrInvalidDateRange)
}

func TestExport_Attendance(t *testing.T) {
	svc, _ := newService()
	var buf bytes.Buffer

	name, err := svc.Export(context.Background(), report.ReportFilter{
		Type:      report.TypeAttendance,
		DateRange: report.RangeCustom,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "attendance_report_2024-03-01_to_2024-03-31.xlsx", name)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Attendance", "Summary"}, f.GetSheetList())
	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, attendanceColumns, rows[0])
	assert.Equal(t, []string{"Alice", "2024-03-12", "present", "09:00:00", "18:30:00", "9.5", "1.5"}, rows[1][:7])
}

func TestExport_Summary(t *testing.T) {
	svc, _ := newService()
	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), report.ReportFilter{Type: report.TypeSummary}, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Attendance", "Salary"}, f.GetSheetList())
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total Employees", "7"}, rows[3])
}

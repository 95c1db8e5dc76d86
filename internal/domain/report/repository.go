package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
)

// ReportRepository reads the joined rows and aggregates behind each report.
type ReportRepository interface {
	// AttendanceRows lists attendance inside scope.Period, newest day first.
	AttendanceRows(ctx context.Context, scope Scope) ([]attendance.Attendance, error)

	// SalaryRows lists salary records whose month falls inside scope.Period.
	SalaryRows(ctx context.Context, scope Scope) ([]salary.Salary, error)

	// EmployeeRows ignores scope.Period.
	EmployeeRows(ctx context.Context, scope Scope) ([]employee.Employee, error)

	AttendanceAggregate(ctx context.Context, scope Scope) (AttendanceAggregate, error)
	SalaryAggregate(ctx context.Context, scope Scope) (SalaryAggregate, error)
	EmployeeCount(ctx context.Context, status *string) (int64, error)
}

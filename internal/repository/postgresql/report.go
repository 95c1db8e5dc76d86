package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// whereBuilder collects AND conditions with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends cond, replacing every ? with the next placeholder for each arg.
func (w *whereBuilder) add(cond string, args ...interface{}) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conditions = append(w.conditions, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conditions) == 0 {
		return "1=1"
	}
	return strings.Join(w.conditions, " AND ")
}

func attendanceScope(scope report.Scope, alias string) *whereBuilder {
	w := &whereBuilder{}
	w.add(alias+"date BETWEEN ? AND ?", scope.Period.Start, scope.Period.End)
	if scope.EmployeeID != nil {
		w.add(alias+"employee_id = ?", *scope.EmployeeID)
	}
	return w
}

// salaryScope selects whole months: a record for month m of year y is in
// range when (y, m) lies between the start and end (year, month) pairs.
func salaryScope(scope report.Scope, alias string) *whereBuilder {
	sm, sy, em, ey := scope.Period.Months()
	w := &whereBuilder{}
	w.add(fmt.Sprintf("(%[1]syear > ? OR (%[1]syear = ? AND %[1]smonth >= ?))", alias), sy, sy, sm)
	w.add(fmt.Sprintf("(%[1]syear < ? OR (%[1]syear = ? AND %[1]smonth <= ?))", alias), ey, ey, em)
	if scope.EmployeeID != nil {
		w.add(alias+"employee_id = ?", *scope.EmployeeID)
	}
	return w
}

// AttendanceRows implements report.ReportRepository.
func (r *reportRepositoryImpl) AttendanceRows(ctx context.Context, scope report.Scope) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	w := attendanceScope(scope, "a.")
	if scope.Status != nil {
		w.add("a.status = ?", *scope.Status)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.name
	`, attendanceColumns, w)

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	return collectAttendance(rows)
}

// SalaryRows implements report.ReportRepository.
func (r *reportRepositoryImpl) SalaryRows(ctx context.Context, scope report.Scope) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	w := salaryScope(scope, "s.")
	if scope.Status != nil {
		w.add("s.payment_status = ?", *scope.Status)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM salary s
		JOIN employees e ON e.id = s.employee_id
		WHERE %s
		ORDER BY s.year DESC, s.month DESC, e.name
	`, salaryColumns, w)

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary report: %w", err)
	}
	return collectSalaries(rows)
}

// EmployeeRows implements report.ReportRepository.
func (r *reportRepositoryImpl) EmployeeRows(ctx context.Context, scope report.Scope) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	w := &whereBuilder{}
	if scope.EmployeeID != nil {
		w.add("id = ?", *scope.EmployeeID)
	}
	if scope.Status != nil {
		w.add("status = ?", *scope.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY name`, employeeColumns, w)
	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee report: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// AttendanceAggregate implements report.ReportRepository.
func (r *reportRepositoryImpl) AttendanceAggregate(ctx context.Context, scope report.Scope) (report.AttendanceAggregate, error) {
	q := GetQuerier(ctx, r.db)

	w := attendanceScope(scope, "")
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'half-day' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'leave' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(work_hours), 0)::float8,
			COALESCE(SUM(overtime_hours), 0)::float8
		FROM attendance
		WHERE %s
	`, w)

	var agg report.AttendanceAggregate
	err := q.QueryRow(ctx, query, w.args...).Scan(
		&agg.Total, &agg.Present, &agg.Absent, &agg.HalfDay, &agg.Late, &agg.Leave,
		&agg.WorkHours, &agg.OvertimeHours,
	)
	if err != nil {
		return report.AttendanceAggregate{}, fmt.Errorf("failed to aggregate attendance: %w", err)
	}
	return agg, nil
}

// SalaryAggregate implements report.ReportRepository.
func (r *reportRepositoryImpl) SalaryAggregate(ctx context.Context, scope report.Scope) (report.SalaryAggregate, error) {
	q := GetQuerier(ctx, r.db)

	w := salaryScope(scope, "")
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(basic_salary), 0),
			COALESCE(SUM(overtime_pay), 0),
			COALESCE(SUM(bonus), 0),
			COALESCE(SUM(deductions), 0),
			COALESCE(SUM(total_salary), 0),
			COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN payment_status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN payment_status = 'cancelled' THEN 1 ELSE 0 END), 0)
		FROM salary
		WHERE %s
	`, w)

	var agg report.SalaryAggregate
	err := q.QueryRow(ctx, query, w.args...).Scan(
		&agg.Total, &agg.TotalBasic, &agg.TotalOvertime, &agg.TotalBonus, &agg.TotalDeductions, &agg.TotalAmount,
		&agg.Paid, &agg.Pending, &agg.Cancelled,
	)
	if err != nil {
		return report.SalaryAggregate{}, fmt.Errorf("failed to aggregate salaries: %w", err)
	}
	return agg, nil
}

// EmployeeCount implements report.ReportRepository.
func (r *reportRepositoryImpl) EmployeeCount(ctx context.Context, status *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	w := &whereBuilder{}
	if status != nil {
		w.add("status = ?", *status)
	}

	var total int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM employees WHERE %s`, w)
	if err := q.QueryRow(ctx, query, w.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, nil
}

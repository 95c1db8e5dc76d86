package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const salaryColumns = `s.id, s.employee_id, s.month, s.year,
	s.basic_salary, s.overtime_pay, s.bonus, s.deductions, s.total_salary,
	s.payment_status, s.payment_date, s.payment_method, s.note,
	s.present_days, s.absent_days, s.leave_days, s.half_days, s.late_days,
	s.total_work_hours, s.total_overtime_hours, s.created_at, s.updated_at,
	e.name, e.position`

func scanSalary(row pgx.Row) (salary.Salary, error) {
	var s salary.Salary
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Month, &s.Year,
		&s.BasicSalary, &s.OvertimePay, &s.Bonus, &s.Deductions, &s.TotalSalary,
		&s.PaymentStatus, &s.PaymentDate, &s.PaymentMethod, &s.Note,
		&s.PresentDays, &s.AbsentDays, &s.LeaveDays, &s.HalfDays, &s.LateDays,
		&s.TotalWorkHours, &s.TotalOvertimeHours, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.EmployeePosition,
	)
	return s, err
}

func collectSalaries(rows pgx.Rows) ([]salary.Salary, error) {
	defer rows.Close()

	var records []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		records = append(records, s)
	}
	return records, rows.Err()
}

// Create implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO salary (
			id, employee_id, month, year,
			basic_salary, overtime_pay, bonus, deductions, total_salary,
			payment_status, payment_date, payment_method, note,
			present_days, absent_days, leave_days, half_days, late_days,
			total_work_hours, total_overtime_hours
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17, $18,
			$19, $20
		)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.EmployeeID, s.Month, s.Year,
		s.BasicSalary, s.OvertimePay, s.Bonus, s.Deductions, s.TotalSalary,
		s.PaymentStatus, s.PaymentDate, s.PaymentMethod, s.Note,
		s.PresentDays, s.AbsentDays, s.LeaveDays, s.HalfDays, s.LateDays,
		s.TotalWorkHours, s.TotalOvertimeHours,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return salary.Salary{}, salary.ErrDuplicatePeriod
		}
		if database.IsForeignKeyViolation(err) {
			return salary.Salary{}, employee.ErrEmployeeNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to create salary: %w", err)
	}

	return r.GetByID(ctx, s.ID)
}

// GetByID implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1
	`
	found, err := scanSalary(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return found, nil
}

// ExistsForPeriod implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM salary WHERE employee_id = $1 AND month = $2 AND year = $3)`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, month, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check salary period: %w", err)
	}
	return exists, nil
}

// UpdateStatus implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) UpdateStatus(ctx context.Context, id string, status salary.PaymentStatus, paymentDate *time.Time, paymentMethod *string, note *string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	noteValue := ""
	if note != nil {
		noteValue = *note
	}

	query := `
		UPDATE salary
		SET payment_status = $1,
			payment_date = $2,
			payment_method = $3,
			note = CASE WHEN $4::text <> '' THEN $4::text ELSE note END,
			updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, status, paymentDate, paymentMethod, noteValue, id)
	if err != nil {
		return salary.Salary{}, fmt.Errorf("failed to update salary status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryNotFound
	}
	return nil
}

// List implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) List(ctx context.Context, month, year int, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"s.month = $1", "s.year = $2"}
	args := []interface{}{month, year}
	argIdx := 3

	if filter.Status != nil && *filter.Status != "" && *filter.Status != "all" {
		conditions = append(conditions, fmt.Sprintf("s.payment_status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.name ILIKE $%d OR e.position ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM salary s
		JOIN employees e ON e.id = s.employee_id
		WHERE %s
	`, whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salaries: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM salary s
		JOIN employees e ON e.id = s.employee_id
		WHERE %s
		ORDER BY s.year DESC, s.month DESC, e.name
		LIMIT $%d OFFSET $%d
	`, salaryColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salaries: %w", err)
	}
	records, err := collectSalaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByStatus implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) CountByStatus(ctx context.Context, month, year int) (map[salary.PaymentStatus]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT payment_status, COUNT(*) FROM salary WHERE month = $1 AND year = $2 GROUP BY payment_status`
	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to count salaries by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[salary.PaymentStatus]int64)
	for rows.Next() {
		var status salary.PaymentStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan salary count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Stats implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) Stats(ctx context.Context, month, year int) (salary.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(basic_salary), 0),
			COALESCE(SUM(overtime_pay), 0),
			COALESCE(SUM(bonus), 0),
			COALESCE(SUM(deductions), 0),
			COALESCE(SUM(total_salary), 0)
		FROM salary
		WHERE month = $1 AND year = $2
	`
	var st salary.Stats
	err := q.QueryRow(ctx, query, month, year).Scan(
		&st.TotalRecords, &st.TotalBasic, &st.TotalOvertime, &st.TotalBonus, &st.TotalDeductions, &st.TotalAmount,
	)
	if err != nil {
		return salary.Stats{}, fmt.Errorf("failed to compute salary stats: %w", err)
	}
	return st, nil
}

// ListUnsalaried implements salary.SalaryRepository.
func (r *salaryRepositoryImpl) ListUnsalaried(ctx context.Context, month, year int) ([]salary.UnsalariedEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.name, e.position
		FROM employees e
		WHERE e.status = 'active'
		  AND NOT EXISTS (
			SELECT 1 FROM salary s WHERE s.employee_id = e.id AND s.month = $1 AND s.year = $2
		  )
		ORDER BY e.name
	`
	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsalaried employees: %w", err)
	}
	defer rows.Close()

	var result []salary.UnsalariedEmployee
	for rows.Next() {
		var u salary.UnsalariedEmployee
		if err := rows.Scan(&u.ID, &u.Name, &u.Position); err != nil {
			return nil, fmt.Errorf("failed to scan unsalaried employee: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// TIME columns travel as HH:MM:SS text in both directions.
const attendanceColumns = `a.id, a.employee_id, a.date, a.status,
	to_char(a.check_in_time, 'HH24:MI:SS'), to_char(a.check_out_time, 'HH24:MI:SS'),
	a.work_hours, a.is_overtime, a.overtime_hours, a.note, a.created_at, a.updated_at,
	e.name, e.position`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.Status,
		&a.CheckInTime, &a.CheckOutTime,
		&a.WorkHours, &a.IsOvertime, &a.OvertimeHours, &a.Note, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeePosition,
	)
	return a, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`
	found, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return found, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, bool, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendance (
			id, employee_id, date, status, check_in_time, check_out_time,
			work_hours, is_overtime, overtime_hours, note
		) VALUES (
			$1, $2, $3, $4, CAST($5::text AS TIME), CAST($6::text AS TIME),
			$7, $8, $9, $10
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			work_hours = EXCLUDED.work_hours,
			is_overtime = EXCLUDED.is_overtime,
			overtime_hours = EXCLUDED.overtime_hours,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, (xmax = 0)
	`

	var id string
	var inserted bool
	err := q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.Date, a.Status, a.CheckInTime, a.CheckOutTime,
		a.WorkHours, a.IsOvertime, a.OvertimeHours, a.Note,
	).Scan(&id, &inserted)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return attendance.Attendance{}, false, employee.ErrEmployeeNotFound
		}
		return attendance.Attendance{}, false, fmt.Errorf("failed to save attendance: %w", err)
	}

	saved, err := r.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return saved, inserted, nil
}

// UpsertStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpsertStatus(ctx context.Context, id string, employeeID string, date time.Time, status attendance.Status, note *string) error {
	q := GetQuerier(ctx, r.db)

	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO attendance (id, employee_id, date, status, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			note = EXCLUDED.note,
			updated_at = NOW()
	`
	_, err := q.Exec(ctx, query, id, employeeID, date, status, note)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to mark attendance for employee %s: %w", employeeID, err)
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, date time.Time, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.date = $1"}
	args := []interface{}{date}
	argIdx := 2

	if filter.Status != nil && *filter.Status != "" && *filter.Status != "all" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
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
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
	`, whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY e.name, a.id
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	records, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountByStatus(ctx context.Context, date time.Time) (map[attendance.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM attendance WHERE date = $1 GROUP BY status`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int64)
	for rows.Next() {
		var status attendance.Status
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ListUnmarked implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListUnmarked(ctx context.Context, date time.Time) ([]attendance.UnmarkedEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.name, e.position
		FROM employees e
		WHERE e.status = 'active'
		  AND NOT EXISTS (
			SELECT 1 FROM attendance a WHERE a.employee_id = e.id AND a.date = $1
		  )
		ORDER BY e.name
	`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmarked employees: %w", err)
	}
	defer rows.Close()

	var result []attendance.UnmarkedEmployee
	for rows.Next() {
		var u attendance.UnmarkedEmployee
		if err := rows.Scan(&u.ID, &u.Name, &u.Position); err != nil {
			return nil, fmt.Errorf("failed to scan unmarked employee: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// ListByEmployeeAndPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date
	`
	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for period: %w", err)
	}
	return collectAttendance(rows)
}

// Recent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Recent(ctx context.Context, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id
		ORDER BY a.date DESC, a.created_at DESC
		LIMIT $1
	`
	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attendance: %w", err)
	}
	return collectAttendance(rows)
}

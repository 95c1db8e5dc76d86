package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type activityRepositoryImpl struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) activity.ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

const activityColumns = `a.id, a.user_id, a.employee_id, a.action, a.description, a.created_at,
	u.username, e.name`

func collectActivities(rows pgx.Rows) ([]activity.Activity, error) {
	defer rows.Close()

	var result []activity.Activity
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.EmployeeID, &a.Action, &a.Description, &a.CreatedAt,
			&a.Username, &a.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Create implements activity.ActivityRepository.
func (r *activityRepositoryImpl) Create(ctx context.Context, entry activity.Activity) error {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activities (id, user_id, employee_id, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query, entry.ID, entry.UserID, entry.EmployeeID, entry.Action, entry.Description, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// List implements activity.ActivityRepository.
func (r *activityRepositoryImpl) List(ctx context.Context, filter activity.ActivityFilter) ([]activity.Activity, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Action != nil && *filter.Action != "" {
		conditions = append(conditions, fmt.Sprintf("a.action = $%d", argIdx))
		args = append(args, *filter.Action)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activities a WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM activities a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, activityColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	result, err := collectActivities(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Recent implements activity.ActivityRepository.
func (r *activityRepositoryImpl) Recent(ctx context.Context, limit int) ([]activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + activityColumns + `
		FROM activities a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN employees e ON e.id = a.employee_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1
	`
	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	return collectActivities(rows)
}

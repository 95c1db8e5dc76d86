// Package cache is a read-through key/value cache whose entries are grouped
// under invalidation tags, so writers drop whole families of keys without
// knowing every key that was built from the data they changed.
package cache

import (
	"context"
	"log/slog"
	"strings"
)

// Tag names a family of cached entries.
type Tag string

const (
	TagEmployees  Tag = "employees"
	TagAttendance Tag = "attendance"
	TagSalary     Tag = "salary"
	TagDashboard  Tag = "dashboard"
	TagActivities Tag = "activities"
	TagUsers      Tag = "users"
)

// TagEmployee scopes entries derived from a single employee row.
func TagEmployee(id string) Tag {
	return Tag("employee_" + id)
}

// TagAttendanceDate scopes entries derived from one day of attendance.
func TagAttendanceDate(date string) Tag {
	return Tag("attendance_" + date)
}

// TagUser scopes entries derived from a single user row.
func TagUser(id string) Tag {
	return Tag("user_" + id)
}

func EmployeeKey(id string) string {
	return "employee_" + id
}

func AttendanceDateKey(date string) string {
	return "attendance_" + date
}

func UserKey(id string) string {
	return "user_" + id
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

type Cache interface {
	// Get decodes the entry at key into dest. The bool is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores value at key and registers it under every tag.
	Set(ctx context.Context, key string, value interface{}, tags ...Tag) error
	Delete(ctx context.Context, keys ...string) error
	// Invalidate drops every entry registered under any of tags.
	Invalidate(ctx context.Context, tags ...Tag) error
}

// Sweeper is implemented by caches that need periodic housekeeping.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// Remember returns the cached value at key, or calls load and caches its
// result. Cache failures are logged and never fail the read.
func Remember[T any](ctx context.Context, c Cache, key string, tags []Tag, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "cache get failed", "key", key, "error", err)
	} else if hit {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, tags...); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
	return value, nil
}

// InvalidateQuietly drops tags and logs failures. Writes that already
// committed must not report an error because the cache could not be reached.
func InvalidateQuietly(ctx context.Context, c Cache, tags ...Tag) {
	if err := c.Invalidate(ctx, tags...); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "tags", tags, "error", err)
	}
}

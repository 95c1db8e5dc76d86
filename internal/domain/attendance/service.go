package attendance

import "context"

type AttendanceService interface {
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error)
	BulkMarkAttendance(ctx context.Context, req BulkAttendanceRequest) (BulkAttendanceResponse, error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	StatusCounts(ctx context.Context, date string) (StatusCountsResponse, error)
	ListUnmarkedEmployees(ctx context.Context, date string) ([]UnmarkedEmployeeResponse, error)
}

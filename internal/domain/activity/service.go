package activity

import "context"

// Recorder appends audit rows. Recording never fails the calling operation.
type Recorder interface {
	Record(ctx context.Context, action Action, description string, userID, employeeID *string)
}

type ActivityService interface {
	Recorder
	List(ctx context.Context, filter ActivityFilter) (ListActivityResponse, error)
	Recent(ctx context.Context, limit int) ([]ActivityResponse, error)

	// Subscribe streams activities recorded after the call until ctx ends
	// or cleanup runs.
	Subscribe(ctx context.Context) (<-chan FeedEvent, func())
}

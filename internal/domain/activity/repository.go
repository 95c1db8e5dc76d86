package activity

import "context"

type ActivityRepository interface {
	Create(ctx context.Context, entry Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]Activity, int64, error)
	Recent(ctx context.Context, limit int) ([]Activity, error)
}

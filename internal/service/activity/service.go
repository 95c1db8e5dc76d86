package activity

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const (
	feedTopic = "activities"
	feedEvent = "activity"
)

type ActivityServiceImpl struct {
	activityRepo activity.ActivityRepository
	cache        cache.Cache
	hub          *sse.Hub
	defaultLimit int
	now          func() time.Time
}

// NewActivityService wires the audit log. hub may be nil, in which case no
// live feed is published.
func NewActivityService(activityRepo activity.ActivityRepository, c cache.Cache, hub *sse.Hub, defaultLimit int) activity.ActivityService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &ActivityServiceImpl{
		activityRepo: activityRepo,
		cache:        c,
		hub:          hub,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// Record appends an audit row. A failed write is logged and swallowed so the
// audited operation, which has already succeeded, is never reported as failed.
func (s *ActivityServiceImpl) Record(ctx context.Context, action activity.Action, description string, userID, employeeID *string) {
	entry := activity.Activity{
		ID:          uuid.Must(uuid.NewV7()).String(),
		UserID:      userID,
		EmployeeID:  employeeID,
		Action:      action,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to record activity", "action", action, "error", err)
		return
	}
	cache.InvalidateQuietly(ctx, s.cache, cache.TagActivities, cache.TagDashboard)

	if s.hub != nil {
		s.hub.Publish(sse.Event{Topic: feedTopic, Event: feedEvent, Data: activity.NewActivityResponse(entry)})
	}
}

// Subscribe implements activity.ActivityService.
func (s *ActivityServiceImpl) Subscribe(ctx context.Context) (<-chan activity.FeedEvent, func()) {
	out := make(chan activity.FeedEvent, 10)
	if s.hub == nil {
		close(out)
		return out, func() {}
	}

	ch, cleanup := s.hub.Subscribe(feedTopic)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(activity.ActivityResponse)
				if !ok {
					continue
				}
				select {
				case out <- activity.FeedEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

func (s *ActivityServiceImpl) List(ctx context.Context, filter activity.ActivityFilter) (activity.ListActivityResponse, error) {
	if err := filter.Validate(); err != nil {
		return activity.ListActivityResponse{}, err
	}
	if filter.Limit == 0 {
		filter.Limit = s.defaultLimit
	}

	entries, total, err := s.activityRepo.List(ctx, filter)
	if err != nil {
		return activity.ListActivityResponse{}, err
	}

	responses := make([]activity.ActivityResponse, 0, len(entries))
	for _, a := range entries {
		responses = append(responses, activity.NewActivityResponse(a))
	}

	return activity.ListActivityResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Activities: responses,
	}, nil
}

func (s *ActivityServiceImpl) Recent(ctx context.Context, limit int) ([]activity.ActivityResponse, error) {
	return cache.Remember(ctx, s.cache, cache.Key("activities", "recent", strconv.Itoa(limit)), []cache.Tag{cache.TagActivities},
		func(ctx context.Context) ([]activity.ActivityResponse, error) {
			entries, err := s.activityRepo.Recent(ctx, limit)
			if err != nil {
				return nil, err
			}
			responses := make([]activity.ActivityResponse, 0, len(entries))
			for _, a := range entries {
				responses = append(responses, activity.NewActivityResponse(a))
			}
			return responses, nil
		})
}

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/stretchr/testify/assert"
)

type fakeActivityService struct {
	activity.ActivityService
	events []activity.FeedEvent
	closed bool
}

func (f *fakeActivityService) Subscribe(ctx context.Context) (<-chan activity.FeedEvent, func()) {
	ch := make(chan activity.FeedEvent, len(f.events))
	for _, e := range f.events {
		ch <- e
	}
	close(ch)
	return ch, func() { f.closed = true }
}

func TestActivityHandler_Stream(t *testing.T) {
	svc := &fakeActivityService{events: []activity.FeedEvent{{
		Event: "activity",
		Data:  activity.ActivityResponse{ID: "a1", Action: "create", Description: "Added new employee: Asha"},
	}}}
	h := NewActivityHandler(svc)

	rec := httptest.NewRecorder()
	h.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/v1/activities/stream", nil))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: activity\n")
	assert.Contains(t, body, `"description":"Added new employee: Asha"`)
	assert.True(t, svc.closed)
}

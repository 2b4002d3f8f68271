package notify

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/log"
	"github.com/felixgeelhaar/pulsehr/internal/nav"
)

type stubSource struct {
	all          []api.Leave
	own          []api.Leave
	feedback     int
	leavesErr    error
	feedbackErr  error
	allCalls     int
	ownCalls     int
	ownFor       string
	feedbackHits int
}

func (s *stubSource) ListLeaves(context.Context) ([]api.Leave, error) {
	s.allCalls++
	return s.all, s.leavesErr
}

func (s *stubSource) EmployeeLeaves(_ context.Context, id string) ([]api.Leave, error) {
	s.ownCalls++
	s.ownFor = id
	return s.own, s.leavesErr
}

func (s *stubSource) PendingFeedbackCount(context.Context) (int, error) {
	s.feedbackHits++
	return s.feedback, s.feedbackErr
}

type recorder struct{ count, failures int }

func (r *recorder) NotificationsRefreshed(count, failures int) {
	r.count, r.failures = count, failures
}

func leaves(statuses ...api.LeaveStatus) []api.Leave {
	out := make([]api.Leave, len(statuses))
	for i, s := range statuses {
		out[i] = api.Leave{ID: string(rune('a' + i)), Status: s}
	}
	return out
}

var (
	admin    = &api.UserProfile{ID: "a1", Role: api.RoleAdmin}
	employee = &api.UserProfile{ID: "e1", Role: api.RoleEmployee}
)

func TestEmployeeWithPendingLeaves(t *testing.T) {
	src := &stubSource{own: leaves(api.LeavePending, api.LeavePending, api.LeavePending, api.LeaveApproved)}
	got := New(log.Discard(), nil).Refresh(context.Background(), src, employee)

	require.Len(t, got, 1)
	assert.Equal(t, Warning, got[0].Category)
	assert.Equal(t, LeavesID, got[0].ID)
	assert.Equal(t, "3 leave request(s) awaiting approval", got[0].Message)
	assert.Equal(t, nav.Leaves, got[0].SourceTab)
	assert.Equal(t, "e1", src.ownFor)
	assert.Zero(t, src.allCalls)
}

func TestAdminWithOnlyFeedback(t *testing.T) {
	src := &stubSource{all: leaves(api.LeaveApproved, api.LeaveRejected), feedback: 5}
	got := New(log.Discard(), nil).Refresh(context.Background(), src, admin)

	require.Len(t, got, 1)
	assert.Equal(t, Info, got[0].Category)
	assert.Equal(t, "New Feedback", got[0].Title)
	assert.Contains(t, got[0].Message, "5")
	assert.Equal(t, nav.Feedback, got[0].SourceTab)
	assert.Zero(t, src.ownCalls)
}

func TestEmployeeNeverRequestsFeedbackCount(t *testing.T) {
	src := &stubSource{feedback: 9}
	New(log.Discard(), nil).Refresh(context.Background(), src, employee)

	assert.Zero(t, src.feedbackHits)
}

func TestOrderLeavesBeforeFeedback(t *testing.T) {
	src := &stubSource{all: leaves(api.LeavePending), feedback: 2}
	got := New(log.Discard(), nil).Refresh(context.Background(), src, admin)

	require.Len(t, got, 2)
	assert.Equal(t, LeavesID, got[0].ID)
	assert.Equal(t, FeedbackID, got[1].ID)
	assert.Equal(t, 2, Badge(got))
}

func TestEmptyResult(t *testing.T) {
	rec := &recorder{count: -1}
	src := &stubSource{all: leaves(api.LeaveApproved)}
	got := New(log.Discard(), rec).Refresh(context.Background(), src, admin)

	assert.Empty(t, got)
	assert.Equal(t, 0, Badge(got))
	assert.Equal(t, 0, rec.count)
}

func TestPartialResultsOnFailure(t *testing.T) {
	rec := &recorder{}
	src := &stubSource{leavesErr: stderrors.New("boom"), feedback: 1}
	got := New(log.Discard(), rec).Refresh(context.Background(), src, admin)

	require.Len(t, got, 1)
	assert.Equal(t, FeedbackID, got[0].ID)
	assert.Equal(t, 1, rec.failures)

	src = &stubSource{all: leaves(api.LeavePending), feedbackErr: stderrors.New("boom")}
	got = New(log.Discard(), rec).Refresh(context.Background(), src, admin)
	require.Len(t, got, 1)
	assert.Equal(t, LeavesID, got[0].ID)
}

func TestNilUser(t *testing.T) {
	src := &stubSource{}
	assert.Nil(t, New(log.Discard(), nil).Refresh(context.Background(), src, nil))
	assert.Zero(t, src.allCalls+src.ownCalls+src.feedbackHits)
}

// The real client against a fake API: an employee refresh touches only
// the employee leave endpoint.
func TestRefreshOverHTTP(t *testing.T) {
	var feedbackCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/leaves/employee/e1":
			_, _ = w.Write([]byte(`[{"_id":"1","status":"pending"},{"_id":"2","status":"pending"}]`))
		case strings.HasPrefix(r.URL.Path, "/feedback"):
			feedbackCalls.Add(1)
			_, _ = w.Write([]byte(`{"count":3}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := api.NewWithConfig(server.URL, &api.Config{MaxRetries: 1, RetryDelay: time.Millisecond, Timeout: time.Second, Logger: log.Discard()}).WithToken("t")
	got := New(log.Discard(), nil).Refresh(context.Background(), client, employee)

	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "2")
	assert.Zero(t, feedbackCalls.Load())
}

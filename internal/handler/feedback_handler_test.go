package handler

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faultline/faultline/internal/model"
)

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	entries []model.Feedback
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback *model.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *feedback)
	return nil
}

func (f *fakeFeedbackRepo) ListByJob(_ context.Context, jobID string) ([]model.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Feedback
	for _, e := range f.entries {
		if e.JobID == jobID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestPostFeedback(t *testing.T) {
	f := newFixture(t)

	resp, body := f.post(t, "/feedback", map[string]any{
		"job_id":    "job-1",
		"is_useful": true,
		"comment":   "clear and actionable",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Feedback received", body["message"])
}

func TestPostFeedbackRequiresJobID(t *testing.T) {
	f := newFixture(t)

	resp, body := f.post(t, "/feedback", map[string]any{
		"is_useful": false,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "job_id is required")
}

func TestPostFeedbackRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Post(f.server.URL+"/feedback", "application/json", bytes.NewReader([]byte("nope")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListFeedbackForJob(t *testing.T) {
	f := newFixture(t)

	for _, comment := range []string{"helpful", "too verbose"} {
		_, _ = f.post(t, "/feedback", map[string]any{
			"job_id":    "job-1",
			"is_useful": true,
			"comment":   comment,
		})
	}
	_, _ = f.post(t, "/feedback", map[string]any{
		"job_id":    "job-2",
		"is_useful": false,
	})

	resp, body := f.get(t, "/feedback/job-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total"])
}

func TestListFeedbackEmpty(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/feedback/unknown-job")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["total"])
	assert.NotNil(t, body["feedback"])
}

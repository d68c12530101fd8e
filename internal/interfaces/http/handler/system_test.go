package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aidat/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name   string
		checks map[string]Checker
		status int
		state  string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"all healthy", map[string]Checker{"database": ok, "redis": ok}, http.StatusOK, "ok"},
		{"redis down", map[string]Checker{"database": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("1.2.0", tt.checks)
			r := gin.New()
			r.GET("/health", h.Health)

			w := perform(r, http.MethodGet, "/health", "")
			assert.Equal(t, tt.status, w.Code)

			data, isMap := decode(t, w).Data.(map[string]any)
			require.True(t, isMap)
			assert.Equal(t, tt.state, data["status"])
			assert.Equal(t, "1.2.0", data["version"])
			checks := data["checks"].(map[string]any)
			assert.Len(t, checks, len(tt.checks))
			if tt.state == "degraded" {
				assert.Equal(t, "dial tcp: refused", checks["redis"])
				assert.Equal(t, "ok", checks["database"])
			}
		})
	}
}

type mockJobScheduler struct{ mock.Mock }

func (m *mockJobScheduler) Status() []scheduler.RunInfo {
	return m.Called().Get(0).([]scheduler.RunInfo)
}

func (m *mockJobScheduler) RunNow(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func newJobsRouter(jobs JobScheduler) *gin.Engine {
	h := NewSystemHandler("1.2.0", nil)
	if jobs != nil {
		h.SetScheduler(jobs)
	}
	r := gin.New()
	r.GET("/system/jobs", h.ListJobs)
	r.POST("/system/jobs/:name/run", h.RunJob)
	return r
}

func TestSystemHandler_ListJobs(t *testing.T) {
	jobs := new(mockJobScheduler)
	jobs.On("Status").Return([]scheduler.RunInfo{
		{Name: scheduler.JobLateFees, Spec: "0 1 * * *", Status: scheduler.JobStatusSuccess, Runs: 3},
		{Name: scheduler.JobMonthlyReminder, Spec: "0 9 10 * *", Status: scheduler.JobStatusIdle},
	})

	w := perform(newJobsRouter(jobs), http.MethodGet, "/system/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w).Data.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "late-fees", list[0].(map[string]any)["name"])

	assert.Equal(t, http.StatusInternalServerError, perform(newJobsRouter(nil), http.MethodGet, "/system/jobs", "").Code)
}

func TestSystemHandler_RunJob(t *testing.T) {
	tests := []struct {
		name   string
		job    string
		err    error
		status int
	}{
		{"ran", scheduler.JobLateFees, nil, http.StatusOK},
		{"unknown job", "backup", fmt.Errorf("%w: backup", scheduler.ErrJobNotFound), http.StatusNotFound},
		{"already running", scheduler.JobLateFees, scheduler.ErrJobAlreadyRunning, http.StatusConflict},
		{"job failed", scheduler.JobMonthlyReminder, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := new(mockJobScheduler)
			jobs.On("RunNow", mock.Anything, tt.job).Return(tt.err)
			jobs.On("Status").Return([]scheduler.RunInfo{{Name: tt.job, Status: scheduler.JobStatusSuccess, Runs: 1}})

			w := perform(newJobsRouter(jobs), http.MethodPost, "/system/jobs/"+tt.job+"/run", "")
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "SUCCESS", decode(t, w).Data.(map[string]any)["status"])
			}
		})
	}
}

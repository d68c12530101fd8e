package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aidat/backend/internal/domain/shared"
	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestScheduler(t *testing.T) (*Scheduler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	cfg.JobTimeout = time.Second
	return New(cfg, zap.New(core)), logs
}

func findInfo(t *testing.T, s *Scheduler, name string) RunInfo {
	t.Helper()
	for _, info := range s.Status() {
		if info.Name == name {
			return info
		}
	}
	t.Fatalf("job %s not found", name)
	return RunInfo{}
}

func TestScheduler_Register(t *testing.T) {
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		job     string
		spec    string
		fn      JobFunc
		wantErr error
	}{
		{"valid", "a", "0 1 * * *", noop, nil},
		{"bad spec", "b", "every night", noop, ErrInvalidConfig},
		{"six fields rejected", "c", "0 0 1 * * *", noop, ErrInvalidConfig},
		{"empty name", "", "0 1 * * *", noop, ErrInvalidConfig},
		{"nil func", "d", "0 1 * * *", nil, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScheduler(t)
			err := s.Register(tt.job, tt.spec, tt.fn)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("duplicate name", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		require.NoError(t, s.Register("a", "0 1 * * *", noop))
		assert.ErrorIs(t, s.Register("a", "0 2 * * *", noop), ErrDuplicateJob)
	})
}

func TestScheduler_RunNow(t *testing.T) {
	ctx := context.Background()

	t.Run("records success", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		var gotRunID string
		var hasDeadline bool
		require.NoError(t, s.Register("ok", "0 1 * * *", func(ctx context.Context) error {
			gotRunID = logger.GetRequestID(ctx)
			_, hasDeadline = ctx.Deadline()
			return nil
		}))

		require.NoError(t, s.RunNow(ctx, "ok"))

		info := findInfo(t, s, "ok")
		assert.Equal(t, JobStatusSuccess, info.Status)
		assert.Equal(t, 1, info.Runs)
		assert.Equal(t, info.RunID, gotRunID)
		assert.NotNil(t, info.StartedAt)
		assert.NotNil(t, info.CompletedAt)
		assert.True(t, hasDeadline, "job context should carry the timeout")
	})

	t.Run("records failure", func(t *testing.T) {
		s, logs := newTestScheduler(t)
		require.NoError(t, s.Register("bad", "0 1 * * *", func(context.Context) error {
			return errors.New("db down")
		}))

		err := s.RunNow(ctx, "bad")
		require.EqualError(t, err, "db down")

		info := findInfo(t, s, "bad")
		assert.Equal(t, JobStatusFailed, info.Status)
		assert.Equal(t, "db down", info.Error)
		assert.Equal(t, 1, logs.FilterMessage("job failed").Len())
	})

	t.Run("recovers panics", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		require.NoError(t, s.Register("boom", "0 1 * * *", func(context.Context) error {
			panic("nil map")
		}))

		err := s.RunNow(ctx, "boom")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
		assert.Equal(t, JobStatusFailed, findInfo(t, s, "boom").Status)
	})

	t.Run("unknown job", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		assert.ErrorIs(t, s.RunNow(ctx, "missing"), ErrJobNotFound)
	})
}

func TestScheduler_NoOverlap(t *testing.T) {
	s, logs := newTestScheduler(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	require.NoError(t, s.Register("slow", "0 1 * * *", func(context.Context) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}))

	done := make(chan error, 1)
	go func() { done <- s.RunNow(context.Background(), "slow") }()
	<-started

	assert.ErrorIs(t, s.RunNow(context.Background(), "slow"), ErrJobAlreadyRunning)
	assert.Equal(t, 1, logs.FilterMessage("job still running, tick skipped").Len())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, JobStatusSuccess, findInfo(t, s, "slow").Status)
}

func TestScheduler_StartStop(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.Register("nightly", "0 1 * * *", func(context.Context) error { return nil }))

	assert.ErrorIs(t, s.Stop(context.Background()), ErrSchedulerNotRunning)

	s.Start()
	s.Start()
	info := findInfo(t, s, "nightly")
	require.NotNil(t, info.NextRunAt)
	assert.Equal(t, 1, info.NextRunAt.Hour())

	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	s := New(cfg, nil)
	s.Start()
	assert.ErrorIs(t, s.Stop(context.Background()), ErrSchedulerNotRunning)
}

type mockLateFees struct{ mock.Mock }

func (m *mockLateFees) ApplyLateFees(ctx context.Context, session shared.Session) (int, error) {
	args := m.Called(ctx, session)
	return args.Int(0), args.Error(1)
}

type mockReminders struct{ mock.Mock }

func (m *mockReminders) SendMonthlyReminders(ctx context.Context, session shared.Session) (int, error) {
	args := m.Called(ctx, session)
	return args.Int(0), args.Error(1)
}

func TestRegisterDuesJobs(t *testing.T) {
	s, _ := newTestScheduler(t)
	lateFees := new(mockLateFees)
	reminders := new(mockReminders)

	lateFees.On("ApplyLateFees", mock.Anything, shared.SystemSession()).Return(3, nil).Once()
	reminders.On("SendMonthlyReminders", mock.Anything, shared.SystemSession()).Return(0, errors.New("smtp")).Once()

	jobs, err := RegisterDuesJobs(s, DuesJobSpecs{LateFee: "0 1 * * *", Reminder: "0 9 10 * *"}, lateFees, reminders)
	require.NoError(t, err)
	require.NotNil(t, jobs)

	assert.NoError(t, s.RunNow(context.Background(), JobLateFees))
	assert.EqualError(t, s.RunNow(context.Background(), JobMonthlyReminder), "smtp")

	lateFees.AssertExpectations(t)
	reminders.AssertExpectations(t)

	_, err = RegisterDuesJobs(s, DuesJobSpecs{LateFee: "0 1 * * *", Reminder: "0 9 10 * *"}, lateFees, reminders)
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestDuesJobs_ApplyLateFees(t *testing.T) {
	specs := DuesJobSpecs{LateFee: "0 1 * * *", Reminder: "0 9 10 * *"}
	admin := shared.NewSession(uuid.New(), "yonetici@example.com", shared.RoleAdmin)

	t.Run("manual run keeps the caller session and records a run", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		lateFees := new(mockLateFees)
		lateFees.On("ApplyLateFees", mock.Anything, admin).Return(4, nil).Once()

		jobs, err := RegisterDuesJobs(s, specs, lateFees, new(mockReminders))
		require.NoError(t, err)

		n, err := jobs.ApplyLateFees(context.Background(), admin)
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		info := findInfo(t, s, JobLateFees)
		assert.Equal(t, JobStatusSuccess, info.Status)
		assert.Equal(t, 1, info.Runs)
		lateFees.AssertExpectations(t)
	})

	t.Run("failure keeps the partial count", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		lateFees := new(mockLateFees)
		lateFees.On("ApplyLateFees", mock.Anything, admin).Return(2, errors.New("connection refused")).Once()

		jobs, err := RegisterDuesJobs(s, specs, lateFees, new(mockReminders))
		require.NoError(t, err)

		n, err := jobs.ApplyLateFees(context.Background(), admin)
		require.Error(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, JobStatusFailed, findInfo(t, s, JobLateFees).Status)
	})

	t.Run("overlapping the scheduled run is refused", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		started := make(chan struct{})
		release := make(chan struct{})
		lateFees := new(mockLateFees)
		lateFees.On("ApplyLateFees", mock.Anything, shared.SystemSession()).
			Run(func(mock.Arguments) {
				close(started)
				<-release
			}).
			Return(1, nil).Once()

		jobs, err := RegisterDuesJobs(s, specs, lateFees, new(mockReminders))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.RunNow(context.Background(), JobLateFees) }()
		<-started

		n, err := jobs.ApplyLateFees(context.Background(), admin)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Zero(t, n)

		close(release)
		require.NoError(t, <-done)
		lateFees.AssertNumberOfCalls(t, "ApplyLateFees", 1)
	})
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aidat/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the latest run
type JobStatus string

const (
	JobStatusIdle    JobStatus = "IDLE"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
	JobStatusSkipped JobStatus = "SKIPPED"
)

// JobFunc is the body of a scheduled job
type JobFunc func(ctx context.Context) error

// RunInfo describes the latest run of a job
type RunInfo struct {
	Name        string     `json:"name"`
	Spec        string     `json:"spec"`
	Status      JobStatus  `json:"status"`
	RunID       string     `json:"run_id,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	Runs        int        `json:"runs"`
}

type job struct {
	name    string
	spec    string
	fn      JobFunc
	entryID cron.EntryID

	guard sync.Mutex // held for the duration of a run
	mu    sync.Mutex
	info  RunInfo
}

// Config holds scheduler configuration
type Config struct {
	Enabled    bool
	JobTimeout time.Duration
	Location   *time.Location
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		JobTimeout: 10 * time.Minute,
		Location:   time.Local,
	}
}

// Scheduler runs named jobs on cron specs. A job never overlaps itself:
// a tick that fires while the previous run is still going is skipped.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*job
	isRunning bool
	now       func() time.Time
}

// New creates a scheduler. Jobs are registered with Register before Start.
func New(config Config, log *zap.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scheduler")
	return &Scheduler{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cronLogger{log.Sugar()}),
		),
		logger: log,
		jobs:   make(map[string]*job),
		now:    time.Now,
	}
}

// Register adds a job under a unique name using a standard 5-field cron spec
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("%w: job needs a name and a function", ErrInvalidConfig)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{name: name, spec: spec, fn: fn, info: RunInfo{Name: name, Spec: spec, Status: JobStatusIdle}}
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.run(context.Background(), j, j.fn); err != nil && !errors.Is(err, ErrJobAlreadyRunning) {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%w: job %s spec %q: %v", ErrInvalidConfig, name, spec, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start starts the cron loop. It is a no-op when disabled or already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("scheduler disabled")
		return
	}
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.cron.Start()

	for _, j := range s.jobs {
		s.logger.Info("job scheduled",
			zap.String("job", j.name),
			zap.String("spec", j.spec),
			zap.Time("next_run", s.cron.Entry(j.entryID).Next),
		)
	}
}

// Stop stops scheduling and waits for running jobs, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.isRunning = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow runs a job immediately, outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	j, err := s.job(name)
	if err != nil {
		return err
	}
	return s.run(ctx, j, j.fn)
}

// RunWith runs fn as a run of the named job. It shares the job's overlap
// guard and run info, so a manual trigger and the cron tick never overlap.
func (s *Scheduler) RunWith(ctx context.Context, name string, fn JobFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: job %s needs a function", ErrInvalidConfig, name)
	}
	j, err := s.job(name)
	if err != nil {
		return err
	}
	return s.run(ctx, j, fn)
}

func (s *Scheduler) job(name string) (*job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return j, nil
}

// Status returns the latest run info of every job
func (s *Scheduler) Status() []RunInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		info := j.info
		j.mu.Unlock()
		if s.isRunning {
			next := s.cron.Entry(j.entryID).Next
			if !next.IsZero() {
				info.NextRunAt = &next
			}
		}
		out = append(out, info)
	}
	return out
}

func (s *Scheduler) run(ctx context.Context, j *job, fn JobFunc) (err error) {
	if !j.guard.TryLock() {
		j.mu.Lock()
		j.info.Status = JobStatusSkipped
		j.mu.Unlock()
		s.logger.Warn("job still running, tick skipped", zap.String("job", j.name))
		return ErrJobAlreadyRunning
	}
	defer j.guard.Unlock()

	runID := uuid.NewString()
	ctx, log := logger.WithRequestID(ctx, s.logger.With(zap.String("job", j.name)), runID)
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	started := s.now()
	j.mu.Lock()
	j.info.Status = JobStatusRunning
	j.info.RunID = runID
	j.info.StartedAt = &started
	j.info.CompletedAt = nil
	j.info.Error = ""
	j.info.Runs++
	j.mu.Unlock()

	log.Info("job started")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
		}

		completed := s.now()
		j.mu.Lock()
		j.info.CompletedAt = &completed
		if err != nil {
			j.info.Status = JobStatusFailed
			j.info.Error = err.Error()
		} else {
			j.info.Status = JobStatusSuccess
		}
		j.mu.Unlock()

		if err != nil {
			log.Error("job failed", zap.Duration("duration", completed.Sub(started)), zap.Error(err))
			return
		}
		log.Info("job completed", zap.Duration("duration", completed.Sub(started)))
	}()

	return fn(ctx)
}

// cronLogger routes robfig/cron's internal logging to zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

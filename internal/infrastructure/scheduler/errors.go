package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when stopping a scheduler that never started
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobNotFound is returned when a job name is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyRunning is returned when a run overlaps the previous one
	ErrJobAlreadyRunning = errors.New("job already running")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)

package scheduler

import (
	"context"
	"errors"

	"github.com/aidat/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	JobLateFees        = "late-fees"
	JobMonthlyReminder = "monthly-reminder"
)

// ErrLateFeeRunInProgress is returned to a manual trigger that overlaps a run
var ErrLateFeeRunInProgress = shared.NewDomainError("CONCURRENCY_CONFLICT", "A late fee run is already in progress")

// LateFeeApplier applies late fees to every overdue due
type LateFeeApplier interface {
	ApplyLateFees(ctx context.Context, session shared.Session) (int, error)
}

// ReminderSender creates the monthly dues reminder notifications
type ReminderSender interface {
	SendMonthlyReminders(ctx context.Context, session shared.Session) (int, error)
}

// DuesJobSpecs holds the cron specs of the dues jobs
type DuesJobSpecs struct {
	LateFee  string
	Reminder string
}

// DuesJobs triggers the registered dues jobs on demand
type DuesJobs struct {
	sched    *Scheduler
	lateFees LateFeeApplier
}

// RegisterDuesJobs registers the nightly late-fee run and the monthly reminder.
// Scheduled runs use the system session.
func RegisterDuesJobs(s *Scheduler, specs DuesJobSpecs, lateFees LateFeeApplier, reminders ReminderSender) (*DuesJobs, error) {
	if err := s.Register(JobLateFees, specs.LateFee, func(ctx context.Context) error {
		n, err := lateFees.ApplyLateFees(ctx, shared.SystemSession())
		if err != nil {
			return err
		}
		s.logger.Info("late fees applied", zap.Int("dues", n))
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.Register(JobMonthlyReminder, specs.Reminder, func(ctx context.Context) error {
		n, err := reminders.SendMonthlyReminders(ctx, shared.SystemSession())
		if err != nil {
			return err
		}
		s.logger.Info("monthly reminders sent", zap.Int("notifications", n))
		return nil
	}); err != nil {
		return nil, err
	}
	return &DuesJobs{sched: s, lateFees: lateFees}, nil
}

// ApplyLateFees runs the late-fee job now on behalf of session. It fails with
// ErrLateFeeRunInProgress while the nightly run or another trigger is active.
func (d *DuesJobs) ApplyLateFees(ctx context.Context, session shared.Session) (int, error) {
	var updated int
	err := d.sched.RunWith(ctx, JobLateFees, func(ctx context.Context) error {
		n, err := d.lateFees.ApplyLateFees(ctx, session)
		updated = n
		return err
	})
	if errors.Is(err, ErrJobAlreadyRunning) {
		return 0, ErrLateFeeRunInProgress
	}
	return updated, err
}

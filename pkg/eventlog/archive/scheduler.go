package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs an Archiver on a cron schedule.
type Scheduler struct {
	archiver *Archiver
	schedule string
	cron     *cron.Cron
	entry    cron.EntryID
	ctx      context.Context
	mu       sync.Mutex
	logger   *slog.Logger
	started  bool
	stopped  bool
	running  bool
}

// NewScheduler creates a scheduler for archiver. schedule is a standard
// five-field cron expression:
//   - "0 3 * * *"    daily at 3 AM
//   - "0 */6 * * *"  every 6 hours
//   - "0 0 * * 0"    weekly on Sunday at midnight
//
// An empty schedule disables scheduling until Reschedule supplies one.
func NewScheduler(archiver *Archiver, schedule string) *Scheduler {
	logger := slog.Default().With("component", "eventlog.archive.scheduler")
	return &Scheduler{
		archiver: archiver,
		schedule: schedule,
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		)),
		logger: logger,
	}
}

// Start schedules archive runs until ctx is canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	s.ctx = ctx
	if s.schedule == "" {
		s.logger.Info("archive schedule not configured, waiting for one")
	} else if err := s.startCron(s.schedule); err != nil {
		return err
	}
	s.started = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Reschedule replaces the schedule. An empty schedule pauses archiving and a
// later non-empty one resumes it. The current entry is kept when schedule
// does not parse. Before Start the new schedule is only stored.
func (s *Scheduler) Reschedule(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == s.schedule {
		return nil
	}
	if schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
		}
	}
	if !s.started || s.stopped {
		s.schedule = schedule
		return nil
	}

	switch {
	case schedule == "":
		s.cron.Remove(s.entry)
		<-s.cron.Stop().Done()
		s.running = false
	case !s.running:
		if err := s.startCron(schedule); err != nil {
			return err
		}
	default:
		old := s.entry
		if err := s.addJob(schedule); err != nil {
			return err
		}
		s.cron.Remove(old)
	}

	s.logger.Info("archive schedule changed", "old", s.schedule, "new", schedule)
	s.schedule = schedule
	return nil
}

// startCron adds the job and starts the cron runner. Callers hold s.mu.
func (s *Scheduler) startCron(schedule string) error {
	if err := s.addJob(schedule); err != nil {
		return err
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("archive scheduler started", "schedule", schedule)
	return nil
}

func (s *Scheduler) addJob(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	ctx := s.ctx
	entry, err := s.cron.AddFunc(schedule, func() {
		s.runArchive(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule archive: %w", err)
	}
	s.entry = entry
	return nil
}

func (s *Scheduler) runArchive(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.logger.Info("starting scheduled archive")

	run, err := s.archiver.Archive(ctx)
	if err != nil {
		s.logger.Error("scheduled archive failed", "error", err)
		return
	}

	s.logger.Debug("scheduled archive completed",
		"run_id", run.ID,
		"files", len(run.Files),
	)
}

// Stop stops the scheduler and waits for a running archive to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("archive scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	entry := s.cron.Entry(s.entry)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules, e.g. re-indexing a game directory
// every hour and pruning old runs nightly.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "*/15 * * * *" - Every 15 minutes
type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler with no jobs.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
		logger:  logger.With("component", "catalog.scheduler"),
	}
}

// Add registers job under name. Jobs receive the context passed to Start.
// An empty schedule is ignored.
func (s *Scheduler) Add(ctx context.Context, name, schedule string, job Job) error {
	if schedule == "" {
		s.logger.Info("Schedule not configured, skipping job", "job", name)
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q for %s: %w", schedule, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s is already scheduled", name)
	}

	id, err := s.cron.AddFunc(schedule, func() { s.run(ctx, name, job) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.entries[name] = id

	s.logger.Info("Job scheduled", "job", name, "schedule", schedule)
	return nil
}

// Start begins running scheduled jobs. The scheduler stops when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || len(s.entries) == 0 {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", "jobs", len(s.entries))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

func (s *Scheduler) run(ctx context.Context, name string, job Job) {
	s.logger.Info("Starting scheduled job", "job", name)
	start := time.Now()

	if err := job(ctx); err != nil {
		s.logger.Error("Scheduled job failed", "job", name, "error", err)
		return
	}
	s.logger.Info("Scheduled job completed", "job", name, "duration", time.Since(start))
}

// Stop stops the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("Scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next run time of a job. It is only known while the
// scheduler is running.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return nil
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

// PruneJob returns a job keeping the newest keep runs of c.
func PruneJob(c *Catalog, keep int) Job {
	return func(ctx context.Context) error {
		_, err := c.Prune(ctx, keep)
		return err
	}
}

// Package scheduler runs the periodic background jobs: the release watcher
// and the periodic snapshot flush.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Job is a named unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context)
}

// Scheduler runs registered jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID

	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New() *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// Add schedules job. An empty schedule disables the job.
func (s *Scheduler) Add(schedule string, job Job) error {
	if schedule == "" {
		log.Printf("[SCHEDULER] %s: disabled", job.Name())
		return nil
	}
	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", schedule, job.Name(), err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.mu.RLock()
		ctx := s.ctx
		s.mu.RUnlock()
		job.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name(), err)
	}

	s.mu.Lock()
	s.entries[job.Name()] = entryID
	s.mu.Unlock()

	log.Printf("[SCHEDULER] %s: scheduled '%s' (%s)", job.Name(), schedule, DescribeSchedule(schedule))
	return nil
}

// Start runs the cron loop until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	cancelCtx := s.ctx
	s.cron.Start()
	s.isRunning = true
	s.mu.Unlock()

	log.Printf("[SCHEDULER] Started with %d job(s)", len(s.cron.Entries()))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()
}

// Stop stops accepting new runs and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	done := s.cron.Stop()
	<-done.Done()
	cancel()

	log.Printf("[SCHEDULER] Stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Jobs returns the names of the scheduled jobs in sorted order.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextRun returns when the named job will run next.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	id, ok := s.entries[name]
	if !ok {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

// ValidateSchedule checks a five-field cron expression or @descriptor.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// DescribeSchedule returns a human-readable description of a schedule.
func DescribeSchedule(schedule string) string {
	switch schedule {
	case "* * * * *", "@every 1m":
		return "Every minute"
	case "*/5 * * * *", "@every 5m":
		return "Every 5 minutes"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "0 * * * *", "@hourly":
		return "Every hour at :00"
	case "0 0 * * *", "@daily":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

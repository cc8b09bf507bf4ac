// Package scheduler runs the recurring refresh jobs: playlist rebuilds,
// guide reloads, and highlight updates on their configured cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/touchline-tv/touchline/internal/observability"
)

// JobFunc is the work a scheduled job performs. A returned error is
// logged; the job stays scheduled.
type JobFunc func(ctx context.Context) error

type job struct {
	name       string
	spec       string
	schedule   cron.Schedule
	run        JobFunc
	runOnStart bool

	next    time.Time
	running bool
}

// Scheduler fires registered jobs on their cron schedules. Each job runs
// at most once at a time; a tick that lands while the previous run is
// still in flight is skipped.
type Scheduler struct {
	mu sync.Mutex

	jobs   []*job
	logger *slog.Logger
	parser cron.Parser

	tickInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an empty scheduler.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger:       observability.WithComponent(logger, "scheduler"),
		parser:       cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		tickInterval: time.Second,
	}
}

// Register adds a named job with a cron schedule. When runOnStart is set
// the job also fires once as soon as the scheduler starts.
func (s *Scheduler) Register(name, spec string, runOnStart bool, run JobFunc) error {
	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid cron expression for %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return fmt.Errorf("scheduler already started")
	}
	s.jobs = append(s.jobs, &job{
		name:       name,
		spec:       spec,
		schedule:   schedule,
		run:        run,
		runOnStart: runOnStart,
	})
	return nil
}

// Start begins the tick loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return fmt.Errorf("scheduler already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	now := time.Now()
	for _, j := range s.jobs {
		j.next = j.schedule.Next(now)
		if j.runOnStart {
			s.fire(j)
		}
	}

	s.wg.Add(1)
	go s.loop()

	s.logger.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels the tick loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.ctx = nil
	s.cancel = nil
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if now.Before(j.next) {
			continue
		}
		j.next = j.schedule.Next(now)
		s.fire(j)
	}
}

// fire starts a job run. Callers hold s.mu.
func (s *Scheduler) fire(j *job) {
	if j.running {
		s.logger.Debug("skipping overlapping run", slog.String("job", j.name))
		return
	}
	j.running = true

	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		start := time.Now()
		err := j.run(ctx)

		s.mu.Lock()
		j.running = false
		s.mu.Unlock()

		if err != nil {
			s.logger.Error("scheduled job failed",
				slog.String("job", j.name),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err))
			return
		}
		s.logger.Debug("scheduled job finished",
			slog.String("job", j.name),
			slog.Duration("duration", time.Since(start)))
	}()
}

// NextRun returns the next scheduled run of a job, or the zero time when
// no job with that name is registered.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name == name {
			return j.next
		}
	}
	return time.Time{}
}

// ValidateCron checks a cron expression against the scheduler's parser.
func (s *Scheduler) ValidateCron(expr string) error {
	_, err := s.parser.Parse(expr)
	return err
}

package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// SessionPurger drops expired sessions and reports how many it dropped
type SessionPurger interface {
	CleanExpiredSessions() int
}

// Scheduler runs periodic housekeeping jobs for the server
type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

// New creates a scheduler that purges expired sessions every interval
func New(sessions SessionPurger, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := sessions.CleanExpiredSessions(); removed > 0 {
				logger.Info("expired sessions purged", slog.Int("removed", removed))
			}
		}),
		gocron.WithName("purge-expired-sessions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule session purge: %w", err)
	}

	return &Scheduler{sched: sched, logger: logger}, nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.sched.Jobs())))
}

// Shutdown stops the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

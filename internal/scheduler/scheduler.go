package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/omarshaarawi/fantraxbot/internal/service"
)

// Scheduler drives the lineup manager on a fixed interval. One cycle runs at
// a time: if a cycle overruns the interval the next run is rescheduled rather
// than stacked, so there is never more than one writer of the roster.
type Scheduler struct {
	s       gocron.Scheduler
	manager *service.Manager
}

func NewScheduler(manager *service.Manager) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:       s,
		manager: manager,
	}, nil
}

func (s *Scheduler) Start(interval time.Duration) error {
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.runCycle),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create lineup job: %w", err)
	}

	s.s.Start()
	return nil
}

// Stop shuts the scheduler down, letting an in-flight cycle finish first.
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) runCycle() {
	if err := s.manager.RunCycle(); err != nil {
		slog.Error("Lineup cycle failed, retrying next tick", "error", err)
	}
}

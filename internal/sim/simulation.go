// Package sim drives registered systems with a fixed-step clock.
package sim

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/system"
)

// Simulation advances a Manager one fixed step per tick of the wall clock.
// Systems only ever see clock time, so a slow host runs late rather than
// taking larger steps.
type Simulation struct {
	id       uuid.UUID
	manager  *system.Manager
	clock    *system.Clock
	duration time.Duration
	logger   log.Log
}

// New creates a simulation at tickRate steps per second. A positive
// duration stops Run once that much simulated time has passed.
func New(manager *system.Manager, tickRate int, duration time.Duration, logger log.Log) *Simulation {
	if logger == nil {
		logger = log.NewNop()
	}
	id := uuid.New()
	return &Simulation{
		id:       id,
		manager:  manager,
		clock:    system.NewClock(tickRate),
		duration: duration,
		logger:   logger.With(log.String("component", "simulation"), log.String("run", id.String())),
	}
}

func (s *Simulation) ID() uuid.UUID        { return s.id }
func (s *Simulation) Clock() *system.Clock { return s.clock }

// Step advances the clock once and updates every system.
func (s *Simulation) Step() error {
	dt, now := s.clock.Advance()
	return s.manager.Update(dt, now)
}

// Done reports whether the configured duration has elapsed.
func (s *Simulation) Done() bool {
	return s.duration > 0 && s.clock.TotalTime() >= s.duration
}

// Run initializes all systems, steps until ctx is cancelled or the duration
// elapses, then shuts the systems down. Step errors are logged and do not
// stop the run.
func (s *Simulation) Run(ctx context.Context) error {
	if err := s.manager.InitializeAll(ctx); err != nil {
		return err
	}
	s.logger.Info("simulation started",
		log.Duration("step", s.clock.Step()),
		log.Duration("duration", s.duration),
		log.Any("systems", s.manager.GetExecutionOrder()),
	)

	ticker := time.NewTicker(s.clock.Step())
	defer ticker.Stop()

loop:
	for !s.Done() {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if err := s.Step(); err != nil {
				s.logger.Warn("simulation step failed", log.Int64("frame", s.clock.FrameCount()), log.Error(err))
			}
		}
	}

	s.logger.Info("simulation stopped",
		log.Int64("frames", s.clock.FrameCount()),
		log.Duration("simulated", s.clock.TotalTime()),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.manager.ShutdownAll(shutdownCtx)
}

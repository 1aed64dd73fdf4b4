package monitor

import (
  "context"
  "errors"
  "sync/atomic"
  "time"

  log "github.com/sirupsen/logrus"
)

var ErrBusy = errors.New("check already in progress")

type runner interface {
  RunCycle(ctx context.Context) error
}

// Scheduler drives the periodic checks. At most one cycle runs at a
// time: ticks and manual triggers arriving mid-cycle are dropped, never
// queued.
type Scheduler struct {
  runner   runner
  interval time.Duration
  inFlight atomic.Bool
}

func NewScheduler(runner runner, interval time.Duration) *Scheduler {
  return &Scheduler{
    runner:   runner,
    interval: interval,
  }
}

// Start runs a first cycle immediately, then one per interval until the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
  log.
    WithField("scheduler.interval", s.interval).
    Infof("scheduler: started")

  s.run(ctx)

  ticker := time.NewTicker(s.interval)
  defer ticker.Stop()

  for {
    select {
    case <-ctx.Done():
      log.Warnf("scheduler: context cancelled: stopped")
      return

    case <-ticker.C:
      s.run(ctx)
    }
  }
}

// Trigger starts a cycle in the background. Returns ErrBusy when one is
// already running.
func (s *Scheduler) Trigger(ctx context.Context) error {
  if !s.inFlight.CompareAndSwap(false, true) {
    return ErrBusy
  }

  go func() {
    defer s.inFlight.Store(false)

    if err := s.runner.RunCycle(ctx); err != nil {
      log.Errorf("scheduler: triggered cycle: %v", err)
    }
  }()

  return nil
}

func (s *Scheduler) run(ctx context.Context) {
  if !s.inFlight.CompareAndSwap(false, true) {
    log.Warnf("scheduler: previous cycle still running: tick skipped")
    return
  }
  defer s.inFlight.Store(false)

  if err := s.runner.RunCycle(ctx); err != nil {
    log.Errorf("scheduler: cycle: %v", err)
  }
}

package monitor

import (
  "context"
  "sync/atomic"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

type blockingRunner struct {
  started chan struct{}
  release chan struct{}
  runs    atomic.Int32
}

func newBlockingRunner() *blockingRunner {
  return &blockingRunner{
    started: make(chan struct{}, 1),
    release: make(chan struct{}),
  }
}

func (r *blockingRunner) RunCycle(_ context.Context) error {
  r.runs.Add(1)

  r.started <- struct{}{}
  <-r.release

  return nil
}

func TestTriggerDropsConcurrentRequests(t *testing.T) {
  runner := newBlockingRunner()
  scheduler := NewScheduler(runner, time.Hour)
  ctx := context.Background()

  require.NoError(t, scheduler.Trigger(ctx))

  <-runner.started

  // A second trigger while the first cycle runs is dropped, not queued.
  assert.ErrorIs(t, scheduler.Trigger(ctx), ErrBusy)
  assert.ErrorIs(t, scheduler.Trigger(ctx), ErrBusy)

  close(runner.release)

  assert.Eventually(t, func() bool {
    return scheduler.Trigger(ctx) == nil
  }, time.Second, 10*time.Millisecond)

  <-runner.started

  assert.Equal(t, int32(2), runner.runs.Load())
}

type countingRunner struct {
  runs atomic.Int32
}

func (r *countingRunner) RunCycle(_ context.Context) error {
  r.runs.Add(1)
  return nil
}

func TestSchedulerRunsImmediatelyThenOnTicks(t *testing.T) {
  runner := &countingRunner{}
  scheduler := NewScheduler(runner, 20*time.Millisecond)

  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()

  go scheduler.Start(ctx)

  // One run on start, then one per tick.
  assert.Eventually(t, func() bool {
    return runner.runs.Load() >= 3
  }, time.Second, 10*time.Millisecond)
}

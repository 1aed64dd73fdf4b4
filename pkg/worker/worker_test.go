package worker

import (
  "context"
  "sync/atomic"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
)

func TestPoolRunsCalls(t *testing.T) {
  ctx := context.Background()
  pool := NewPool(ctx, 3)

  var calls atomic.Int64

  for index := 0; index < 10; index++ {
    pool.Push(ctx, func(ctx context.Context) error {
      calls.Add(1)
      return nil
    })
  }
  pool.StopWait()

  assert.Equal(t, int64(10), calls.Load())
}

func TestPushReturnsAfterCancel(t *testing.T) {
  ctx, cancel := context.WithCancel(context.Background())
  pool := NewPool(ctx, 2)

  cancel()

  done := make(chan struct{})

  go func() {
    defer close(done)

    for index := 0; index < 5; index++ {
      pool.Push(ctx, func(ctx context.Context) error {
        return nil
      })
    }
  }()

  select {
  case <-done:
  case <-time.After(time.Second):
    t.Fatal("push blocked after context cancellation")
  }
}

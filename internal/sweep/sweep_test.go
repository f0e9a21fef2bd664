package sweep

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingStore struct {
	calls atomic.Int32
}

func (s *countingStore) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestWorkerSweepsRegisteredStores(t *testing.T) {
	store := &countingStore{}
	worker := NewWorker(5*time.Millisecond, zap.NewNop())
	worker.Register("workflows", store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for store.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker never swept the store")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

func TestSweepAllCoversEveryStore(t *testing.T) {
	first := &countingStore{}
	second := &countingStore{}
	worker := NewWorker(time.Hour, zap.NewNop())
	worker.Register("workflows", first)
	worker.Register("interviews", second)

	worker.sweepAll()

	if first.calls.Load() != 1 || second.calls.Load() != 1 {
		t.Fatalf("expected both stores swept, got %d and %d", first.calls.Load(), second.calls.Load())
	}
}

package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSchedulerRunsOnInterval(t *testing.T) {
	s := New(zerolog.Nop())

	var runs atomic.Int64
	if err := s.Start(20*time.Millisecond, func() { runs.Add(1) }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("only %d runs before deadline", runs.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	s.Stop()
	after := runs.Load()
	time.Sleep(60 * time.Millisecond)
	if runs.Load() != after {
		t.Error("job still firing after Stop")
	}
}

func TestSchedulerStopWaitsForJob(t *testing.T) {
	s := New(zerolog.Nop())

	started := make(chan struct{})
	var once sync.Once
	var done atomic.Bool
	err := s.Start(10*time.Millisecond, func() {
		once.Do(func() { close(started) })
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for a run to begin, then Stop must block until it finishes.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}
	s.Stop()
	if !done.Load() {
		t.Error("Stop returned before the running job completed")
	}
}

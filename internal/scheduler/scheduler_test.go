package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/domain"
	"github.com/hamed0406/fleetmon/internal/repo/memory"
)

// --- fakes ---

type fakeRunner struct {
	mu  sync.Mutex
	n   int
	err error
}

func (f *fakeRunner) RunPass(ctx context.Context) (*domain.PassReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return &domain.PassReport{
		StartedAt: time.Now().UTC(),
		Results:   []domain.CheckResult{{Host: "10.0.0.1", Reachable: f.n%2 == 0}},
	}, f.err
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

// --- tests ---

func TestScheduler_ImmediatePassIsSaved(t *testing.T) {
	runner := &fakeRunner{err: errors.New("dispatch 10.0.0.1 via mail: refused")}
	store := memory.New()
	s, err := New(zap.NewNop(), runner, "@every 1h", store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for runner.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}

	if runner.count() != 1 {
		t.Fatalf("want exactly the immediate pass, got %d", runner.count())
	}
	rep, err := store.Latest(context.Background())
	if err != nil || rep == nil {
		t.Fatalf("expected a saved report even when dispatch failed, got %v, %v", rep, err)
	}
	if len(rep.Results) != 1 || rep.Results[0].Host != "10.0.0.1" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestScheduler_CancelledBeforeStartRunsNothing(t *testing.T) {
	runner := &fakeRunner{}
	s, err := New(zap.NewNop(), runner, "*/5 * * * *", memory.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
	if runner.count() != 0 {
		t.Fatalf("no pass expected on a cancelled context, got %d", runner.count())
	}
}

func TestNew_InvalidSpec(t *testing.T) {
	if _, err := New(zap.NewNop(), &fakeRunner{}, "every minute please", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

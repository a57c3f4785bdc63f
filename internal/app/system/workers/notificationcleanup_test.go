package workers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/committeehub/internal/app/system/workers"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (p *fakePruner) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return 3, p.err
}

func (p *fakePruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestNotificationCleanup_RunOnceUsesRetention(t *testing.T) {
	p := &fakePruner{}
	w := workers.NewNotificationCleanup(p, zap.NewNop(), time.Hour, 48*time.Hour)

	before := time.Now()
	w.RunOnce()

	if p.calls() != 1 {
		t.Fatalf("calls = %d, want 1", p.calls())
	}
	want := before.Add(-48 * time.Hour)
	if d := p.cutoffs[0].Sub(want); d < 0 || d > time.Minute {
		t.Errorf("cutoff = %v, want about %v", p.cutoffs[0], want)
	}
}

func TestNotificationCleanup_ErrorIsLoggedNotFatal(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	w := workers.NewNotificationCleanup(p, zap.NewNop(), time.Hour, time.Hour)
	w.RunOnce()
	if p.calls() != 1 {
		t.Errorf("calls = %d, want 1", p.calls())
	}
}

func TestNotificationCleanup_StartStopLeaksNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := &fakePruner{}
	w := workers.NewNotificationCleanup(p, zap.NewNop(), 5*time.Millisecond, time.Hour)
	w.Start()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if p.calls() == 0 {
		t.Error("worker never ran")
	}
}

package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSyncer struct{ n atomic.Int32 }

func (c *countingSyncer) SyncNow(context.Context) (bool, error) {
	c.n.Add(1)
	return true, nil
}

func TestProcessorLifecycle(t *testing.T) {
	ctx := context.Background()
	s := &countingSyncer{}
	p := NewProcessor(s, 10*time.Millisecond)

	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(ctx); err == nil {
		t.Fatalf("expected error on double start")
	}
	if !p.IsRunning() {
		t.Fatalf("expected running")
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.n.Load() < 3 {
		t.Fatalf("syncer ran %d times", s.n.Load())
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if p.IsRunning() {
		t.Fatalf("expected stopped")
	}
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("second stop: %v", err)
	}

	// restartable
	if err := p.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	p.Stop(stopCtx)
}

func TestNewProcessorDefaultsInterval(t *testing.T) {
	if p := NewProcessor(&countingSyncer{}, 0); p.interval != DefaultInterval {
		t.Fatalf("interval = %v", p.interval)
	}
}

package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Syncer is the unit of work run by the Processor on every tick.
type Syncer interface {
	SyncNow(ctx context.Context) (bool, error)
}

// DefaultInterval is used when a Processor is created with a non-positive
// interval.
const DefaultInterval = 5 * time.Minute

// Processor runs a Syncer periodically. It backs up the AMQP path when
// notifications are lost and drives the mirror when no broker is configured.
type Processor struct {
	syncer   Syncer
	interval time.Duration

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewProcessor(syncer Syncer, interval time.Duration) *Processor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Processor{syncer: syncer, interval: interval}
}

// Start begins the processing loop. Returns an error if already running.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Sync processor started", "interval", p.interval)
	return nil
}

// Stop signals the loop and waits for it to finish or for ctx to expire.
func (p *Processor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Process immediately on startup
	p.tick(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Processor) tick(ctx context.Context) {
	wrote, err := p.syncer.SyncNow(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
		return
	}
	if wrote {
		slog.DebugContext(ctx, "Periodic sync wrote summary")
	}
}

package worker

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"terapis/internal/amqp"
	"terapis/internal/core"
	"terapis/internal/export"
	"terapis/internal/ledger"
	"terapis/internal/sheets"
)

// SyncWorker mirrors the persisted ledger to a spreadsheet summary.
// It always reads the latest persisted collection, so replayed or
// out-of-order notifications converge on the same sheet content.
type SyncWorker struct {
	persister ledger.Persister
	sheets    sheets.SummaryWriter
	locale    core.Locale
	now       func() time.Time

	mu         sync.Mutex
	lastDigest [sha256.Size]byte
	synced     bool
}

func NewSyncWorker(persister ledger.Persister, writer sheets.SummaryWriter, locale core.Locale) *SyncWorker {
	return &SyncWorker{
		persister: persister,
		sheets:    writer,
		locale:    locale,
		now:       time.Now,
	}
}

// HandleLedgerSaved processes a single change notification from AMQP.
func (w *SyncWorker) HandleLedgerSaved(ctx context.Context, msg *amqp.LedgerSavedMessage) error {
	slog.InfoContext(ctx, "Processing ledger saved message",
		"key", msg.Key,
		"version", msg.Version,
		"count", msg.Count)

	if _, err := w.SyncNow(ctx); err != nil {
		return fmt.Errorf("sync ledger %s: %w", msg.Key, err)
	}
	return nil
}

// SyncNow writes the summary of the persisted collection unless the same
// content was already written. It reports whether a write happened.
func (w *SyncWorker) SyncNow(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, ok, err := w.persister.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load ledger: %w", err)
	}
	if !ok {
		data = nil
	}

	digest := sha256.Sum256(data)
	if w.synced && digest == w.lastDigest {
		slog.DebugContext(ctx, "Ledger unchanged since last sync, skipping")
		return false, nil
	}

	res, err := ledger.Decode(data)
	if err != nil {
		return false, fmt.Errorf("decode ledger: %w", err)
	}
	for _, reason := range res.Skipped {
		slog.WarnContext(ctx, "Skipping invalid stored record", "reason", reason)
	}

	summary := export.NewSummary(res.Items, w.now(), w.locale)
	ref, err := w.sheets.WriteSummary(ctx, summary)
	if err != nil {
		return false, fmt.Errorf("write summary: %w", err)
	}

	w.lastDigest = digest
	w.synced = true

	slog.InfoContext(ctx, "Successfully synced summary",
		"sheets_ref", ref,
		"records", len(res.Items),
		"therapists", len(summary.Rows))
	return true, nil
}

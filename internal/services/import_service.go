package services

import (
	"context"
	"fmt"
	"log/slog"

	"terapis/internal/core"
	"terapis/internal/ledger"
)

// ImportResult reports what a legacy import did.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Reasons  []string `json:"reasons,omitempty"`
}

// ImportLegacy appends the records of an exported payload (canonical or the
// older Indonesian-keyed shape) to the ledger in one persisted mutation.
// Invalid elements are skipped and reported; stored commissions are
// recomputed. Every imported record receives a fresh identity.
func (s *TransactionService) ImportLegacy(ctx context.Context, payload []byte) (ImportResult, error) {
	res, err := ledger.Decode(payload)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import legacy payload: %w", err)
	}

	out := ImportResult{Imported: len(res.Items), Skipped: len(res.Skipped)}
	for _, reason := range res.Skipped {
		out.Reasons = append(out.Reasons, reason.Error())
	}
	if len(res.Items) == 0 {
		return out, nil
	}

	incoming := make([]core.Transaction, len(res.Items))
	for i, t := range res.Items {
		t.ID = core.NewID()
		incoming[i] = t
	}

	rev, err := s.store.Apply(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		return append(items, incoming...), nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import legacy payload: %w", err)
	}

	slog.InfoContext(ctx, "Legacy payload imported",
		"imported", out.Imported,
		"skipped", out.Skipped)
	s.publish(ctx, rev)
	return out, nil
}

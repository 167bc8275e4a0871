package sheets

import (
	"context"

	"terapis/internal/export"
)

// Ports for outbound adapters.
type (
	// SummaryWriter mirrors a rendered summary to a spreadsheet and returns
	// a reference to the written range.
	SummaryWriter interface {
		WriteSummary(ctx context.Context, s export.Summary) (rangeRef string, err error)
	}
)

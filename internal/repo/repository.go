package repo

import (
	"context"

	"github.com/hamed0406/fleetmon/internal/domain"
)

// ReportStore keeps the most recent pass report. It is not a history:
// Save replaces whatever was there.
type ReportStore interface {
	Save(ctx context.Context, r *domain.PassReport) error
	// Latest returns nil, nil before the first pass completes.
	Latest(ctx context.Context) (*domain.PassReport, error)
}

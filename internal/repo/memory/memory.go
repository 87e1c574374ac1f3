package memory

import (
	"context"
	"sync"

	"github.com/hamed0406/fleetmon/internal/domain"
	"github.com/hamed0406/fleetmon/internal/repo"
)

var _ repo.ReportStore = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	latest *domain.PassReport
}

func New() *Store {
	return &Store{}
}

func (m *Store) Save(ctx context.Context, r *domain.PassReport) error {
	if r == nil {
		return nil
	}
	cp := clone(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	// a slow pass finishing late must not hide a newer one
	if m.latest != nil && cp.StartedAt.Before(m.latest.StartedAt) {
		return nil
	}
	m.latest = cp
	return nil
}

func (m *Store) Latest(ctx context.Context) (*domain.PassReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return nil, nil
	}
	return clone(m.latest), nil
}

func clone(r *domain.PassReport) *domain.PassReport {
	cp := *r
	cp.Results = append([]domain.CheckResult(nil), r.Results...)
	cp.Alerts = append([]domain.AlertOutcome(nil), r.Alerts...)
	return &cp
}

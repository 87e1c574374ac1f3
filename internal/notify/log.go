package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/domain"
)

// Log writes alerts to the logger. It is the channel of last resort when
// nothing external is configured, and it never fails.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, ev domain.AlertEvent) error {
	l.Logger.Warn("alert",
		zap.String("host", ev.Host.String()),
		zap.String("subject", ev.Subject),
		zap.String("message", ev.Message),
		zap.Time("created_at", ev.CreatedAt),
	)
	return nil
}

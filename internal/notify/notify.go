package notify

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/hamed0406/fleetmon/internal/domain"
)

// Notifier delivers one alert through an external channel. Delivery
// failures are returned, never panicked, so the caller can log and move on.
type Notifier interface {
	Send(ctx context.Context, ev domain.AlertEvent) error
}

// DispatchError is a failed delivery of the alert for Host over Channel.
type DispatchError struct {
	Host    domain.Host
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s via %s: %v", e.Host, e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Multi sends to every channel, even after one fails, and combines the errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, ev domain.AlertEvent) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, ev))
	}
	return errs
}

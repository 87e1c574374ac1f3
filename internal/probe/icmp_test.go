package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamed0406/fleetmon/internal/domain"
)

func TestICMPChecker_InvalidHostIsUnreachable(t *testing.T) {
	chk := NewICMPChecker(200*time.Millisecond, false)
	for _, h := range []domain.Host{"", "   ", "https://example.com", "bad host"} {
		out := chk.Check(context.Background(), h)
		if out.Reachable {
			t.Fatalf("%q: want unreachable", h)
		}
		var pe *ProbeError
		if !errors.As(out.Err, &pe) || pe.Class != ClassInvalidName {
			t.Fatalf("%q: want INVALID_NAME ProbeError, got %v", h, out.Err)
		}
	}
}

func TestNewICMPChecker_DefaultsTimeout(t *testing.T) {
	if got := NewICMPChecker(0, false).Timeout; got != defaultTimeout {
		t.Fatalf("want default timeout %v, got %v", defaultTimeout, got)
	}
}

package probe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hamed0406/fleetmon/internal/domain"
)

const (
	ModeICMP = "icmp"
	ModeTCP  = "tcp"
	ModeAny  = "any"
)

const defaultTimeout = 2 * time.Second

// Checker performs a single reachability probe against a host.
//
// Network failure is the common case, not an exceptional one: implementations
// report it as Reachable=false with a Reason and never return an error.
type Checker interface {
	Check(ctx context.Context, host domain.Host) domain.CheckResult
}

// ProbeError describes why a probe got no response.
type ProbeError struct {
	Host  domain.Host
	Op    string // resolve | icmp | tcp
	Class string // resolver classification, empty for transport errors
	Err   error
}

func (e *ProbeError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Host, e.Class, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Host, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Options selects and tunes the checker built by New.
type Options struct {
	Mode       string
	Timeout    time.Duration
	Privileged bool
	TCPPort    int
}

// New builds the checker for a probe mode. "any" tries ICMP first and falls
// back to a TCP connect, so hosts that filter echo requests still count as up.
func New(o Options) (Checker, error) {
	icmp := NewICMPChecker(o.Timeout, o.Privileged)
	tcp := NewTCPChecker(o.Timeout, o.TCPPort)
	switch o.Mode {
	case "", ModeICMP:
		return icmp, nil
	case ModeTCP:
		return tcp, nil
	case ModeAny:
		return NewAnyChecker(icmp, tcp), nil
	default:
		return nil, fmt.Errorf("probe: unknown mode %q", o.Mode)
	}
}

func up(host domain.Host, start time.Time, reason string) domain.CheckResult {
	return domain.CheckResult{
		Host:      host,
		Reachable: true,
		LatencyMS: sinceMS(start),
		Reason:    reason,
		CheckedAt: time.Now().UTC(),
	}
}

func down(host domain.Host, start time.Time, err error) domain.CheckResult {
	return domain.CheckResult{
		Host:      host,
		Reachable: false,
		LatencyMS: sinceMS(start),
		Reason:    err.Error(),
		CheckedAt: time.Now().UTC(),
		Err:       err,
	}
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

func portOrDefault(p int) string {
	if p <= 0 || p > 65535 {
		p = 22
	}
	return strconv.Itoa(p)
}

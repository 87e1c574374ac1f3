package probe

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/fleetmon/internal/domain"
)

var errNoCheckers = errors.New("no checkers configured")

// AnyChecker runs its checkers in order and reports the first reachable
// result. A host is unreachable only when every checker says so.
//
// When ctx carries a deadline, each checker gets an even share of the time
// still left, so a checker that waits out its timeout (ICMP against a host
// that drops echo requests) leaves room for the ones after it.
type AnyChecker struct {
	Checkers []Checker
}

func NewAnyChecker(checkers ...Checker) *AnyChecker {
	return &AnyChecker{Checkers: checkers}
}

func (a *AnyChecker) Check(ctx context.Context, host domain.Host) domain.CheckResult {
	start := time.Now()
	if len(a.Checkers) == 0 {
		return down(host, start, &ProbeError{Host: host, Op: "any", Err: errNoCheckers})
	}

	var (
		reasons []string
		errs    error
	)
	for i, c := range a.Checkers {
		res := checkWithShare(ctx, c, host, len(a.Checkers)-i)
		if res.Reachable {
			return res
		}
		reasons = append(reasons, res.Reason)
		errs = multierr.Append(errs, res.Err)
	}
	return domain.CheckResult{
		Host:      host,
		Reachable: false,
		LatencyMS: sinceMS(start),
		Reason:    strings.Join(reasons, "; "),
		CheckedAt: time.Now().UTC(),
		Err:       errs,
	}
}

func checkWithShare(ctx context.Context, c Checker, host domain.Host, remaining int) domain.CheckResult {
	deadline, ok := ctx.Deadline()
	if !ok || remaining <= 1 {
		return c.Check(ctx, host)
	}
	share := time.Until(deadline) / time.Duration(remaining)
	sctx, cancel := context.WithTimeout(ctx, share)
	defer cancel()
	return c.Check(sctx, host)
}

package probe

import (
	"context"
	"errors"
	"net"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/hamed0406/fleetmon/internal/domain"
)

var errNoReply = errors.New("no echo reply before timeout")

// ICMPChecker sends one echo request per check.
//
// Unprivileged mode uses UDP ping sockets, which on Linux requires the
// process group to be inside net.ipv4.ping_group_range. Privileged mode
// needs raw socket capability. Either way a socket error is reported as
// unreachable.
type ICMPChecker struct {
	Timeout    time.Duration
	Privileged bool
	Resolver   *net.Resolver
}

func NewICMPChecker(timeout time.Duration, privileged bool) *ICMPChecker {
	return &ICMPChecker{
		Timeout:    timeoutOrDefault(timeout),
		Privileged: privileged,
	}
}

func (c *ICMPChecker) Check(ctx context.Context, host domain.Host) domain.CheckResult {
	start := time.Now()
	timeout := timeoutOrDefault(c.Timeout)
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return down(host, start, &ProbeError{Host: host, Op: "icmp", Err: context.DeadlineExceeded})
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, _ := splitHost(host)
	addr, err := resolve(ctx, c.Resolver, host, name)
	if err != nil {
		return down(host, start, err)
	}

	pinger, err := probing.NewPinger(addr)
	if err != nil {
		return down(host, start, &ProbeError{Host: host, Op: "icmp", Err: err})
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(c.Privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return down(host, start, &ProbeError{Host: host, Op: "icmp", Err: err})
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return down(host, start, &ProbeError{Host: host, Op: "icmp", Err: errNoReply})
	}

	res := up(host, start, "echo reply from "+addr)
	res.LatencyMS = float64(stats.AvgRtt.Microseconds()) / 1000
	return res
}

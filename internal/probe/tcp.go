package probe

import (
	"context"
	"net"
	"time"

	"github.com/hamed0406/fleetmon/internal/domain"
)

// TCPChecker treats a completed TCP handshake as proof of life. The port
// comes from the host identifier ("10.0.0.1:443") or DefaultPort.
type TCPChecker struct {
	Timeout     time.Duration
	DefaultPort string
	Resolver    *net.Resolver
}

func NewTCPChecker(timeout time.Duration, port int) *TCPChecker {
	return &TCPChecker{
		Timeout:     timeoutOrDefault(timeout),
		DefaultPort: portOrDefault(port),
	}
}

func (c *TCPChecker) Check(ctx context.Context, host domain.Host) domain.CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeoutOrDefault(c.Timeout))
	defer cancel()

	name, port := splitHost(host)
	if port == "" {
		port = c.DefaultPort
	}
	addr, err := resolve(ctx, c.Resolver, host, name)
	if err != nil {
		return down(host, start, err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(addr, port))
	if err != nil {
		return down(host, start, &ProbeError{Host: host, Op: "tcp", Err: err})
	}
	_ = conn.Close()
	return up(host, start, "tcp connect "+net.JoinHostPort(addr, port))
}

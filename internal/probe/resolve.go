package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/hamed0406/fleetmon/internal/domain"
)

// Resolver failure classes, carried in ProbeError.Class.
const (
	ClassInvalidName       = "INVALID_NAME"
	ClassNXDomain          = "NXDOMAIN"
	ClassNoAddress         = "NO_A_RECORD"
	ClassServfailOrTimeout = "SERVFAIL_or_TIMEOUT"
)

var (
	errInvalidName = errors.New("not a host name or address")
	errNoAddress   = errors.New("no A/AAAA records")
)

// splitHost separates an optional ":port" suffix from a host identifier.
// Bracketed IPv6 literals are unwrapped.
func splitHost(h domain.Host) (name, port string) {
	s := strings.TrimSpace(string(h))
	if host, p, err := net.SplitHostPort(s); err == nil && isPort(p) {
		return host, p
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"), ""
}

// resolve returns one IP address for name. IP literals are returned as-is;
// names go through r under ctx so lookups share the probe deadline.
func resolve(ctx context.Context, r *net.Resolver, host domain.Host, name string) (string, error) {
	if name == "" || strings.Contains(name, "://") || strings.ContainsAny(name, " /") {
		return "", &ProbeError{Host: host, Op: "resolve", Class: ClassInvalidName, Err: errInvalidName}
	}
	if ip := net.ParseIP(name); ip != nil {
		return ip.String(), nil
	}
	if r == nil {
		r = net.DefaultResolver
	}

	addrs, err := r.LookupIPAddr(ctx, name)
	if err != nil {
		return "", &ProbeError{Host: host, Op: "resolve", Class: classifyDNS(err), Err: err}
	}
	if len(addrs) == 0 {
		return "", &ProbeError{Host: host, Op: "resolve", Class: ClassNoAddress, Err: errNoAddress}
	}
	return addrs[0].IP.String(), nil
}

func isPort(p string) bool {
	n, err := strconv.Atoi(p)
	return err == nil && n > 0 && n <= 65535
}

func classifyDNS(err error) string {
	var de *net.DNSError
	if errors.As(err, &de) && de.IsNotFound {
		return ClassNXDomain
	}
	return ClassServfailOrTimeout
}

package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/hamed0406/fleetmon/internal/domain"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	return ln
}

func TestTCPChecker_OpenPortIsReachable(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	chk := NewTCPChecker(time.Second, 22)
	out := chk.Check(context.Background(), domain.Host(ln.Addr().String()))
	if !out.Reachable {
		t.Fatalf("want reachable, got %+v", out)
	}
	if out.Err != nil {
		t.Fatalf("want no error on success, got %v", out.Err)
	}
	if out.CheckedAt.IsZero() {
		t.Fatalf("CheckedAt not set")
	}
}

func TestTCPChecker_DefaultPortUsedWhenHostHasNone(t *testing.T) {
	ln := listen(t)
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	chk := NewTCPChecker(time.Second, 22)
	chk.DefaultPort = port
	out := chk.Check(context.Background(), domain.Host("127.0.0.1"))
	if !out.Reachable {
		t.Fatalf("want reachable via default port %s, got %+v", port, out)
	}
}

func TestTCPChecker_ClosedPortIsUnreachable(t *testing.T) {
	ln := listen(t)
	addr := ln.Addr().String()
	ln.Close()

	chk := NewTCPChecker(time.Second, 22)
	out := chk.Check(context.Background(), domain.Host(addr))
	if out.Reachable {
		t.Fatalf("want unreachable, got %+v", out)
	}
	var pe *ProbeError
	if !errors.As(out.Err, &pe) || pe.Op != "tcp" {
		t.Fatalf("want tcp ProbeError, got %v", out.Err)
	}
	if out.Reason == "" {
		t.Fatalf("want a reason on failure")
	}
}

func TestTCPChecker_HonoursTimeout(t *testing.T) {
	// 192.0.2.0/24 is TEST-NET-1; connects there either hang or fail fast.
	chk := NewTCPChecker(100*time.Millisecond, 9)
	start := time.Now()
	out := chk.Check(context.Background(), domain.Host("192.0.2.1"))
	if out.Reachable {
		t.Fatalf("TEST-NET address should not be reachable")
	}
	if el := time.Since(start); el > 2*time.Second {
		t.Fatalf("check took %v, timeout not applied", el)
	}
}

package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewAlertEvent_MentionsHostAndOffline(t *testing.T) {
	at := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	ev := NewAlertEvent(Host("10.0.0.1"), at)

	if !strings.Contains(ev.Message, "10.0.0.1") || !strings.Contains(ev.Message, "offline") {
		t.Fatalf("unexpected message: %q", ev.Message)
	}
	if ev.Subject != AlertSubject {
		t.Fatalf("want subject %q, got %q", AlertSubject, ev.Subject)
	}
	if ev.Host != "10.0.0.1" || !ev.CreatedAt.Equal(at) {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestPassReport_Counts(t *testing.T) {
	r := &PassReport{
		Results: []CheckResult{
			{Host: "a", Reachable: true},
			{Host: "b", Reachable: false},
			{Host: "c", Reachable: false},
			{Host: "d", Skipped: true},
		},
		Alerts: []AlertOutcome{
			{Host: "b", Delivered: true},
			{Host: "c", Delivered: false, Error: "smtp: connection refused"},
		},
	}
	if got := r.Unreachable(); got != 2 {
		t.Fatalf("want 2 unreachable, got %d", got)
	}
	if got := r.Skipped(); got != 1 {
		t.Fatalf("want 1 skipped, got %d", got)
	}
	if got := r.DispatchFailures(); got != 1 {
		t.Fatalf("want 1 dispatch failure, got %d", got)
	}

	empty := &PassReport{}
	if empty.Unreachable() != 0 || empty.DispatchFailures() != 0 {
		t.Fatalf("empty report should have zero counts")
	}
}

package domain

import (
	"fmt"
	"time"
)

// Host is a monitored endpoint: an IP address or name, optionally "name:port".
type Host string

func (h Host) String() string { return string(h) }

// CheckResult is the outcome of one probe against a Host.
type CheckResult struct {
	Host      Host      `json:"host"`
	Reachable bool      `json:"reachable"`
	Skipped   bool      `json:"skipped,omitempty"` // pass cancelled before a verdict
	LatencyMS float64   `json:"latency_ms,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	Err       error     `json:"-"`
}

const AlertSubject = "Fleet Alert"

// AlertEvent is created for every unreachable CheckResult and handed to a notifier.
type AlertEvent struct {
	Host      Host      `json:"host"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAlertEvent(h Host, at time.Time) AlertEvent {
	return AlertEvent{
		Host:      h,
		Subject:   AlertSubject,
		Message:   fmt.Sprintf("Fleet node %s is offline.", h),
		CreatedAt: at,
	}
}

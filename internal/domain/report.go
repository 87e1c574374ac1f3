package domain

import "time"

// AlertOutcome records what happened to the alert for one unreachable host.
type AlertOutcome struct {
	Host      Host   `json:"host"`
	Message   string `json:"message"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// PassReport is the record of one pass over the configured hosts.
// Results and Alerts follow configuration order.
type PassReport struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []CheckResult  `json:"results"`
	Alerts     []AlertOutcome `json:"alerts"`
}

func (r *PassReport) Unreachable() int {
	n := 0
	for _, res := range r.Results {
		if !res.Reachable && !res.Skipped {
			n++
		}
	}
	return n
}

func (r *PassReport) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}

func (r *PassReport) DispatchFailures() int {
	n := 0
	for _, a := range r.Alerts {
		if !a.Delivered {
			n++
		}
	}
	return n
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hamed0406/fleetmon/internal/domain"
)

type Slack struct {
	Webhook string
	Client  *http.Client
}

// NewSlack returns nil when no webhook is configured.
func NewSlack(webhook string) *Slack {
	if webhook == "" {
		return nil
	}
	return &Slack{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type slackPayload struct {
	Text string `json:"text"`
}

var errSlackDisabled = errors.New("slack disabled")

func (s *Slack) Send(ctx context.Context, ev domain.AlertEvent) error {
	fail := func(err error) error {
		return &DispatchError{Host: ev.Host, Channel: "slack", Err: err}
	}
	if s == nil || s.Webhook == "" {
		return fail(errSlackDisabled)
	}

	body, err := json.Marshal(slackPayload{Text: "*" + ev.Subject + "*\n" + ev.Message})
	if err != nil {
		return fail(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fail(fmt.Errorf("non-2xx status %d", resp.StatusCode))
	}
	return nil
}

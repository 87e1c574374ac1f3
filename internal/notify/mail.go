package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/mail.v2"

	"github.com/hamed0406/fleetmon/internal/domain"
)

// Dialer opens one SMTP session. *mail.Dialer satisfies it.
type Dialer interface {
	Dial() (mail.SendCloser, error)
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
	SSL      bool // implicit TLS; otherwise STARTTLS is mandatory
}

// Mail sends alerts over SMTP. Every Send owns its session: it dials, sends
// and quits, so concurrent sends never share a connection.
type Mail struct {
	From   string
	To     []string
	dialer Dialer
}

func NewMail(cfg MailConfig) *Mail {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	d.SSL = cfg.SSL
	if !cfg.SSL {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mail{From: from, To: cfg.To, dialer: d}
}

var errNoRecipients = errors.New("no recipients")

func (m *Mail) Send(ctx context.Context, ev domain.AlertEvent) (err error) {
	fail := func(stage string, cause error) error {
		return &DispatchError{Host: ev.Host, Channel: "mail", Err: fmt.Errorf("%s: %w", stage, cause)}
	}
	if len(m.To) == 0 {
		return fail("prepare", errNoRecipients)
	}
	if cerr := ctx.Err(); cerr != nil {
		return fail("prepare", cerr)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", m.To...)
	msg.SetHeader("Subject", ev.Subject)
	if !ev.CreatedAt.IsZero() {
		msg.SetDateHeader("Date", ev.CreatedAt)
	}
	msg.SetBody("text/plain", ev.Message)

	s, derr := m.dialer.Dial()
	if derr != nil {
		return fail("dial", derr)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fail("quit", cerr)
		}
	}()

	if serr := mail.Send(s, msg); serr != nil {
		return fail("send", serr)
	}
	return nil
}

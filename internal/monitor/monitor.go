package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/domain"
	"github.com/hamed0406/fleetmon/internal/notify"
	"github.com/hamed0406/fleetmon/internal/probe"
)

// Config is everything a pass needs to know up front. It is copied at
// construction; the Monitor holds no other state between passes.
type Config struct {
	Hosts        []domain.Host
	Concurrency  int
	ProbeTimeout time.Duration
}

type Monitor struct {
	logger   *zap.Logger
	cfg      Config
	checker  probe.Checker
	notifier notify.Notifier
	now      func() time.Time
}

func New(logger *zap.Logger, cfg Config, checker probe.Checker, notifier notify.Notifier) *Monitor {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 2 * time.Second
	}
	cfg.Hosts = append([]domain.Host(nil), cfg.Hosts...)
	return &Monitor{
		logger:   logger,
		cfg:      cfg,
		checker:  checker,
		notifier: notifier,
		now:      time.Now,
	}
}

func (m *Monitor) Hosts() []domain.Host {
	return append([]domain.Host(nil), m.cfg.Hosts...)
}

// RunPass checks every host once, in configuration order, and sends one
// alert per unreachable host. Nothing a single host does (failing to answer,
// failing to be notified about) stops the pass. The returned error combines
// every DispatchError of the pass and is nil when all alerts went out.
func (m *Monitor) RunPass(ctx context.Context) (*domain.PassReport, error) {
	rep := &domain.PassReport{StartedAt: m.now().UTC()}
	n := len(m.cfg.Hosts)
	results := make([]domain.CheckResult, n)
	alerts := make([]*domain.AlertOutcome, n)
	errs := make([]error, n)

	m.logger.Info("pass_started", zap.Int("hosts", n), zap.Int("concurrency", m.cfg.Concurrency))

	sem := make(chan struct{}, m.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, h := range m.cfg.Hosts {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			results[i], alerts[i], errs[i] = m.checkHost(ctx, h)
		}()
	}
	wg.Wait()

	rep.Results = results
	rep.Alerts = make([]domain.AlertOutcome, 0, n)
	for _, a := range alerts {
		if a != nil {
			rep.Alerts = append(rep.Alerts, *a)
		}
	}
	rep.FinishedAt = m.now().UTC()

	m.logger.Info("pass_finished",
		zap.Int("hosts", n),
		zap.Int("unreachable", rep.Unreachable()),
		zap.Int("skipped", rep.Skipped()),
		zap.Int("dispatch_failures", rep.DispatchFailures()),
		zap.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)),
	)
	return rep, multierr.Combine(errs...)
}

func (m *Monitor) checkHost(ctx context.Context, h domain.Host) (domain.CheckResult, *domain.AlertOutcome, error) {
	if err := ctx.Err(); err != nil {
		return m.skip(h, err), nil, nil
	}
	cctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	res := m.checker.Check(cctx, h)
	cancel()
	res.Host = h
	if res.CheckedAt.IsZero() {
		res.CheckedAt = m.now().UTC()
	}
	// A probe cut short by the pass being cancelled says nothing about the host.
	if err := ctx.Err(); err != nil && !res.Reachable {
		return m.skip(h, err), nil, nil
	}

	if res.Reachable {
		m.logger.Debug("host_reachable",
			zap.String("host", h.String()),
			zap.Float64("latency_ms", res.LatencyMS),
		)
		return res, nil, nil
	}

	m.logger.Info("host_unreachable",
		zap.String("host", h.String()),
		zap.String("reason", res.Reason),
	)

	ev := domain.NewAlertEvent(h, m.now().UTC())
	out := &domain.AlertOutcome{Host: h, Message: ev.Message, Delivered: true}
	err := m.dispatch(ctx, ev)
	if err != nil {
		out.Delivered = false
		out.Error = err.Error()
		m.logger.Warn("dispatch_failed",
			zap.String("host", h.String()),
			zap.String("channel", channelOf(err)),
			zap.Error(err),
		)
	}
	return res, out, err
}

func (m *Monitor) skip(h domain.Host, err error) domain.CheckResult {
	m.logger.Info("host_skipped", zap.String("host", h.String()), zap.Error(err))
	return domain.CheckResult{
		Host:      h,
		Skipped:   true,
		Reason:    "pass cancelled: " + err.Error(),
		CheckedAt: m.now().UTC(),
	}
}

func (m *Monitor) dispatch(ctx context.Context, ev domain.AlertEvent) error {
	err := m.notifier.Send(ctx, ev)
	if err == nil {
		return nil
	}
	var de *notify.DispatchError
	if errors.As(err, &de) {
		return err
	}
	return &notify.DispatchError{Host: ev.Host, Channel: "notifier", Err: err}
}

func channelOf(err error) string {
	var de *notify.DispatchError
	if errors.As(err, &de) {
		return de.Channel
	}
	return ""
}

package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/domain"
	"github.com/hamed0406/fleetmon/internal/repo"
)

// Runner performs one monitoring pass. *monitor.Monitor satisfies it.
type Runner interface {
	RunPass(ctx context.Context) (*domain.PassReport, error)
}

// Scheduler re-runs passes on a cron schedule and keeps the latest report.
type Scheduler struct {
	Logger *zap.Logger
	Runner Runner
	Store  repo.ReportStore
	Spec   string

	schedule cron.Schedule
}

// New accepts standard five-field specs and descriptors such as "@every 1m".
func New(logger *zap.Logger, runner Runner, spec string, store repo.ReportStore) (*Scheduler, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("scheduler: parse %q: %w", spec, err)
	}
	return &Scheduler{
		Logger:   logger,
		Runner:   runner,
		Store:    store,
		Spec:     spec,
		schedule: sched,
	}, nil
}

// Run does an immediate pass, then one per tick. A tick that arrives while
// a pass is still running is skipped. Stops when ctx is cancelled, after the
// running pass (if any) returns.
func (s *Scheduler) Run(ctx context.Context) {
	cl := cronLogger{s: s.Logger.Sugar()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.runOnce(ctx) }))

	// immediate pass
	s.runOnce(ctx)

	c.Start()
	s.Logger.Info("scheduler_started", zap.String("spec", s.Spec))
	<-ctx.Done()
	<-c.Stop().Done()
	s.Logger.Info("scheduler_stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rep, err := s.Runner.RunPass(ctx)
	if err != nil {
		s.Logger.Warn("pass_dispatch_errors", zap.Error(err))
	}
	if rep == nil || s.Store == nil {
		return
	}
	if err := s.Store.Save(context.WithoutCancel(ctx), rep); err != nil {
		s.Logger.Warn("report_save_error", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron_"+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron_"+msg, append(keysAndValues, "error", err)...)
}

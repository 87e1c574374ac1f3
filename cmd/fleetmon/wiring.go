package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/config"
	"github.com/hamed0406/fleetmon/internal/logging"
	"github.com/hamed0406/fleetmon/internal/monitor"
	"github.com/hamed0406/fleetmon/internal/notify"
	"github.com/hamed0406/fleetmon/internal/probe"
)

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	monitor *monitor.Monitor
}

func setup(envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	checker, err := probe.New(probe.Options{
		Mode:       cfg.Probe.Mode,
		Timeout:    cfg.Probe.Timeout,
		Privileged: cfg.Probe.Privileged,
		TCPPort:    cfg.Probe.TCPPort,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	mon := monitor.New(logger, monitor.Config{
		Hosts:        cfg.DomainHosts(),
		Concurrency:  cfg.Concurrency,
		ProbeTimeout: cfg.Probe.Timeout,
	}, checker, buildNotifier(cfg, logger))

	return &app{cfg: cfg, logger: logger, monitor: mon}, nil
}

// buildNotifier picks the alert channels that are configured. With none,
// alerts still land in the log.
func buildNotifier(cfg config.Config, logger *zap.Logger) notify.Notifier {
	var channels notify.Multi
	if cfg.SMTP.Host != "" {
		channels = append(channels, notify.NewMail(notify.MailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       []string{cfg.AlertDestination},
			Timeout:  cfg.SMTP.Timeout,
			SSL:      cfg.SMTP.SSL,
		}))
	}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		channels = append(channels, s)
	}

	switch len(channels) {
	case 0:
		return notify.Log{Logger: logger}
	case 1:
		return channels[0]
	default:
		return channels
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

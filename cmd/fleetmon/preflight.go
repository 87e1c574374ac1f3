package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/fleetmon/internal/config"
	"github.com/hamed0406/fleetmon/internal/probe"
)

func newPreflightCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check the configuration without probing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }
			warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }

			cfg, err := config.Load(*envFile)
			if err != nil {
				fmt.Fprintln(errOut, "✖", err)
				return err
			}
			if _, err := probe.New(probe.Options{Mode: cfg.Probe.Mode}); err != nil {
				fmt.Fprintln(errOut, "✖", err)
				return err
			}

			ok(fmt.Sprintf("FLEET_HOSTS=%s (%d hosts)", strings.Join(cfg.Hosts, ","), len(cfg.Hosts)))
			ok(fmt.Sprintf("PROBE_MODE=%s timeout=%s concurrency=%d", cfg.Probe.Mode, cfg.Probe.Timeout, cfg.Concurrency))
			if cfg.SMTP.Host != "" {
				ok(fmt.Sprintf("SMTP %s:%d -> %s", cfg.SMTP.Host, cfg.SMTP.Port, cfg.AlertDestination))
			}
			if cfg.SlackWebhook != "" {
				ok("SLACK_WEBHOOK_URL present")
			}
			for _, w := range cfg.Warnings() {
				warn(w)
			}
			ok("preflight passed")
			return nil
		},
	}
}

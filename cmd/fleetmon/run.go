package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetmon/internal/domain"
)

func newRunCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one monitoring pass; exits 1 if any alert could not be sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ctx, stop := signalContext()
			defer stop()

			rep, err := a.monitor.RunPass(ctx)
			printSummary(cmd, rep)
			if err != nil {
				a.logger.Error("pass_dispatch_failed", zap.Error(err))
				return fmt.Errorf("%d of %d alerts failed to send", rep.DispatchFailures(), len(rep.Alerts))
			}
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, rep *domain.PassReport) {
	out := cmd.OutOrStdout()
	for _, r := range rep.Results {
		state := "up"
		switch {
		case r.Skipped:
			state = "SKIP"
		case !r.Reachable:
			state = "DOWN"
		}
		fmt.Fprintf(out, "%-4s %s (%s)\n", state, r.Host, r.Reason)
	}
	fmt.Fprintf(out, "%d hosts, %d unreachable, %d alerts not sent\n",
		len(rep.Results), rep.Unreachable(), rep.DispatchFailures())
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/fleetmon/internal/repo/memory"
	"github.com/hamed0406/fleetmon/internal/scheduler"
)

func newWatchCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run a pass on SCHEDULE until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			sched, err := scheduler.New(a.logger, a.monitor, a.cfg.Schedule, memory.New())
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()
			sched.Run(ctx)
			a.logger.Info("shutdown_complete")
			return nil
		},
	}
}

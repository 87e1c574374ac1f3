package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "fleetmon",
		Short:         "Probe a fleet of hosts and alert on the ones that do not answer",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "optional .env file applied before reading the environment")

	root.AddCommand(
		newRunCmd(&envFile),
		newWatchCmd(&envFile),
		newServeCmd(&envFile),
		newPreflightCmd(&envFile),
	)
	return root
}

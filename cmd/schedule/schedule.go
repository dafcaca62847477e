// Package schedule handles the periodic refresh command
package schedule

import (
	"os/signal"
	"syscall"

	"nephila/thesaurus/cmd/root"
	"nephila/thesaurus/internal/scheduler"

	"github.com/spf13/cobra"
)

var runNow bool

// Cmd represents the schedule command
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Refresh the raw layer from the ANSM site at fixed times",
	Long: `Download the thesaurus, parse it and reload the raw tables every day at the
times listed in schedule.times (default 06:00;18:00). Runs never overlap.
The command blocks until interrupted.`,
	Example: "  thesaurus schedule --now",
	Run:     scheduleFunc,
}

func init() {
	Cmd.Flags().BoolVar(&runNow, "now", false, "Run a refresh immediately before waiting for the next slot")
}

func scheduleFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	pipeline, err := appContainer.GetPipeline()
	if err != nil {
		logger.Fatalf("Error opening raw store: %v", err)
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := scheduler.NewScheduler(pipeline, appContainer.GetConfig().Schedule.Times, logger)
	if err := s.Start(ctx, runNow); err != nil {
		logger.Fatalf("Error starting scheduler: %v", err)
		return
	}

	<-ctx.Done()
	logger.Info("Shutting down scheduler")
	s.Stop()
}

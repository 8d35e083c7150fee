package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/refresh"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the cache if it is empty or stale",
	Long:  "Runs the staleness check once. With --force the cache is wiped and repopulated regardless of age.",
	RunE:  runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "wipe and repopulate even when the cache is fresh")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, logFormat)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, false, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var outcome refresh.Outcome
	if refreshForce {
		outcome, err = a.policy.Refresh(ctx)
	} else {
		outcome, err = a.policy.EnsureFresh(ctx)
	}
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	fmt.Printf("outcome: %s\n", outcome)
	return nil
}

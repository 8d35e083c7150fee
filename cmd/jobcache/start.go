package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Keep the cache warm",
	Long:  "Checks the cache immediately and then every refresh.check_interval (or on the refresh.schedule cron expression), repopulating it when empty or stale. Blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, logFormat)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"driver", cfg.Database.Driver,
		"providers", len(cfg.Providers.EnabledSources()),
		"check_interval", cfg.Refresh.CheckInterval.String(),
		"schedule", cfg.Refresh.Schedule,
	)

	schedule, err := scheduler.ScheduleFor(cfg.Refresh)
	if err != nil {
		logger.Error("invalid refresh schedule", "error", err)
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

	sched := scheduler.NewScheduler(a.policy, schedule, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

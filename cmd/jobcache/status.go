package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/refresh"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache state and age",
	Long:  "Reports whether the cache is empty, fresh or stale without refreshing it.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, logFormat)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a, err := buildApp(ctx, cfg, false, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	st, err := a.policy.Check(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	writeStatus(os.Stdout, cfg.Database.Driver, st)
	return nil
}

func writeStatus(w io.Writer, driver string, st refresh.Status) {
	fmt.Fprintf(w, "%-12s %s\n", "store", driver)
	fmt.Fprintf(w, "%-12s %s\n", "state", st.State)
	if st.LastFetch == nil {
		fmt.Fprintf(w, "%-12s %s\n", "last fetch", "never")
		return
	}
	fmt.Fprintf(w, "%-12s %s\n", "last fetch", st.LastFetch.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "%-12s %s\n", "age", st.Age.Truncate(time.Second))
	if st.State == refresh.StateFresh {
		fmt.Fprintf(w, "%-12s %s\n", "stale in", (refresh.StalenessThreshold - st.Age).Truncate(time.Second))
	}
}

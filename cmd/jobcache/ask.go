package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/intent"
	"github.com/amishk599/jobcache/internal/lookup"
	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/recommend"
	"github.com/amishk599/jobcache/internal/render"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask for jobs in plain language",
	Long:  `Reads a job title out of a message such as "looking for backend engineer jobs", looks it up, and suggests portfolio projects for the top match when recommendations are enabled.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, logFormat)

	title, ok := intent.ExtractTitle(strings.Join(args, " "))
	if !ok {
		fmt.Print(render.FormatNoTitle())
		return nil
	}
	logger.Debug("title extracted", "query", title)

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

	records, err := a.lookup.Records(ctx, title)
	var refreshErr *lookup.RefreshError
	if err != nil && !errors.As(err, &refreshErr) {
		return err
	}
	if refreshErr != nil {
		logger.Warn("cache could not be refreshed; results may be outdated", "error", refreshErr.Err)
	}

	fmt.Print(answer(ctx, title, records, buildRecommender(cfg, logger), logger))
	return nil
}

// answer renders the reply for records. A recommendation failure is logged
// and the jobs are shown without project ideas.
func answer(ctx context.Context, title string, records []model.Record, recommender recommend.Recommender, logger *slog.Logger) string {
	if len(records) == 0 {
		return render.FormatNoJobs(title)
	}
	projects, err := recommender.Recommend(ctx, records[0])
	if err != nil {
		logger.Warn("recommendation failed", "error", err)
		projects = nil
	}
	return render.FormatJobs(title, model.Views(records), projects)
}

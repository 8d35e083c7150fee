package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/browse"
	"github.com/amishk599/jobcache/internal/filter"
	"github.com/amishk599/jobcache/internal/lookup"
	"github.com/amishk599/jobcache/internal/model"
)

const browseLookupTimeout = 3 * time.Minute

var (
	browseLocations  []string
	browseRemoteOnly bool
)

var browseCmd = &cobra.Command{
	Use:   "browse <title>",
	Short: "Browse lookup results interactively",
	Long:  "Runs a lookup, then opens a full-screen list of ranked results with job details and project ideas.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBrowse,
}

func init() {
	addFilterFlags(browseCmd, &browseLocations, &browseRemoteOnly)
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")

	cfg, err := loadConfig(setupLogger(debug, logFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs would corrupt the TUI.
	logger := discardLogger()

	a, err := buildApp(context.Background(), cfg, false, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	f := filter.NewLocationFilter(browseLocations, browseRemoteOnly)
	records, err := browse.RunLoader(title, browseLookupTimeout, func(ctx context.Context) ([]model.Record, error) {
		recs, err := a.lookup.Records(ctx, title)
		return f.Apply(recs), err
	})
	var refreshErr *lookup.RefreshError
	if err != nil && !errors.As(err, &refreshErr) {
		return err
	}
	if refreshErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", refreshErr)
	}
	if len(records) == 0 {
		fmt.Printf("No jobs found for %q.\n", title)
		return nil
	}

	return browse.Run(title, records, buildRecommender(cfg, logger))
}

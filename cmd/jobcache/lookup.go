package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/filter"
	"github.com/amishk599/jobcache/internal/lookup"
	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/search"
)

var (
	lookupJSON       bool
	lookupLimit      int
	lookupExplain    bool
	lookupDryRun     bool
	lookupLocations  []string
	lookupRemoteOnly bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Look up cached jobs by title",
	Long:  "Refreshes the cache if it is empty or older than 24h, then prints jobs ranked by title relevance.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print results as JSON")
	lookupCmd.Flags().IntVarP(&lookupLimit, "limit", "n", 10, "maximum results to print (0 for all)")
	lookupCmd.Flags().BoolVar(&lookupExplain, "explain", false, "show the ranking tier each result matched on")
	lookupCmd.Flags().BoolVar(&lookupDryRun, "dry-run", false, "use an in-memory store; nothing is persisted")
	addFilterFlags(lookupCmd, &lookupLocations, &lookupRemoteOnly)
	rootCmd.AddCommand(lookupCmd)
}

func addFilterFlags(cmd *cobra.Command, locations *[]string, remoteOnly *bool) {
	cmd.Flags().StringSliceVar(locations, "location", nil, "keep jobs whose location contains any of these keywords")
	cmd.Flags().BoolVar(remoteOnly, "remote-only", false, "keep only remote jobs")
}

func runLookup(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, logFormat)
	title := strings.Join(args, " ")

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, lookupDryRun, logger)
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

	records = narrow(records, filter.NewLocationFilter(lookupLocations, lookupRemoteOnly), lookupLimit)

	if lookupJSON {
		return writeJSON(os.Stdout, model.Views(records))
	}
	writeTable(os.Stdout, title, records, lookupExplain)
	return nil
}

// narrow filters records and then applies limit, keeping rank order.
func narrow(records []model.Record, f *filter.LocationFilter, limit int) []model.Record {
	records = f.Apply(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func writeJSON(w io.Writer, views []model.RecordView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func writeTable(w io.Writer, title string, records []model.Record, explain bool) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No jobs found for %q.\n", title)
		return
	}
	rows := search.Explain(title, records)
	for i, row := range rows {
		r := row.Record
		line := fmt.Sprintf("%2d. %s", i+1, r.Title)
		if explain {
			line += fmt.Sprintf("  [%s]", row.Match)
		}
		fmt.Fprintln(w, line)

		company, location := model.Deref(r.Company), model.Deref(r.Location)
		if company == "" {
			company = "n/a"
		}
		if location == "" {
			location = "n/a"
		}
		remote := ""
		if r.IsRemote {
			remote = " · remote"
		}
		fmt.Fprintf(w, "    %s · %s%s · %s\n", company, location, remote, r.Source)
		if u := model.Deref(r.URL); u != "" {
			fmt.Fprintf(w, "    %s\n", u)
		}
	}
	fmt.Fprintf(w, "\n%d %s\n", len(records), pluralize(len(records), "result", "results"))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

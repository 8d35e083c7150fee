package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/config"
	"github.com/amishk599/jobcache/internal/model"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured job board providers",
	Long:  "Prints the configured providers in the order the gateway tries them.",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, logFormat)
	cfg, err := loadConfig(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	writeProviders(os.Stdout, cfg.Providers)
	return nil
}

func writeProviders(w io.Writer, pc config.ProvidersConfig) {
	byName := make(map[string]config.ProviderSource, len(pc.Sources))
	for _, s := range pc.Sources {
		byName[s.Name] = s
	}

	fmt.Fprintf(w, "%-9s %-11s %-9s %s\n", "Priority", "Provider", "Status", "URL")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	enabled, configured := 0, 0
	for i, id := range model.Priority {
		s, ok := byName[string(id)]
		if !ok {
			continue
		}
		configured++
		status := "enabled"
		if s.Enabled {
			enabled++
		} else {
			status = "disabled"
		}
		fmt.Fprintf(w, "%-9d %-11s %-9s %s\n", i+1, s.Name, status, s.URL)
	}

	fmt.Fprintf(w, "\nTotal: %d providers (%d enabled, %d disabled), timeout %s per call\n",
		configured, enabled, configured-enabled, pc.Timeout)
}

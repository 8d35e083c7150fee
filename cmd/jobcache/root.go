package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcache/internal/adapter"
	"github.com/amishk599/jobcache/internal/config"
	"github.com/amishk599/jobcache/internal/gateway"
	"github.com/amishk599/jobcache/internal/lookup"
	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/recommend"
	"github.com/amishk599/jobcache/internal/refresh"
	"github.com/amishk599/jobcache/internal/search"
	"github.com/amishk599/jobcache/internal/store"
)

var (
	cfgPath   string
	debug     bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:          "jobcache",
	Short:        "Cached, ranked job lookups across remote job boards",
	Long:         "jobcache pulls postings from remote job boards (first source that answers wins), keeps them for 24h, and serves ranked, typo-tolerant title lookups.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBCACHE_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

// setupLogger writes to stderr so command output on stdout stays clean.
func setupLogger(dbg bool, format string) *slog.Logger {
	return newLogger(os.Stderr, dbg, format)
}

func newLogger(w io.Writer, dbg bool, format string) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadConfig resolves the config path and parses it.
// Priority: --config flag > JOBCACHE_CONFIG env var > "./config.yaml".
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, path, err := config.LoadResolved(cfgPath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("config loaded", "path", path)
	}
	return cfg, nil
}

// app holds the wired lookup pipeline for one command invocation.
type app struct {
	store   model.CacheStore
	gateway *gateway.Gateway
	policy  *refresh.Policy
	lookup  *lookup.Service
}

// buildApp wires store, providers, gateway, refresh policy and lookup
// service. dryRun swaps the configured store for an in-memory one.
func buildApp(ctx context.Context, cfg *config.Config, dryRun bool, logger *slog.Logger) (*app, error) {
	dbCfg := cfg.Database
	if dryRun {
		dbCfg = config.DatabaseConfig{Driver: config.DriverMemory}
		logger.Info("dry-run mode: using an in-memory store")
	}

	st, err := store.Open(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Providers.Timeout}
	providers, err := adapter.FromConfig(cfg.Providers, httpClient)
	if err != nil {
		st.Close()
		return nil, err
	}

	gw := gateway.New(providers, cfg.Providers.Timeout, logger)
	policy := refresh.New(st, gw, logger)
	svc := lookup.NewService(policy, search.NewEngine(st, logger), logger)

	logger.Debug("pipeline ready", "driver", dbCfg.Driver, "providers", gw.Providers())
	return &app{store: st, gateway: gw, policy: policy, lookup: svc}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// buildRecommender returns the LLM recommender when enabled in config and a
// no-op one otherwise.
func buildRecommender(cfg *config.Config, logger *slog.Logger) recommend.Recommender {
	rc := cfg.Recommendations
	if !rc.Enabled {
		return recommend.NewNopRecommender()
	}
	provider := recommend.NewOpenAIProvider(rc.BaseURL, rc.APIKey, rc.Model, rc.Timeout, nil)
	logger.Debug("recommendations enabled", "model", rc.Model)
	return recommend.NewLLMRecommender(provider, recommend.RecommendationTemplate, logger)
}

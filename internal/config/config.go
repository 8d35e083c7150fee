package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Database drivers accepted in database.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

const (
	// EnvConfigPath names the environment variable consulted when no
	// --config flag is given.
	EnvConfigPath = "JOBCACHE_CONFIG"
	// DefaultPath is used when neither the flag nor the env var is set.
	DefaultPath = "config.yaml"
)

const (
	defaultDBPath           = "jobcache.db"
	defaultProviderTimeout  = 10 * time.Second
	defaultCheckInterval    = 1 * time.Hour
	defaultRecommendBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultRecommendModel   = "gemini-2.5-flash"
	defaultRecommendTimeout = 60 * time.Second
)

// defaultSourceURLs lists the upstream endpoints in priority order.
var defaultSourceURLs = []struct{ name, url string }{
	{"remotive", "https://remotive.com/api/remote-jobs"},
	{"remoteok", "https://remoteok.com/api"},
	{"arbeitnow", "https://www.arbeitnow.com/api/job-board-api"},
	{"jobicy", "https://www.jobicy.com/api/v2/remote-jobs"},
}

// DefaultSourceURL returns the built-in endpoint for a provider name, or "".
func DefaultSourceURL(name string) string {
	for _, s := range defaultSourceURLs {
		if s.name == name {
			return s.url
		}
	}
	return ""
}

// Config is the root configuration for jobcache.
type Config struct {
	Database        DatabaseConfig
	Providers       ProvidersConfig
	Refresh         RefreshConfig
	Recommendations RecommendationsConfig
}

// DatabaseConfig selects and locates the cache store.
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres redis memory"`
	Path   string `yaml:"path" validate:"required_if=Driver sqlite"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver postgres"`
	URL    string `yaml:"url" validate:"required_if=Driver redis,omitempty,url"` // redis://host:port/db
}

// ProvidersConfig controls the source gateway.
type ProvidersConfig struct {
	Timeout time.Duration    `validate:"gt=0"` // per-call timeout
	Sources []ProviderSource `validate:"required,min=1,unique=Name,dive"`
}

// ProviderSource configures one upstream board. Order in the file does not
// change the gateway's priority order.
type ProviderSource struct {
	Name    string `yaml:"name" validate:"required,oneof=remotive remoteok arbeitnow jobicy"`
	URL     string `yaml:"url" validate:"required,url"`
	Enabled bool   `yaml:"enabled"`
}

// RefreshConfig controls the warm-keeping daemon.
type RefreshConfig struct {
	CheckInterval time.Duration `validate:"gt=0"`
	// Schedule is an optional cron expression ("0 */6 * * *", "@hourly")
	// that replaces CheckInterval.
	Schedule string
}

// RecommendationsConfig controls the optional LLM project suggestions.
type RecommendationsConfig struct {
	Enabled bool
	BaseURL string        `validate:"required_if=Enabled true,omitempty,url"`
	Model   string        `validate:"required_if=Enabled true"`
	APIKey  string        `validate:"required_if=Enabled true"` // expanded from env var by Load
	Timeout time.Duration `validate:"gt=0"`
}

// EnabledSources returns the enabled provider sources.
func (p ProvidersConfig) EnabledSources() []ProviderSource {
	var out []ProviderSource
	for _, s := range p.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// Default returns the configuration used when no config file exists:
// SQLite at ./jobcache.db, all four providers enabled, recommendations off.
func Default() *Config {
	sources := make([]ProviderSource, 0, len(defaultSourceURLs))
	for _, s := range defaultSourceURLs {
		sources = append(sources, ProviderSource{Name: s.name, URL: s.url, Enabled: true})
	}
	return &Config{
		Database: DatabaseConfig{Driver: DriverSQLite, Path: defaultDBPath},
		Providers: ProvidersConfig{
			Timeout: defaultProviderTimeout,
			Sources: sources,
		},
		Refresh: RefreshConfig{CheckInterval: defaultCheckInterval},
		Recommendations: RecommendationsConfig{
			BaseURL: defaultRecommendBaseURL,
			Model:   defaultRecommendModel,
			Timeout: defaultRecommendTimeout,
		},
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Database        DatabaseConfig     `yaml:"database"`
	Providers       rawProvidersConfig `yaml:"providers"`
	Refresh         rawRefreshConfig   `yaml:"refresh"`
	Recommendations rawRecommendConfig `yaml:"recommendations"`
}

type rawProvidersConfig struct {
	Timeout string           `yaml:"timeout"`
	Sources []ProviderSource `yaml:"sources"`
}

type rawRefreshConfig struct {
	CheckInterval string `yaml:"check_interval"`
	Schedule      string `yaml:"schedule"`
}

type rawRecommendConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// ResolvePath picks the config file path: the flag value, then
// $JOBCACHE_CONFIG, then ./config.yaml. explicit is false only for the
// implicit default.
func ResolvePath(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// LoadResolved resolves the path like ResolvePath and loads it. A missing
// implicit config.yaml yields Default() and an empty path.
func LoadResolved(flagPath string) (*Config, string, error) {
	path, explicit := ResolvePath(flagPath)
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := loadDotEnv(); err != nil {
				return nil, "", err
			}
			cfg := Default()
			cfg.Recommendations.APIKey = os.Getenv("OPENAI_KEY")
			return cfg, "", nil
		}
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	def := Default()
	cfg := &Config{
		Database:        raw.Database,
		Providers:       ProvidersConfig{Sources: raw.Providers.Sources},
		Recommendations: def.Recommendations,
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.Path == "" {
		cfg.Database.Path = defaultDBPath
	}

	if cfg.Providers.Timeout, err = parseDuration("providers.timeout", raw.Providers.Timeout, defaultProviderTimeout); err != nil {
		return nil, err
	}
	if len(cfg.Providers.Sources) == 0 {
		cfg.Providers.Sources = def.Providers.Sources
	}
	for i := range cfg.Providers.Sources {
		if cfg.Providers.Sources[i].URL == "" {
			cfg.Providers.Sources[i].URL = DefaultSourceURL(cfg.Providers.Sources[i].Name)
		}
	}

	if cfg.Refresh.CheckInterval, err = parseDuration("refresh.check_interval", raw.Refresh.CheckInterval, defaultCheckInterval); err != nil {
		return nil, err
	}
	cfg.Refresh.Schedule = strings.TrimSpace(raw.Refresh.Schedule)

	rec := raw.Recommendations
	cfg.Recommendations.Enabled = rec.Enabled
	cfg.Recommendations.APIKey = rec.APIKey
	if rec.BaseURL != "" {
		cfg.Recommendations.BaseURL = rec.BaseURL
	}
	if rec.Model != "" {
		cfg.Recommendations.Model = rec.Model
	}
	if cfg.Recommendations.Timeout, err = parseDuration("recommendations.timeout", rec.Timeout, defaultRecommendTimeout); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

// loadDotEnv loads ./.env when present. Variables already set win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

var structValidator = validator.New()

func validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if len(cfg.Providers.EnabledSources()) == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}

	if cfg.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Refresh.Schedule); err != nil {
			return fmt.Errorf("invalid config: refresh.schedule %q: %w", cfg.Refresh.Schedule, err)
		}
	}

	return nil
}

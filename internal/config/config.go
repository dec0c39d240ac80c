// Package config loads the persistent cybertrend configuration from
// <home>/config.yaml and layers environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
)

const (
	homeEnv        = "CYBERTREND_HOME"
	csvURLEnv      = "CYBERTREND_CSV_URL"
	refreshEnv     = "CYBERTREND_REFRESH"
	logLevelEnv    = "CYBERTREND_LOG_LEVEL"
	databaseURLEnv = "DATABASE_URL"
	pgTableEnv     = "CYBERTREND_PG_TABLE"
	restTableEnv   = "SUPABASE_TABLE"
)

// Checked in order; the first non-empty value wins.
var (
	restURLEnvs = []string{"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL", "VITE_SUPABASE_URL"}
	restKeyEnvs = []string{"SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_PUBLISHABLE_DEFAULT_KEY", "VITE_SUPABASE_ANON_KEY"}
)

// Config is the persistent application configuration
type Config struct {
	Sources []fetch.Source `yaml:"sources" validate:"required,min=1,dive"`
	Refresh RefreshConfig  `yaml:"refresh"`
	UI      UIConfig       `yaml:"ui"`
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
}

// RefreshConfig controls background loading.
type RefreshConfig struct {
	Interval     time.Duration `yaml:"interval" validate:"gte=1m"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gte=1s"`
}

// UIConfig holds dashboard preferences
type UIConfig struct {
	PageSize  int           `yaml:"page_size" validate:"oneof=5 10"`
	View      string        `yaml:"view" validate:"oneof=cards table chart"`
	ChartSize int           `yaml:"chart_size" validate:"min=1,max=50"`
	NewWindow time.Duration `yaml:"new_window" validate:"gte=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sources: fetch.DefaultSources(),
		Refresh: RefreshConfig{
			Interval:     5 * time.Hour,
			FetchTimeout: 30 * time.Second,
		},
		UI: UIConfig{
			PageSize:  10,
			View:      "cards",
			ChartSize: 10,
			NewWindow: 30 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Home returns the data directory: $CYBERTREND_HOME or ~/.cybertrend.
func Home() string {
	if dir := os.Getenv(homeEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cybertrend")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load reads config from disk, or returns defaults when there is no file.
// Environment overrides are applied in both cases, then the result is
// validated.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load for an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.AutoPopulateFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// LoadEnvFiles loads KEY=value files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// AutoPopulateFromEnv applies environment overrides.
//
// A REST URL and key pair adds a REST source ahead of the others and drops
// the built-in published sheet. CYBERTREND_CSV_URL repoints the sheet and
// DATABASE_URL adds a Postgres source.
func (c *Config) AutoPopulateFromEnv() error {
	if v := os.Getenv(csvURLEnv); v != "" {
		replaced := false
		for i := range c.Sources {
			if c.Sources[i].Type == fetch.TypeCSV && c.Sources[i].URL == fetch.PublishedSheetURL {
				c.Sources[i].URL = v
				replaced = true
			}
		}
		if !replaced {
			c.Sources = append(c.Sources, fetch.Source{Type: fetch.TypeCSV, Name: "Sheet", URL: v})
		}
	}

	restURL, restKey := firstEnv(restURLEnvs), firstEnv(restKeyEnvs)
	if restURL != "" && restKey != "" {
		table := os.Getenv(restTableEnv)
		if table == "" {
			table = fetch.DefaultRESTTable
		}
		rest := fetch.Source{Type: fetch.TypeREST, Name: "Supabase", URL: restURL, APIKey: restKey, Table: table}
		sources := []fetch.Source{rest}
		for _, s := range c.Sources {
			if s.Type == fetch.TypeREST && s.Name == rest.Name {
				continue
			}
			if s.Type == fetch.TypeCSV && s.URL == fetch.PublishedSheetURL {
				continue
			}
			sources = append(sources, s)
		}
		c.Sources = sources
	}

	if dsn := os.Getenv(databaseURLEnv); dsn != "" {
		table := os.Getenv(pgTableEnv)
		if table == "" {
			table = fetch.DefaultRESTTable
		}
		pg := fetch.Source{Type: fetch.TypePostgres, Name: "Postgres", DSN: dsn, Table: table}
		if i := c.sourceIndex(fetch.TypePostgres, pg.Name); i >= 0 {
			c.Sources[i] = pg
		} else {
			c.Sources = append(c.Sources, pg)
		}
	}

	if v := os.Getenv(refreshEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", refreshEnv, err)
		}
		c.Refresh.Interval = d
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func (c *Config) sourceIndex(typ, name string) int {
	for i, s := range c.Sources {
		if s.Type == typ && s.Name == name {
			return i
		}
	}
	return -1
}

func firstEnv(keys []string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

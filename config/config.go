// Package config loads the landing server configuration from an optional YAML
// file, a .env file and environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Tracking    TrackingConfig    `yaml:"tracking"`
	EarlyAccess EarlyAccessConfig `yaml:"earlyAccess"`
	Admin       AdminConfig       `yaml:"admin"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	CORS        CORSConfig        `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// StorageConfig names the data directory and the durable records inside it.
type StorageConfig struct {
	DataDir           string `yaml:"dataDir"`
	ClicksCounter     string `yaml:"clicksCounter"`
	SurveyCollection  string `yaml:"surveyCollection"`
	LeadsCollection   string `yaml:"leadsCollection"`
	ViewsPrefix       string `yaml:"viewsPrefix"`
	UniqueViewsPrefix string `yaml:"uniqueViewsPrefix"`
}

// ViewsCounter returns the total-views counter name for page.
func (s StorageConfig) ViewsCounter(page string) string {
	return s.ViewsPrefix + page
}

// UniqueViewsCounter returns the unique-views counter name for page.
func (s StorageConfig) UniqueViewsCounter(page string) string {
	return s.UniqueViewsPrefix + page
}

// TrackingConfig declares the tracked page set and the visitor cookie shape.
type TrackingConfig struct {
	Pages        []string      `yaml:"pages"`
	CookiePrefix string        `yaml:"cookiePrefix"`
	CookieMaxAge time.Duration `yaml:"cookieMaxAge"`
}

// EarlyAccessConfig controls lead capture.
type EarlyAccessConfig struct {
	Source string `yaml:"source"`
}

// AdminConfig bounds the recent-record lists of the admin report.
type AdminConfig struct {
	RecentResponses int `yaml:"recentResponses"`
	RecentLeads     int `yaml:"recentLeads"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CORSConfig controls the allowed origin for the JSON API.
type CORSConfig struct {
	AllowedOrigin string `yaml:"allowedOrigin"`
}

var pageNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Load reads the .env file (if any), the YAML config file (if provided) and
// applies environment-variable overrides on top of the defaults.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("LANDING_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration the landing site ships with.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Mode:            "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			DataDir:           "data",
			ClicksCounter:     "interest_counter",
			SurveyCollection:  "survey_results",
			LeadsCollection:   "early_access",
			ViewsPrefix:       "views_",
			UniqueViewsPrefix: "unique_",
		},
		Tracking: TrackingConfig{
			Pages:        []string{"main", "guide", "survey"},
			CookiePrefix: "tl_visited_",
			CookieMaxAge: 365 * 24 * time.Hour,
		},
		EarlyAccess: EarlyAccessConfig{
			Source: "landing",
		},
		Admin: AdminConfig{
			RecentResponses: 20,
			RecentLeads:     50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		CORS: CORSConfig{
			AllowedOrigin: "http://localhost:3000",
		},
	}
}

// Validate checks the invariants the storage and tracking layers rely on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return fmt.Errorf("storage.dataDir must not be empty")
	}
	if len(c.Tracking.Pages) == 0 {
		return fmt.Errorf("tracking.pages must list at least one page")
	}
	seen := make(map[string]struct{}, len(c.Tracking.Pages))
	for _, p := range c.Tracking.Pages {
		if !pageNamePattern.MatchString(p) {
			return fmt.Errorf("tracking.pages: invalid page name %q", p)
		}
		if p == "clicks" {
			return fmt.Errorf("tracking.pages: %q is reserved", p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("tracking.pages: duplicate page %q", p)
		}
		seen[p] = struct{}{}
	}
	if c.Tracking.CookieMaxAge <= 0 {
		return fmt.Errorf("tracking.cookieMaxAge must be positive")
	}
	if c.Admin.RecentResponses <= 0 || c.Admin.RecentLeads <= 0 {
		return fmt.Errorf("admin limits must be positive")
	}
	return nil
}

// applyEnvOverrides reads LANDING_* (and the legacy PORT / GIN_MODE / FE_ORIGIN)
// environment variables and overrides the corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LANDING_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("LANDING_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("LANDING_PAGES"); v != "" {
		cfg.Tracking.Pages = splitList(v)
	}
	if v := os.Getenv("LANDING_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LANDING_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LANDING_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
	if v := os.Getenv("FE_ORIGIN"); v != "" {
		cfg.CORS.AllowedOrigin = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

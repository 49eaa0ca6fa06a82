package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Environment variables that override secrets from the file.
const (
	EnvGitHubToken   = "TALLY_GITHUB_TOKEN"
	EnvYouTubeAPIKey = "TALLY_YOUTUBE_API_KEY"
	EnvRefreshSecret = "TALLY_REFRESH_SECRET"
)

type GitHub struct {
	User   string `yaml:"user"`
	Token  string `yaml:"token"`
	APIURL string `yaml:"api_url,omitempty" validate:"omitempty,url"`
	// DetailWorkers bounds concurrent per-day commit lookups.
	DetailWorkers int `yaml:"detail_workers" validate:"gte=0,lte=32"`
}

type YouTube struct {
	Handle   string `yaml:"handle"`
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

type Server struct {
	Addr          string `yaml:"addr" validate:"required,hostname_port"`
	RefreshSecret string `yaml:"refresh_secret"`
	// RateLimit is requests per minute per client IP, 0 disables limiting.
	RateLimit int `yaml:"rate_limit" validate:"gte=0"`
}

type Config struct {
	Timezone   string  `yaml:"timezone" validate:"required"`
	WindowDays int     `yaml:"window_days" validate:"gte=1,lte=3660"`
	LogLevel   string  `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	Database   string  `yaml:"database,omitempty"`
	GitHub     GitHub  `yaml:"github"`
	YouTube    YouTube `yaml:"youtube"`
	Server     Server  `yaml:"server"`

	loc *time.Location
}

// Location is the canonical zone that decides which calendar day an
// instant belongs to.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// GitHubToken returns the resolved token (config or env var).
func (c *Config) GitHubToken() string {
	if c.GitHub.Token != "" {
		return c.GitHub.Token
	}
	return os.Getenv(EnvGitHubToken)
}

// YouTubeAPIKey returns the resolved API key (config or env var).
func (c *Config) YouTubeAPIKey() string {
	if c.YouTube.APIKey != "" {
		return c.YouTube.APIKey
	}
	return os.Getenv(EnvYouTubeAPIKey)
}

// RefreshSecret returns the shared secret guarding forced refreshes over
// HTTP. An empty secret disables forced refresh from the server.
func (c *Config) RefreshSecret() string {
	if c.Server.RefreshSecret != "" {
		return c.Server.RefreshSecret
	}
	return os.Getenv(EnvRefreshSecret)
}

// GitHubEnabled needs a token as well as a user: the contribution calendar
// rejects anonymous requests.
func (c *Config) GitHubEnabled() bool {
	return c.GitHub.User != "" && c.GitHubToken() != ""
}

func (c *Config) YouTubeEnabled() bool {
	return c.YouTube.Handle != "" && c.YouTubeAPIKey() != ""
}

// DatabasePath returns the configured database or the default under the
// XDG data directory.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(xdg.DataHome, "tally", "tally.db")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "tally", "config.yaml")
}

// LogPath is where the TUI writes its log, away from the terminal.
func LogPath() string {
	return filepath.Join(xdg.StateHome, "tally", "tally.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default path), falling back to
// embedded defaults and writing them out on first run.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Non-fatal: just use embedded defaults.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o600)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) validate() error {
	c.GitHub.User = strings.TrimSpace(c.GitHub.User)
	c.YouTube.Handle = strings.TrimSpace(c.YouTube.Handle)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	c.loc = loc
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/teams"
)

// Config holds all configuration for teamforge.
// Values come from an optional YAML file; environment variables always override them.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	// Comma-separated list of allowed CORS origins
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:5173,http://localhost:3000"`
	StaticDir   string `yaml:"static_dir" env:"STATIC_DIR" env-default:""`

	DBPath string `yaml:"db_path" env:"DB_PATH" env-default:"./teamforge.db"`

	Dataset DatasetConfig `yaml:"dataset"`
	Teams   TeamsConfig   `yaml:"teams"`
	Log     LogConfig     `yaml:"log"`
	Rate    RateConfig    `yaml:"rate_limit"`
}

// DatasetConfig points at the unit dataset JSON.
type DatasetConfig struct {
	Path  string `yaml:"path" env:"DATASET_PATH" env-default:"./data/dataset.json"`
	Watch bool   `yaml:"watch" env:"DATASET_WATCH" env-default:"false"`
}

// TeamsConfig holds generation defaults applied when a request leaves them out.
type TeamsConfig struct {
	DefaultMode     string `yaml:"default_mode" env:"TEAMS_DEFAULT_MODE" env-default:"moc"`
	MaxTeams        int    `yaml:"max_teams" env:"TEAMS_MAX_TEAMS" env-default:"0"` // 0 means per-tier default
	DefaultView     string `yaml:"default_view" env:"TEAMS_DEFAULT_VIEW" env-default:""`
	IncludeConcepts bool   `yaml:"include_concepts" env:"TEAMS_INCLUDE_CONCEPTS" env-default:"false"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// RateConfig limits the generation endpoints. RPS <= 0 disables limiting.
type RateConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load reads configuration from path with environment variable overrides.
// A missing file is not an error: defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return cfg, cfg.validate()
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if !models.Mode(c.Teams.DefaultMode).Valid() {
		return fmt.Errorf("invalid teams.default_mode %q", c.Teams.DefaultMode)
	}
	if c.Teams.DefaultView != "" && !teams.View(c.Teams.DefaultView).Valid() {
		return fmt.Errorf("invalid teams.default_view %q", c.Teams.DefaultView)
	}
	if c.Teams.MaxTeams < 0 {
		return fmt.Errorf("teams.max_teams must not be negative")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}

// AllowedOrigins splits CORSOrigins into a list, dropping blanks.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// DefaultMode returns the configured default game mode.
func (c *Config) DefaultMode() models.Mode {
	return models.Mode(c.Teams.DefaultMode)
}

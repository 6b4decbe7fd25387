package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendREST   = "rest"
	BackendSQLite = "sqlite"
)

// Config is the root configuration, read from YAML and overridden by FACTBOARD_* env vars.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
	UI      UIConfig      `yaml:"ui"`
}

type StoreConfig struct {
	// Backend is rest (hosted PostgREST table) or sqlite (local file).
	Backend    string `yaml:"backend"     env:"FACTBOARD_STORE_BACKEND" env-default:"rest"`
	URL        string `yaml:"url"         env:"FACTBOARD_STORE_URL"`
	Key        string `yaml:"key"         env:"FACTBOARD_STORE_KEY"`
	SQLitePath string `yaml:"sqlite_path" env:"FACTBOARD_SQLITE_PATH"`
}

type SessionConfig struct {
	// URL is the login service root (it serves /login, /logout and /user).
	// Empty means nobody is ever logged in.
	URL    string `yaml:"url"    env:"FACTBOARD_SESSION_URL"`
	Cookie string `yaml:"cookie" env:"FACTBOARD_SESSION_COOKIE"`
	// CookieName is the browser cookie `factboard web` forwards to /user.
	CookieName string `yaml:"cookie_name" env:"FACTBOARD_SESSION_COOKIE_NAME" env-default:"connect.sid"`
}

type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"FACTBOARD_HTTP_TIMEOUT" env-default:"15s"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"FACTBOARD_LOG_LEVEL" env-default:"info"`
	// File receives logs; the TUI logs nowhere without it.
	File string `yaml:"file" env:"FACTBOARD_LOG_FILE"`
}

type OutputConfig struct {
	Format string `yaml:"format" env:"FACTBOARD_FORMAT" env-default:"json"`
}

type UIConfig struct {
	Title string `yaml:"title" env:"FACTBOARD_TITLE" env-default:"Today I Learned"`
}

// Dir is the per-user config directory (~/.factboard).
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.factboard).
	if v := strings.TrimSpace(os.Getenv("FACTBOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".factboard"), nil
}

// DefaultPath is $FACTBOARD_CONFIG, else <Dir>/config.yaml.
func DefaultPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("FACTBOARD_CONFIG")); v != "" {
		return v, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (or DefaultPath when empty) and applies
// env overrides. A missing default file is fine; a missing explicit file is not.
// Priority: overrides (CLI flags) > ENV > YAML > defaults.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	var cfg Config

	explicit := strings.TrimSpace(path) != "" || strings.TrimSpace(os.Getenv("FACTBOARD_CONFIG")) != ""
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	for _, o := range overrides {
		o(&cfg)
	}

	if strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) == BackendSQLite && strings.TrimSpace(cfg.Store.SQLitePath) == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		cfg.Store.SQLitePath = filepath.Join(dir, "facts.sqlite")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendREST:
		if strings.TrimSpace(c.Store.URL) == "" {
			return errors.New("store.url is required for the rest backend (FACTBOARD_STORE_URL)")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend: expected rest|sqlite, got %q", c.Store.Backend)
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: expected debug|info|warn|error, got %q", c.Log.Level)
	}
	return nil
}

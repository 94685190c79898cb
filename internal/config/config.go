// Package config loads djaysync settings from a JSONC file, the environment
// and a .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/himanishpuri/djaysync/pkg/djaysync/music"
	"github.com/himanishpuri/djaysync/pkg/djaysync/report"
	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
)

// FileName is the config file looked up in the working directory.
const FileName = "djaysync.jsonc"

// Environment variables.
const (
	EnvDBPath     = "DJAY_DB_PATH"
	EnvConfigPath = "DJAYSYNC_CONFIG"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLimit      = "DJAYSYNC_LIMIT"
)

var (
	errConfigFileRead = errors.New("cannot read config file")
	errConfigInvalid  = errors.New("invalid config")
)

// Duration is a time.Duration written as a string ("30s") in config files.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type Config struct {
	DBPath           string   `json:"db_path"`
	LogLevel         string   `json:"log_level"`
	Limit            int      `json:"limit"`
	NoOverwrite      bool     `json:"no_overwrite"`
	UpdateAllMatches bool     `json:"update_all_matches"`
	PreviewLimit     int      `json:"preview_limit"`
	ReportLimit      int      `json:"report_limit"`
	ScriptTimeout    Duration `json:"script_timeout"`
}

func Default() Config {
	return Config{
		LogLevel:      "info",
		PreviewLimit:  report.DefaultPreview,
		ReportLimit:   report.DefaultSkippedLimit,
		ScriptTimeout: Duration{music.DefaultTimeout},
	}
}

// Load builds the configuration: defaults, then the config file, then the
// environment. An explicit path (argument or DJAYSYNC_CONFIG) must exist;
// the default djaysync.jsonc is optional. A .env file in the working
// directory is loaded first without overriding variables already set.
// The returned string is the config file used, if any.
func Load(path string) (Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, "", fmt.Errorf("loading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	mustExist := path != ""
	if path == "" {
		path = FileName
	}

	cfg := Default()
	loaded, err := loadFile(path, mustExist, &cfg)
	if err != nil {
		return Config{}, "", err
	}
	if !loaded {
		path = ""
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, "", err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	return cfg, path, nil
}

// loadFile overlays the fields present in the JSONC file onto cfg.
func loadFile(path string, mustExist bool, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return false, fmt.Errorf("%w %s: invalid JSONC: %w", errConfigInvalid, path, err)
	}
	if err := json.Unmarshal(standardized, cfg); err != nil {
		return false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return true, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", errConfigInvalid, EnvLimit, err)
		}
		cfg.Limit = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	if c.PreviewLimit < 0 || c.ReportLimit < 0 {
		return errors.New("preview_limit and report_limit must not be negative")
	}
	if c.ScriptTimeout.Duration <= 0 {
		return errors.New("script_timeout must be positive")
	}
	return nil
}

// Format returns the config as indented JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the settings peke needs to reach the backend and store
// its local state.
type Config struct {
	APIURL      string `mapstructure:"api_url"`
	PollSeconds int    `mapstructure:"poll_seconds"`
	TokenPath   string `mapstructure:"token_path"`
	ExportDir   string `mapstructure:"export_dir"`
	LogFile     string `mapstructure:"log_file"`
	LogLevel    string `mapstructure:"log_level"`
}

const (
	defaultConfigPath  = "~/.config/peke/config.toml"
	defaultAPIURL      = "http://127.0.0.1:8000"
	defaultPollSeconds = 5
	defaultTokenPath   = "~/.local/state/peke/token"
	defaultExportDir   = "~/Downloads"
	defaultLogFile     = "~/.local/state/peke/peke.log"
	defaultLogLevel    = "info"

	envPrefix = "PEKE"
)

// Load locates and parses the peke config, falling back to defaults when the
// file is missing. PEKE_* environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(resolved); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
	} else {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(cfg), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("poll_seconds", defaultPollSeconds)
	v.SetDefault("token_path", defaultTokenPath)
	v.SetDefault("export_dir", defaultExportDir)
	v.SetDefault("log_file", defaultLogFile)
	v.SetDefault("log_level", defaultLogLevel)
}

func normalize(cfg Config) Config {
	cfg.APIURL = strings.TrimSpace(cfg.APIURL)
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = defaultPollSeconds
	}
	cfg.TokenPath = expandOr(cfg.TokenPath, defaultTokenPath)
	cfg.ExportDir = expandOr(cfg.ExportDir, defaultExportDir)
	cfg.LogFile = expandOr(cfg.LogFile, defaultLogFile)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	return cfg
}

// PollInterval returns the dashboard status refresh cadence.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// ExportDirectory returns the directory log exports are written to. When the
// configured directory does not exist the working directory is used.
func (c Config) ExportDirectory() string {
	dir := strings.TrimSpace(c.ExportDir)
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandOr(path, fallback string) string {
	if strings.TrimSpace(path) == "" {
		path = fallback
	}
	return mustExpand(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

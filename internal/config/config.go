package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/streed/notecards/internal/constants"
	interrors "github.com/streed/notecards/internal/errors"
)

const (
	appName = "notecards"

	EmptyQueryNone = "none"
	EmptyQueryAll  = "all"
)

type Config struct {
	DataDirectory string `json:"data_directory,omitempty" env:"DATA_DIR"`
	DatabasePath  string `json:"database_path,omitempty" env:"DATABASE_PATH"`

	Debug     bool   `json:"debug" env:"DEBUG"`
	LogFormat string `json:"log_format,omitempty" env:"LOG_FORMAT"`

	// Search behaviour. A DefaultSearchLimit of 0 returns every match.
	EmptyQuery         string `json:"empty_query" env:"EMPTY_QUERY"`
	DefaultSearchLimit int    `json:"default_search_limit" env:"SEARCH_LIMIT"`

	// Card rendering
	PreviewLength int `json:"preview_length" env:"PREVIEW_LENGTH"`
	PreviewLines  int `json:"preview_lines" env:"PREVIEW_LINES"`

	// HTTP server
	ServerHost string `json:"server_host,omitempty" env:"HOST"`
	ServerPort int    `json:"server_port,omitempty" env:"PORT"`
}

// getDefaultConfig returns a fresh copy of the default configuration
func getDefaultConfig() Config {
	return Config{
		DataDirectory:      "", // Will be set to ~/.local/share/notecards
		DatabasePath:       "", // Will be set to DataDirectory/notes.db
		Debug:              false,
		LogFormat:          "console",
		EmptyQuery:         EmptyQueryNone,
		DefaultSearchLimit: constants.DefaultSearchLimit,
		PreviewLength:      constants.PreviewLength,
		PreviewLines:       constants.PreviewLines,
		ServerHost:         "localhost",
		ServerPort:         8080,
	}
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, appName, "config.json"), nil
}

func GetDefaultDataDirectory() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "."+appName)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, appName)
}

// Load reads the config file (falling back to defaults when it is missing),
// applies NOTECARDS_* environment overrides and validates the result.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := getDefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "NOTECARDS_"}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	defaults := getDefaultConfig()

	if c.DataDirectory == "" {
		c.DataDirectory = GetDefaultDataDirectory()
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDirectory, "notes.db")
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}
	if c.EmptyQuery == "" {
		c.EmptyQuery = defaults.EmptyQuery
	}
	if c.ServerHost == "" {
		c.ServerHost = defaults.ServerHost
	}
	if c.ServerPort == 0 {
		c.ServerPort = defaults.ServerPort
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.EmptyQuery != EmptyQueryNone && c.EmptyQuery != EmptyQueryAll {
		return fmt.Errorf("%w: %q", interrors.ErrInvalidEmptyQueryMode, c.EmptyQuery)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("%w: %q", interrors.ErrInvalidLogFormat, c.LogFormat)
	}
	if c.DefaultSearchLimit < 0 || c.PreviewLength < 0 || c.PreviewLines < 0 {
		return interrors.ErrInvalidLimit
	}
	return nil
}

func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if cfg.DataDirectory != "" {
		if err := os.MkdirAll(cfg.DataDirectory, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write config file with secure permissions
	if err := os.WriteFile(configPath, data, constants.ConfigFileMode); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// InitializeConfig writes a fresh default config rooted at dataDir.
func InitializeConfig(dataDir string) (*Config, error) {
	cfg := getDefaultConfig()

	if dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		cfg.DataDirectory = GetDefaultDataDirectory()
	}
	cfg.DatabasePath = filepath.Join(cfg.DataDirectory, "notes.db")

	if err := Save(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) GetDatabasePath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.DataDirectory, "notes.db")
}

// ServerAddr returns host:port for the HTTP API.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/config"
	"github.com/streed/notecards/internal/constants"
	interrors "github.com/streed/notecards/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage notecards configuration",
	Long:  `View and manage notecards configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current notecards configuration settings.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value.

Available keys:
  - data-dir: Data directory for storing notes database
  - debug: Enable/disable debug logging (true/false)
  - log-format: Log output format (console/json)
  - empty-query: What an empty search returns (none/all)
  - search-limit: Default number of search results
  - preview-length: Maximum characters in a card preview
  - preview-lines: Maximum lines in a card preview
  - server-host: Host the HTTP API binds to
  - server-port: Port the HTTP API binds to`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println("=== notecards Configuration ===")
	fmt.Printf("Config file:      %s\n", configPath)
	fmt.Printf("data-dir:         %s\n", cfg.DataDirectory)
	fmt.Printf("Database path:    %s\n", cfg.GetDatabasePath())
	fmt.Printf("debug:            %v\n", cfg.Debug)
	fmt.Printf("log-format:       %s\n", cfg.LogFormat)
	fmt.Printf("empty-query:      %s\n", cfg.EmptyQuery)
	fmt.Printf("search-limit:     %d\n", cfg.DefaultSearchLimit)
	fmt.Printf("preview-length:   %d\n", cfg.PreviewLength)
	fmt.Printf("preview-lines:    %d\n", cfg.PreviewLines)
	fmt.Printf("server:           %s\n", cfg.ServerAddr())

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println(configPath)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Configuration updated: %s = %s\n", key, value)
	return nil
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "data-dir":
		cfg.DataDirectory = expandPath(value)
		cfg.DatabasePath = "" // Will be regenerated
	case "debug":
		debug, err := parseBool(value)
		if err != nil {
			return err
		}
		cfg.Debug = debug
	case "log-format":
		cfg.LogFormat = strings.ToLower(value)
	case "empty-query":
		cfg.EmptyQuery = strings.ToLower(strings.TrimSpace(value))
	case "search-limit":
		n, err := parseNonNegative(value)
		if err != nil {
			return err
		}
		cfg.DefaultSearchLimit = n
	case "preview-length":
		n, err := parseNonNegative(value)
		if err != nil {
			return err
		}
		cfg.PreviewLength = n
	case "preview-lines":
		n, err := parseNonNegative(value)
		if err != nil {
			return err
		}
		cfg.PreviewLines = n
	case "server-host":
		cfg.ServerHost = value
	case "server-port":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid port: %s", value)
		}
		cfg.ServerPort = n
	default:
		return fmt.Errorf("%w: %s", interrors.ErrUnknownConfigKey, key)
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch value {
	case constants.BoolTrue, constants.BoolOne, constants.BoolYes:
		return true, nil
	case constants.BoolFalse, constants.BoolZero, constants.BoolNo:
		return false, nil
	}
	return false, fmt.Errorf("%w: %s", interrors.ErrInvalidBoolean, value)
}

func parseNonNegative(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s", interrors.ErrInvalidLimit, value)
	}
	return n, nil
}

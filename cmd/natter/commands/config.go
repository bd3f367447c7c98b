package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/natter-sh/natter/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage natter configuration.

Subcommands:
  get [key]              Show configuration value(s)
  set <key> <value>      Set a configuration value
  path                   Show config file path`,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration",
	Long: `Show configuration values.

Examples:
  natter config get                    # Show all config
  natter config get weather.api_key
  natter config get chat.typing_delay_ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			enc := toml.NewEncoder(os.Stdout)
			return enc.Encode(cfg)
		}

		value := getConfigValue(cfg, args[0])
		if value == nil {
			return fmt.Errorf("key not found: %s", args[0])
		}

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(value)
		}

		fmt.Printf("%v\n", value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := setConfigValue(cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Printf("Set %s\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.ConfigPath())
	},
}

func getConfigValue(cfg *config.Config, key string) interface{} {
	parts := strings.Split(key, ".")

	switch parts[0] {
	case "chat":
		if len(parts) == 1 {
			return cfg.Chat
		}
		switch parts[1] {
		case "typing_delay_ms":
			return cfg.Chat.TypingDelayMS
		case "request_timeout_s":
			return cfg.Chat.RequestTimeoutS
		}

	case "weather":
		if len(parts) == 1 {
			return cfg.Weather
		}
		switch parts[1] {
		case "api_key":
			return cfg.Weather.APIKey
		case "base_url":
			return cfg.Weather.BaseURL
		case "units":
			return cfg.Weather.Units
		}

	case "dictionary":
		if len(parts) == 1 {
			return cfg.Dictionary
		}
		if parts[1] == "base_url" {
			return cfg.Dictionary.BaseURL
		}

	case "logging":
		if len(parts) == 1 {
			return cfg.Logging
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level
		case "file":
			return cfg.Logging.File
		}
	}

	return nil
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "chat.typing_delay_ms":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		cfg.Chat.TypingDelayMS = v
	case "chat.request_timeout_s":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		cfg.Chat.RequestTimeoutS = v
	case "weather.api_key":
		cfg.Weather.APIKey = value
	case "weather.base_url":
		cfg.Weather.BaseURL = value
	case "weather.units":
		cfg.Weather.Units = value
	case "dictionary.base_url":
		cfg.Dictionary.BaseURL = value
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.file":
		cfg.Logging.File = value
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

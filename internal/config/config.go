// Package config handles configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the natter configuration.
type Config struct {
	Chat       ChatConfig       `toml:"chat"`
	Weather    WeatherConfig    `toml:"weather"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Logging    LoggingConfig    `toml:"logging"`
}

// ChatConfig holds chat surface settings.
type ChatConfig struct {
	// TypingDelayMS is how long the "Typing..." placeholder stays up
	// before a reply is produced, in milliseconds.
	TypingDelayMS int `toml:"typing_delay_ms"`
	// RequestTimeoutS bounds every outbound plugin HTTP call, in seconds.
	RequestTimeoutS int `toml:"request_timeout_s"`
}

// TypingDelay returns the typing delay as a duration.
func (c ChatConfig) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMS) * time.Millisecond
}

// RequestTimeout returns the request timeout as a duration.
func (c ChatConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutS) * time.Second
}

// WeatherConfig holds weather lookup settings.
type WeatherConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Units   string `toml:"units"`
}

// DictionaryConfig holds dictionary lookup settings.
type DictionaryConfig struct {
	BaseURL string `toml:"base_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// Pick up a local .env so the weather credential never needs to
	// live in source or in the committed config file.
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if p := os.Getenv("NATTER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(StateDir(), "config.toml")
}

// StateDir returns the natter state directory.
func StateDir() string {
	if p := os.Getenv("NATTER_STATE_DIR"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".natter")
}

// TranscriptPath returns the path of the persisted transcript.
func TranscriptPath() string {
	return filepath.Join(StateDir(), "transcript.json")
}

// LogsDir returns the logs directory.
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

func defaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			TypingDelayMS:   2000,
			RequestTimeoutS: 10,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Units:   "metric",
		},
		Dictionary: DictionaryConfig{
			BaseURL: "https://api.dictionaryapi.dev/api/v2/entries/en",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		c.Weather.APIKey = key
	}

	if url := os.Getenv("NATTER_WEATHER_URL"); url != "" {
		c.Weather.BaseURL = url
	}

	if url := os.Getenv("NATTER_DICTIONARY_URL"); url != "" {
		c.Dictionary.BaseURL = url
	}

	if level := os.Getenv("NATTER_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if ms := os.Getenv("NATTER_TYPING_DELAY_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			c.Chat.TypingDelayMS = v
		}
	}
}

// Save writes the config to file.
func (c *Config) Save() error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// EnsureDirs creates necessary directories.
func EnsureDirs() error {
	dirs := []string{
		StateDir(),
		LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}

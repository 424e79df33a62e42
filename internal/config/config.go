package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultInterval  = time.Hour
	configPathEnv    = "NEWS_COLLECTOR_CONFIG"
	settingsPathEnv  = "NEWS_COLLECTOR_SETTINGS_PATH"
	serverAddressEnv = "NEWS_COLLECTOR_ADDRESS"
	baseURLEnv       = "OPENROUTER_BASE_URL"
	tokenEnv         = "OPENROUTER_TOKEN"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Settings   SettingsConfig   `yaml:"settings"`
	Refresh    RefreshConfig    `yaml:"refresh"`
}

// ServerConfig describes the HTTP listen address.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LoggingConfig defines the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OpenRouterConfig defines how to contact the OpenRouter API. The bearer
// token configured here only seeds the settings store on first start; the
// store remains the source of truth afterwards.
type OpenRouterConfig struct {
	BaseURL string `yaml:"baseUrl"`
	Token   string `yaml:"token"`
}

// SettingsConfig locates the sqlite file backing the settings store.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// RefreshConfig defines how often the pipeline runs on its own.
type RefreshConfig struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration resolves the refresh interval string, reverting to the
// default when it is empty or malformed.
func (r RefreshConfig) IntervalDuration() time.Duration {
	if r.Interval == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(r.Interval)
	if err != nil || d <= 0 {
		log.Printf("config: invalid refresh interval %q, reverting to %s", r.Interval, defaultInterval)
		return defaultInterval
	}
	return d
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddressEnv); v != "" {
		c.Server.Address = v
	}

	if v := os.Getenv(settingsPathEnv); v != "" {
		c.Settings.Path = v
	}

	if v := os.Getenv(baseURLEnv); v != "" {
		c.OpenRouter.BaseURL = v
	}

	if v := os.Getenv(tokenEnv); v != "" {
		c.OpenRouter.Token = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Address != "" {
		base.Server = override.Server
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.OpenRouter.BaseURL != "" {
		base.OpenRouter.BaseURL = override.OpenRouter.BaseURL
	}
	if override.OpenRouter.Token != "" {
		base.OpenRouter.Token = override.OpenRouter.Token
	}

	if override.Settings.Path != "" {
		base.Settings = override.Settings
	}

	if override.Refresh.Interval != "" {
		base.Refresh = override.Refresh
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: "info"},
		OpenRouter: OpenRouterConfig{BaseURL: "https://openrouter.ai"},
		Settings:   SettingsConfig{Path: "newscollector.db"},
		Refresh:    RefreshConfig{Interval: "1h"},
	}
}

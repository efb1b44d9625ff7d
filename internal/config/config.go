package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database      DatabaseConfig `toml:"database"`
	Shopping      ShoppingConfig `toml:"shopping"`
	Cache         CacheConfig    `toml:"cache"`
	AI            AIConfig       `toml:"ai"`
	Server        ServerConfig   `toml:"server"`
	Notifications NotifyConfig   `toml:"notifications"`
	Log           LogConfig      `toml:"log"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ShoppingConfig struct {
	UsePantry bool   `toml:"use_pantry"`
	WeekStart string `toml:"week_start"` // "monday"
}

type CacheConfig struct {
	Backend  string `toml:"backend"` // "sqlite" or "redis"
	RedisURL string `toml:"redis_url"`
}

type AIConfig struct {
	Provider string `toml:"provider"` // "claude-cli" or "openai"
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type NotifyConfig struct {
	Enabled    bool   `toml:"enabled"`
	ExpiryDays int    `toml:"expiry_days"`
	CheckAt    string `toml:"check_at"` // "HH:MM", local time
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Shopping: ShoppingConfig{
			UsePantry: true,
			WeekStart: "monday",
		},
		Cache: CacheConfig{
			Backend: "sqlite",
		},
		AI: AIConfig{
			Provider: "claude-cli",
			Model:    "haiku",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8420",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Notifications: NotifyConfig{
			Enabled:    true,
			ExpiryDays: 3,
			CheckAt:    "09:00",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mealr"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file from the default location.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults. A
// .env file next to it is loaded into the environment first, without
// replacing variables that are already set.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(filepath.Dir(path), ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(filepath.Dir(path), "mealr.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEALR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("MEALR_REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
		cfg.Cache.Backend = "redis"
	}
	if v := os.Getenv("MEALR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
}

func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "sqlite":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache backend redis requires cache.redis_url")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Notifications.ExpiryDays < 0 {
		return fmt.Errorf("notifications.expiry_days must not be negative")
	}
	switch c.AI.Provider {
	case "claude-cli", "openai":
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	return nil
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// SetValue writes section.key = value into the config file at path, keeping
// every other setting as it is.
func SetValue(path, dotted string, value any) error {
	section, key, ok := strings.Cut(dotted, ".")
	if !ok || section == "" || key == "" {
		return fmt.Errorf("config key must look like section.key, got %q", dotted)
	}

	cfg := make(map[string]any)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	sec, ok := cfg[section].(map[string]any)
	if !ok {
		sec = make(map[string]any)
	}
	sec[key] = value
	cfg[section] = sec

	// Reject values that would make the file unloadable.
	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	check := DefaultConfig()
	if err := toml.Unmarshal(out, &check); err != nil {
		return fmt.Errorf("invalid value for %s: %w", dotted, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

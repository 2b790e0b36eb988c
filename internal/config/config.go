package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	General GeneralConfig `toml:"general"`
	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
	Cache   CacheConfig   `toml:"cache"`
	MQTT    MQTTConfig    `toml:"mqtt"`
	Payment PaymentConfig `toml:"payment"`
}

type GeneralConfig struct {
	// Interval is the overview refresh period in seconds.
	Interval  int    `toml:"interval"`
	Language  string `toml:"language"`
	TimeRange string `toml:"time_range"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SessionConfig struct {
	Path string `toml:"path"`
	// Keychain stores the token in the OS secret store instead of Path.
	Keychain bool `toml:"keychain"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
	Dev   bool   `toml:"dev"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Keep    int    `toml:"keep"`
}

type MQTTConfig struct {
	Enabled     bool   `toml:"enabled"`
	Broker      string `toml:"broker"`
	TopicPrefix string `toml:"topic_prefix"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
}

type PaymentConfig struct {
	// OpenBrowser opens checkout pages in a controlled Chrome window so
	// the return to ReturnURL can be detected.
	OpenBrowser bool   `toml:"open_browser"`
	ReturnURL   string `toml:"return_url"`
}

func DefaultConfig() Config {
	dir := configDir()
	return Config{
		General: GeneralConfig{
			Interval:  5,
			Language:  "en",
			TimeRange: "week",
		},
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:8000/api/",
			TimeoutSeconds: 15,
		},
		Session: SessionConfig{
			Path: filepath.Join(dir, "credentials.yaml"),
		},
		Log: LogConfig{
			Level: "info",
			Dir:   filepath.Join(dir, "logs"),
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "history.db"),
			Keep:    500,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			TopicPrefix: "kora",
		},
		Payment: PaymentConfig{
			OpenBrowser: true,
			ReturnURL:   "http://localhost:3000/dashboard/billing",
		},
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "kora")
}

func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// PollInterval returns the refresh period, falling back to 5s for
// non-positive values.
func (c Config) PollInterval() time.Duration {
	if c.General.Interval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.General.Interval) * time.Second
}

// Timeout returns the per-request API timeout.
func (c Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // use defaults
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithEnv loads path and then applies environment overrides. A .env
// file in the working directory is read first if present.
func LoadWithEnv(path string) (Config, error) {
	// best-effort: a missing .env is not an error
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from KORA_API_URL, KORA_POLL_INTERVAL and
// KORA_LOG_LEVEL. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("KORA_API_URL")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("KORA_POLL_INTERVAL")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("KORA_POLL_INTERVAL=%q: want a positive number of seconds", v)
		}
		c.General.Interval = n
	}
	if v := strings.TrimSpace(getenv("KORA_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	return nil
}

func Save(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

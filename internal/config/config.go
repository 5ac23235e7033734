// Package config assembles curator settings from defaults, an optional YAML
// file and CURATOR_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "CURATOR_CONFIG"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	API        APIConfig        `yaml:"api"`
	Enterprise EnterpriseConfig `yaml:"enterprise"`
	Search     SearchConfig     `yaml:"search"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
	Wizard     WizardConfig     `yaml:"wizard"`
}

type APIConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	JWTSecret string `yaml:"jwtSecret"`
	TimeoutMs int    `yaml:"timeoutMs"`
}

type EnterpriseConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type SearchConfig struct {
	AppID     string `yaml:"appId"`
	APIKey    string `yaml:"apiKey"`
	IndexName string `yaml:"index"`
	URL       string `yaml:"url"`
}

// Enabled reports whether enough is set to build a search client.
func (s SearchConfig) Enabled() bool {
	return s.AppID != "" && s.APIKey != "" && s.IndexName != ""
}

type StorageConfig struct {
	// DBPath is the SQLite file holding dismissal ledgers.
	DBPath string `yaml:"db"`
	// RedisAddr switches the dismissal ledger to a shared Redis instance.
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Pretty bool   `yaml:"pretty"`
}

type WizardConfig struct {
	DebounceMs int `yaml:"debounceMs"`
}

// Default returns a Config with everything but credentials filled in.
func Default() Config {
	return Config{
		API: APIConfig{
			URL:       "http://localhost:18160/api/v1",
			TimeoutMs: 10000,
		},
		Search: SearchConfig{
			IndexName: "enterprise_catalog",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Wizard: WizardConfig{
			DebounceMs: 400,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "curator.db"
	}
	return home + "/.curator/curator.db"
}

// Load builds the effective configuration. It reads the file named by
// CURATOR_CONFIG when set, then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.API.URL, "CURATOR_API_URL")
	setString(&c.API.Token, "CURATOR_TOKEN")
	setString(&c.API.JWTSecret, "CURATOR_JWT_SECRET")
	setString(&c.Enterprise.ID, "CURATOR_ENTERPRISE_ID")
	setString(&c.Enterprise.Name, "CURATOR_ENTERPRISE_NAME")
	setString(&c.Search.AppID, "CURATOR_SEARCH_APP_ID")
	setString(&c.Search.APIKey, "CURATOR_SEARCH_API_KEY")
	setString(&c.Search.IndexName, "CURATOR_SEARCH_INDEX")
	setString(&c.Search.URL, "CURATOR_SEARCH_URL")
	setString(&c.Storage.DBPath, "CURATOR_DB")
	setString(&c.Storage.RedisAddr, "CURATOR_REDIS_ADDR")
	setString(&c.Storage.RedisPassword, "CURATOR_REDIS_PASSWORD")
	setString(&c.Log.Level, "CURATOR_LOG_LEVEL")
	setString(&c.Log.File, "CURATOR_LOG_FILE")

	if err := setInt(&c.Storage.RedisDB, "CURATOR_REDIS_DB", 0); err != nil {
		return err
	}
	if err := setInt(&c.API.TimeoutMs, "CURATOR_TIMEOUT_MS", 1); err != nil {
		return err
	}
	if err := setInt(&c.Wizard.DebounceMs, "CURATOR_DEBOUNCE_MS", 1); err != nil {
		return err
	}
	if v := os.Getenv("CURATOR_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: CURATOR_LOG_PRETTY=%q", ErrInvalidConfig, v)
		}
		c.Log.Pretty = b
	}
	return nil
}

// Validate reports every missing or malformed required value at once.
func (c Config) Validate() error {
	var problems []string
	if c.API.URL == "" {
		problems = append(problems, "api url is required (CURATOR_API_URL)")
	} else if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		problems = append(problems, fmt.Sprintf("api url %q must start with http:// or https://", c.API.URL))
	}
	if c.API.Token == "" {
		problems = append(problems, "access token is required (CURATOR_TOKEN)")
	}
	if c.Storage.DBPath == "" && c.Storage.RedisAddr == "" {
		problems = append(problems, "one of db path (CURATOR_DB) or redis address (CURATOR_REDIS_ADDR) is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log level %q must be debug, info, warn or error", c.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	out := c
	if out.API.Token != "" {
		out.API.Token = "***"
	}
	if out.API.JWTSecret != "" {
		out.API.JWTSecret = "***"
	}
	if out.Search.APIKey != "" {
		out.Search.APIKey = "***"
	}
	if out.Storage.RedisPassword != "" {
		out.Storage.RedisPassword = "***"
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string, min int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/chat-alert-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const defaultCallAPIURL = "https://zvonok.com/manager/cabapi_external/api/v1/phones/call/"

type Config struct {
	TelegramBotToken string  `koanf:"telegram_bot_token"`
	AllowedUsers     []int64 `koanf:"allowed_users"`

	StorageBackend StorageBackend `koanf:"storage_backend"`
	StoragePath    string         `koanf:"storage_path"`
	RedisAddr      string         `koanf:"redis_addr"`
	RedisPassword  string         `koanf:"redis_password"`
	RedisDB        int            `koanf:"redis_db"`

	HTTPPort string `koanf:"http_port"`

	// Voice-call backend: a GET endpoint taking the auth keys below plus
	// phone and text query parameters.
	CallAPIURL         string `koanf:"call_api_url"`
	CallAPIPublicKey   string `koanf:"call_api_public_key"`
	CallAPICampaignID  string `koanf:"call_api_campaign_id"`
	CallTimeoutSeconds int    `koanf:"call_timeout_seconds"`

	AppEnv AppEnv `koanf:"app_env"`
}

// CallTimeout returns the voice-call request timeout as a duration.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// CallAPIParams returns the backend-specific auth keys sent with every
// voice-call request.
func (c *Config) CallAPIParams() map[string]string {
	return map[string]string{
		"public_key":  c.CallAPIPublicKey,
		"campaign_id": c.CallAPICampaignID,
	}
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("storage_backend") {
		k.Set("storage_backend", "file")
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("redis_addr") {
		k.Set("redis_addr", "localhost:6379")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("call_api_url") {
		k.Set("call_api_url", defaultCallAPIURL)
	}
	if !k.Exists("call_timeout_seconds") {
		k.Set("call_timeout_seconds", 10)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AllowedUsers from comma-separated string if it's a string
	if allowedUsers := k.Get("allowed_users"); allowedUsers != nil {
		switch v := allowedUsers.(type) {
		case string:
			cfg.AllowedUsers = ParseAllowedUsers(v)
		case []interface{}:
			cfg.AllowedUsers = lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
				switch val := item.(type) {
				case int64:
					return val, true
				case int:
					return int64(val), true
				case float64:
					return int64(val), true
				default:
					return 0, false
				}
			})
		}
	}

	// Parse enum fields from strings, falling back to defaults
	if backend, err := ParseStorageBackend(k.String("storage_backend")); err == nil {
		cfg.StorageBackend = backend
	} else {
		cfg.StorageBackend = StorageBackendFile
	}
	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Validate required fields
	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}

	return &cfg, nil
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}

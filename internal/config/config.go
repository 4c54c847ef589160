package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "DOCRELAY"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`

	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	DocParsePath  string `mapstructure:"docparse_path"`
	ChatPath      string `mapstructure:"chat_path"`
	DocParseModel string `mapstructure:"docparse_model"`
	ChatModel     string `mapstructure:"chat_model"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	BatchConcurrency   int     `mapstructure:"batch_concurrency"`
	BatchRatePerSecond float64 `mapstructure:"batch_rate_per_second"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	SinksFile string `mapstructure:"sinks_file"`
}

// New returns a viper instance with defaults and environment binding applied.
// Callers may bind CLI flags onto it before calling Load.
func New() *viper.Viper {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "docrelay")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "https://www.dmxapi.cn/v1")
	v.SetDefault("docparse_path", "/responses")
	v.SetDefault("chat_path", "/chat/completions")
	v.SetDefault("docparse_model", "hehe-tywd")
	v.SetDefault("chat_model", "gpt-5-mini")
	v.SetDefault("request_timeout_seconds", 60)
	v.SetDefault("batch_concurrency", 4)
	v.SetDefault("batch_rate_per_second", 2.0)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/docrelay.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("sinks_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the given viper instance (nil means New()).
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid base_url (must not be empty)")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.BatchConcurrency <= 0 {
		return nil, fmt.Errorf("invalid batch_concurrency (must be positive)")
	}
	if cfg.BatchRatePerSecond < 0 {
		return nil, fmt.Errorf("invalid batch_rate_per_second (must be >= 0)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// DocParseURL is the full URL of the document-parse endpoint.
func (c *Config) DocParseURL() string { return c.BaseURL + ensureSlash(c.DocParsePath) }

// ChatURL is the full URL of the chat-completion endpoint.
func (c *Config) ChatURL() string { return c.BaseURL + ensureSlash(c.ChatPath) }

// RequireAPIKey fails when no bearer token is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api_key is not set (export %s_API_KEY or add it to configs/.env)", EnvPrefix)
	}
	return nil
}

func ensureSlash(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024

type Config struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// calling service
	VapiAPIKey      Secret `koanf:"vapi_api_key"`
	VapiPhoneID     string `koanf:"vapi_phone_id"`
	VapiAssistantID string `koanf:"vapi_assistant_id"`
	VapiBaseURL     string `koanf:"vapi_base_url"`

	// messaging webhook
	PokeAPIKey     Secret `koanf:"poke_api_key"`
	PokeWebhookURL string `koanf:"poke_webhook_url"`

	DefaultTimezone string `koanf:"default_timezone"`

	// monitor
	MonitorInterval    time.Duration `koanf:"monitor_interval"`
	MonitorMaxAttempts int           `koanf:"monitor_max_attempts"`

	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// requests per second per client IP on call-placing routes
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// FromEnv loads configuration from the environment only.
func FromEnv() (Config, error) {
	return Load("")
}

// Load reads an optional YAML file, then overrides it with environment
// variables. Env names are the uppercased keys: VAPI_API_KEY -> vapi_api_key.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		b, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	return os.ReadFile(path)
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.VapiBaseURL == "" {
		cfg.VapiBaseURL = "https://api.vapi.ai"
	}
	if cfg.PokeWebhookURL == "" {
		cfg.PokeWebhookURL = "https://poke.com/api/v1/inbound-sms/webhook"
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "America/New_York"
	}
	if cfg.MonitorInterval == 0 {
		cfg.MonitorInterval = 10 * time.Second
	}
	if cfg.MonitorMaxAttempts == 0 {
		cfg.MonitorMaxAttempts = 30
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 5
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
}

// Validate checks value ranges. Missing Vapi credentials are not an error
// here; they are reported when a call is placed.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be > 0")
	}
	if c.MonitorMaxAttempts < 1 {
		return fmt.Errorf("MONITOR_MAX_ATTEMPTS must be >= 1")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must be >= 0")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (want json or console)", c.LogFormat)
	}
	return nil
}

// HasVapi reports whether all three calling-service credentials are set.
func (c Config) HasVapi() bool {
	return c.VapiAPIKey.IsSet() && c.VapiPhoneID != "" && c.VapiAssistantID != ""
}

func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort     = 8080
	DefaultSendBuffer   = 16
	DefaultWriteTimeout = 10 * time.Second
	DefaultKafkaTopic   = "environmental-events"
)

// Config holds the service configuration parsed from the `server:` section
// of the config file.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all service settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates incoming API clients.
	Auth AuthConfig `yaml:"auth"`

	// Store selects the point-store backend and its inputs.
	Store StoreConfig `yaml:"store"`

	// Broadcast tunes per-subscriber push delivery.
	Broadcast BroadcastConfig `yaml:"broadcast"`

	// Kafka configures the optional event sink.
	Kafka KafkaConfig `yaml:"kafka"`

	// Alerts holds rule definitions and webhook delivery targets.
	Alerts AlertsConfig `yaml:"alerts"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected
	// API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// StoreConfig selects the point-store backend.
type StoreConfig struct {
	// Backend is one of: auto | postgres | memory.
	// "auto" picks postgres when the database URL resolves, memory otherwise.
	Backend string `yaml:"backend"`

	// DatabaseURLEnv is the name of the environment variable that holds the
	// Postgres connection URL. Defaults to "DATABASE_URL".
	DatabaseURLEnv string `yaml:"database_url_env"`

	// Fixtures is an optional YAML file of seed points for the memory
	// backend. When empty, a built-in sample set is used.
	Fixtures string `yaml:"fixtures"`
}

// DatabaseURL returns the connection URL resolved from the environment.
func (s StoreConfig) DatabaseURL() string {
	if s.DatabaseURLEnv == "" {
		return ""
	}
	return os.Getenv(s.DatabaseURLEnv)
}

// BroadcastConfig tunes push delivery to WebSocket subscribers.
type BroadcastConfig struct {
	// SendBuffer is the per-subscriber outgoing buffer depth. A subscriber
	// whose buffer is full when an event arrives is dropped.
	SendBuffer int `yaml:"send_buffer"`

	// WriteTimeout is the per-delivery write deadline. Exceeding it counts
	// as a failed delivery.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig configures the optional Kafka event sink.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition evaluated against
// every ingested risk zone.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression: "risk_score > 65", "pm25 > 35",
	// "aqi >= 150", "risk_level == high".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Store: StoreConfig{
				Backend:        "auto",
				DatabaseURLEnv: "DATABASE_URL",
			},
			Broadcast: BroadcastConfig{
				SendBuffer:   DefaultSendBuffer,
				WriteTimeout: DefaultWriteTimeout,
			},
			Kafka: KafkaConfig{
				Topic: DefaultKafkaTopic,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	switch cfg.Server.Store.Backend {
	case "auto", "postgres", "memory", "":
	default:
		return fmt.Errorf("server.store.backend %q unknown: want auto|postgres|memory", cfg.Server.Store.Backend)
	}
	if cfg.Server.Broadcast.SendBuffer < 1 {
		return fmt.Errorf("server.broadcast.send_buffer must be at least 1")
	}
	if cfg.Server.Broadcast.WriteTimeout <= 0 {
		return fmt.Errorf("server.broadcast.write_timeout must be positive")
	}
	if cfg.Server.Kafka.Enabled && len(cfg.Server.Kafka.Brokers) == 0 {
		return fmt.Errorf("server.kafka.enabled is true but no brokers are configured")
	}
	return nil
}

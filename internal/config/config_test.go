package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	p := writeConfig(t, `server: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Store.Backend != "auto" {
		t.Errorf("store.backend: got %q, want auto", cfg.Server.Store.Backend)
	}
	if cfg.Server.Store.DatabaseURLEnv != "DATABASE_URL" {
		t.Errorf("store.database_url_env: got %q, want DATABASE_URL", cfg.Server.Store.DatabaseURLEnv)
	}
	if cfg.Server.Broadcast.SendBuffer != DefaultSendBuffer {
		t.Errorf("broadcast.send_buffer: got %d, want %d", cfg.Server.Broadcast.SendBuffer, DefaultSendBuffer)
	}
	if cfg.Server.Broadcast.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("broadcast.write_timeout: got %v, want %v", cfg.Server.Broadcast.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Server.Kafka.Enabled {
		t.Error("kafka should default to disabled")
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9091
  auth:
    mode: apikey
    key_env: MY_KEY
    header: x-cosmic-key
  store:
    backend: memory
    fixtures: fixtures/points.yaml
  broadcast:
    send_buffer: 64
    write_timeout: 3s
  kafka:
    enabled: true
    brokers: ["localhost:9092"]
    topic: env-events
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", cfg.Server.HTTPPort)
	}
	if cfg.Server.Auth.EffectiveHeader() != "x-cosmic-key" {
		t.Errorf("header: got %q, want x-cosmic-key", cfg.Server.Auth.EffectiveHeader())
	}
	if cfg.Server.Store.Backend != "memory" {
		t.Errorf("store.backend: got %q, want memory", cfg.Server.Store.Backend)
	}
	if cfg.Server.Store.Fixtures != "fixtures/points.yaml" {
		t.Errorf("store.fixtures: got %q", cfg.Server.Store.Fixtures)
	}
	if cfg.Server.Broadcast.WriteTimeout != 3*time.Second {
		t.Errorf("broadcast.write_timeout: got %v, want 3s", cfg.Server.Broadcast.WriteTimeout)
	}
	if cfg.Server.Kafka.Topic != "env-events" {
		t.Errorf("kafka.topic: got %q, want env-events", cfg.Server.Kafka.Topic)
	}
}

func TestLoad_DefaultHeader(t *testing.T) {
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: K
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h := cfg.Server.Auth.EffectiveHeader(); h != "x-api-key" {
		t.Errorf("EffectiveHeader: got %q, want x-api-key", h)
	}
}

func TestLoad_KeyEnvResolution(t *testing.T) {
	t.Setenv("TEST_COSMIC_KEY", "supersecret")
	p := writeConfig(t, `server:
  auth:
    mode: apikey
    key_env: TEST_COSMIC_KEY
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k := cfg.Server.Auth.Key(); k != "supersecret" {
		t.Errorf("Key(): got %q, want supersecret", k)
	}
}

func TestLoad_DatabaseURLResolution(t *testing.T) {
	t.Setenv("TEST_DB_URL", "postgres://localhost/cosmic")
	p := writeConfig(t, `server:
  store:
    database_url_env: TEST_DB_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if u := cfg.Server.Store.DatabaseURL(); u != "postgres://localhost/cosmic" {
		t.Errorf("DatabaseURL(): got %q", u)
	}
}

func TestLoad_AlertRules(t *testing.T) {
	p := writeConfig(t, `server:
  alerts:
    rules:
      - name: high-risk-zone
        condition: "risk_level == high"
        severity: critical
        cooldown: 5m
    webhooks:
      - type: slack
        url_env: SLACK_WEBHOOK_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Server.Alerts.Rules) != 1 {
		t.Fatalf("rules: got %d, want 1", len(cfg.Server.Alerts.Rules))
	}
	r := cfg.Server.Alerts.Rules[0]
	if r.Condition != "risk_level == high" || r.Cooldown != 5*time.Minute {
		t.Errorf("rule: got %+v", r)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "server:\n  http_port: 70000\n"},
		{"unknown auth mode", "server:\n  auth:\n    mode: oauth\n"},
		{"unknown backend", "server:\n  store:\n    backend: sqlite\n"},
		{"zero send buffer", "server:\n  broadcast:\n    send_buffer: -1\n"},
		{"kafka without brokers", "server:\n  kafka:\n    enabled: true\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Error("Load: expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load: expected error for missing file")
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func productionConfig() *Config {
	return &Config{
		Environment:          EnvProduction,
		LogLevel:             "info",
		SessionAuthKey:       strings.Repeat("a", 32),
		SessionEncryptionKey: strings.Repeat("b", 32),
		SessionTTL:           time.Hour,
		AuthRequired:         true,
		TxMaxRetries:         3,
		TraceSampleRatio:     0.25,
	}
}

func TestValidateForProduction_NonProductionSkipped(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, LogLevel: "debug"}
	if err := ValidateForProduction(cfg); err != nil {
		t.Fatalf("expected nil for development config, got %v", err)
	}
}

func TestValidateForProduction_Valid(t *testing.T) {
	if err := ValidateForProduction(productionConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateForProduction_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"short auth key", func(c *Config) { c.SessionAuthKey = "short" }, "SESSION_AUTH_KEY"},
		{"short encryption key", func(c *Config) { c.SessionEncryptionKey = "short" }, "SESSION_ENCRYPTION_KEY"},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
		{"auth disabled", func(c *Config) { c.AuthRequired = false }, "AUTH_REQUIRED"},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"sample ratio above one", func(c *Config) { c.TraceSampleRatio = 1.5 }, "TRACE_SAMPLE_RATIO"},
		{"no tx retries", func(c *Config) { c.TxMaxRetries = 0 }, "TX_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := productionConfig()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected %q in error, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestIsProduction(t *testing.T) {
	if (&Config{Environment: EnvProduction}).IsProduction() != true {
		t.Error("expected production config to report IsProduction")
	}
	if (&Config{Environment: EnvTesting}).IsProduction() {
		t.Error("expected testing config not to report IsProduction")
	}
}

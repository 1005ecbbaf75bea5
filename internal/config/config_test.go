package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"QUICKMART_HTTP_ADDR", "QUICKMART_DB_DRIVER", "QUICKMART_REDIS_ADDR",
		"QUICKMART_TX_TIMEOUT", "QUICKMART_CORS_ORIGINS", "QUICKMART_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DBDriver != "sqlite" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected idempotency guard disabled by default, got %q", cfg.RedisAddr)
	}
	if cfg.TxTimeout != 5*time.Second {
		t.Errorf("expected 5s tx timeout, got %v", cfg.TxTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("QUICKMART_DB_DRIVER", "mysql")
	t.Setenv("QUICKMART_TX_TIMEOUT", "750ms")
	t.Setenv("QUICKMART_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("QUICKMART_LOG_LEVEL", "debug")
	t.Setenv("QUICKMART_SEED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBDriver != "mysql" || cfg.TxTimeout != 750*time.Millisecond || !cfg.Seed {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.LogLevel != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"QUICKMART_DB_DRIVER":  "postgres",
		"QUICKMART_TX_TIMEOUT": "soon",
		"QUICKMART_SEED":       "maybe",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", k, v)
			}
		})
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.BodyLimitMB != 25 {
		t.Errorf("BodyLimitMB = %d, want 25", cfg.BodyLimitMB)
	}
	if cfg.CORSOrigins != "*" {
		t.Errorf("CORSOrigins = %q, want *", cfg.CORSOrigins)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.StorageBucket != "" {
		t.Errorf("StorageBucket = %q, want empty", cfg.StorageBucket)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BODY_LIMIT_MB", "50")
	t.Setenv("STORAGE_BUCKET", "activities")
	t.Setenv("STORAGE_PATH_STYLE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "15m")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.BodyLimitMB != 50 {
		t.Errorf("BodyLimitMB = %d, want 50", cfg.BodyLimitMB)
	}
	if cfg.StorageBucket != "activities" {
		t.Errorf("StorageBucket = %q, want activities", cfg.StorageBucket)
	}
	if !cfg.StoragePathStyle {
		t.Error("StoragePathStyle = false, want true")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.CacheTTL)
	}
}

func TestBodyLimitBytes(t *testing.T) {
	cfg := Config{BodyLimitMB: 25}
	if got := cfg.BodyLimitBytes(); got != 25*1024*1024 {
		t.Errorf("BodyLimitBytes() = %d, want %d", got, 25*1024*1024)
	}
}

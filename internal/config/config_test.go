package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadReadsYAML(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
logLevel: debug
dataDir: ./data
redisAddr: localhost:6379
groqApiKey: test-key
chatRateLimitPerMinute: 20
analysisRateLimitPerMinute: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ChatRateLimitPerMinute != 20 {
		t.Fatalf("unexpected chat rate limit %d", cfg.ChatRateLimitPerMinute)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
dataDir: ./data
redisAddr: localhost:6379
groqApiKey: file-key
`)
	t.Setenv("GROQ_API_KEY", "env-key")
	t.Setenv("INSURIA_MAX_UPLOAD_BYTES", "1024")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GroqAPIKey != "env-key" {
		t.Fatalf("env override not applied: %q", cfg.GroqAPIKey)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("env override not applied: %d", cfg.MaxUploadBytes)
	}
}

func TestLoadRejectsMissingGroqKey(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
dataDir: ./data
redisAddr: localhost:6379
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for missing groqApiKey")
	}
}

func TestLoadRejectsMissingSessionBackend(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
dataDir: ./data
groqApiKey: test-key
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for missing session backend")
	}
}

func TestParseSessionTTL(t *testing.T) {
	dur, err := ParseSessionTTL("24h")
	if err != nil || dur != 24*time.Hour {
		t.Fatalf("parse ttl: dur=%v err=%v", dur, err)
	}
	if _, err := ParseSessionTTL("not-a-duration"); err == nil {
		t.Fatalf("expected error for bad duration")
	}
	dur, err = ParseSessionTTL("")
	if err != nil || dur != 0 {
		t.Fatalf("empty ttl should be zero, got dur=%v err=%v", dur, err)
	}
}

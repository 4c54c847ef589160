package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if got := cfg.DocParseURL(); got != "https://www.dmxapi.cn/v1/responses" {
		t.Fatalf("DocParseURL = %s", got)
	}
	if got := cfg.ChatURL(); got != "https://www.dmxapi.cn/v1/chat/completions" {
		t.Fatalf("ChatURL = %s", got)
	}
	if cfg.StorageTTL != 7*24*time.Hour {
		t.Fatalf("StorageTTL = %s", cfg.StorageTTL)
	}
}

func TestLoadReadsPrefixedEnv(t *testing.T) {
	t.Setenv("DOCRELAY_API_KEY", "sk-env")
	t.Setenv("DOCRELAY_BASE_URL", "http://localhost:9000/v1/")
	t.Setenv("DOCRELAY_CHAT_PATH", "chat")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "sk-env" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("RequireAPIKey: %v", err)
	}
	if got := cfg.ChatURL(); got != "http://localhost:9000/v1/chat" {
		t.Fatalf("ChatURL = %s", got)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	v := New()
	v.Set("request_timeout_seconds", 0)
	if _, err := Load(v); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestRequireAPIKeyMissing(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireAPIKey(); err == nil {
		t.Fatalf("expected error without api key")
	}
}

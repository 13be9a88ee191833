package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8620" {
		t.Errorf("expected default port 8620, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
	if cfg.TokenTTLMinutes != 720 {
		t.Errorf("expected default TTL 720, got %d", cfg.TokenTTLMinutes)
	}
}

func TestConfig_DBPath(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/ivprep"}
	want := filepath.Join("/var/lib/ivprep", DBFileName)
	if got := cfg.DBPath(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestValidate_RequiresSecretOutsideDev(t *testing.T) {
	cfg := &Config{Env: "production", DataDir: "./data", TokenTTLMinutes: 60}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "TOKEN_SECRET") {
		t.Errorf("expected TOKEN_SECRET error, got %v", err)
	}
}

func TestValidate_RejectsShortSecret(t *testing.T) {
	cfg := &Config{Env: "production", DataDir: "./data", TokenTTLMinutes: 60, TokenSecret: "short"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestValidate_DevWithoutSecret(t *testing.T) {
	cfg := &Config{Env: "development", DataDir: "./data", TokenTTLMinutes: 60}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

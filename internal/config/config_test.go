package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Printing.SendTimeout != 10*time.Second {
		t.Fatalf("expected default send timeout 10s, got %v", cfg.Printing.SendTimeout)
	}
	if cfg.Printing.SettleDelay != 500*time.Millisecond {
		t.Fatalf("expected default settle delay 500ms, got %v", cfg.Printing.SettleDelay)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paleta.yaml")
	data := []byte("server:\n  port: 9000\ncompany:\n  name: Palumbo Foods LLC\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("PALETA_PORT", "9001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Fatalf("env override lost: port = %d", cfg.Server.Port)
	}
	if cfg.Company.Name != "Palumbo Foods LLC" {
		t.Fatalf("file value lost: company = %q", cfg.Company.Name)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for port 0")
	}

	cfg = defaults()
	cfg.Printing.MaxCopies = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero max copies")
	}
}

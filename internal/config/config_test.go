package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDefaultsWhenConfigMissing(t *testing.T) {
	homeDir := t.TempDir()
	cfg, err := New(homeDir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.APIBaseURL() != "http://localhost:8080/api/v2" {
		t.Fatalf("default base url, got %q", cfg.APIBaseURL())
	}
	if !strings.HasPrefix(cfg.ExportDir(), homeDir) {
		t.Fatalf("relative export dir must anchor at home, got %q", cfg.ExportDir())
	}
}

func TestNewParsesYaml(t *testing.T) {
	homeDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
api_base_url: https://join.xdsec.club/api/v2/
export_dir: /tmp/exports
`)
	if err := os.WriteFile(filepath.Join(homeDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := New(homeDir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.APIBaseURL() != "https://join.xdsec.club/api/v2" {
		t.Fatalf("base url should be trimmed of trailing slash, got %q", cfg.APIBaseURL())
	}
	if cfg.ExportDir() != "/tmp/exports" {
		t.Fatalf("absolute export dir kept as-is, got %q", cfg.ExportDir())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	homeDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(homeDir, "config.yaml"),
		[]byte("api_base_url: http://file.example/api\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDSEC_API_BASE", "http://env.example/api")
	cfg, err := New(homeDir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if cfg.APIBaseURL() != "http://env.example/api" {
		t.Fatalf("env must win, got %q", cfg.APIBaseURL())
	}
}

func TestInitHomeDirWritesDefaultConfigOnce(t *testing.T) {
	homeDir := t.TempDir()
	if err := InitHomeDir(homeDir); err != nil {
		t.Fatalf("init home dir: %v", err)
	}
	for _, sub := range []string{"logs", "exports"} {
		if _, err := os.Stat(filepath.Join(homeDir, sub)); err != nil {
			t.Fatalf("expected %s dir: %v", sub, err)
		}
	}
	custom := []byte("api_base_url: http://keep.me/api\n")
	if err := os.WriteFile(filepath.Join(homeDir, "config.yaml"), custom, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitHomeDir(homeDir); err != nil {
		t.Fatalf("re-init home dir: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(homeDir, "config.yaml"))
	if err != nil || string(raw) != string(custom) {
		t.Fatalf("existing config must not be overwritten, got %q", raw)
	}
}

func TestResolveHomeDirEnvOverride(t *testing.T) {
	t.Setenv("XDSEC_RECRUIT_HOME", "/srv/recruit-home")
	dir, err := ResolveHomeDir()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dir != "/srv/recruit-home" {
		t.Fatalf("env override ignored, got %q", dir)
	}
}

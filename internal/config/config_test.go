package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
  host: "127.0.0.1"
auth:
  token: "secrettoken"
  jwt_secret: "jwtkey"
presence:
  snapshot_interval: 10s
  max_room_size: 4
state:
  dir: "/var/lib/lingualoop"
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Auth.Token != "secrettoken" {
		t.Errorf("Auth.Token = %q, want secrettoken", cfg.Auth.Token)
	}
	if cfg.Auth.JWTSecret != "jwtkey" {
		t.Errorf("Auth.JWTSecret = %q, want jwtkey", cfg.Auth.JWTSecret)
	}
	if cfg.Presence.SnapshotInterval != 10*time.Second {
		t.Errorf("Presence.SnapshotInterval = %v, want 10s", cfg.Presence.SnapshotInterval)
	}
	if cfg.Presence.MaxRoomSize != 4 {
		t.Errorf("Presence.MaxRoomSize = %d, want 4", cfg.Presence.MaxRoomSize)
	}
	if cfg.State.Dir != "/var/lib/lingualoop" {
		t.Errorf("State.Dir = %q, want /var/lib/lingualoop", cfg.State.Dir)
	}

	// Defaults still apply to unspecified fields.
	if cfg.Presence.BroadcastThrottle != 100*time.Millisecond {
		t.Errorf("Presence.BroadcastThrottle = %v, want default 100ms", cfg.Presence.BroadcastThrottle)
	}
	if cfg.Learning.SessionWindow != 100 {
		t.Errorf("Learning.SessionWindow = %d, want default 100", cfg.Learning.SessionWindow)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("Load() on missing file should return error")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Presence.MaxRoomSize != 8 {
		t.Errorf("Presence.MaxRoomSize = %d, want default 8", cfg.Presence.MaxRoomSize)
	}
	if cfg.Auth.Token != "" {
		t.Errorf("Auth.Token = %q, want empty default", cfg.Auth.Token)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte(":::not valid yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() with invalid YAML should return error")
	}
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if len(tok) != 32 { // 16 bytes = 32 hex chars
		t.Errorf("token length = %d, want 32", len(tok))
	}

	tok2, _ := GenerateToken()
	if tok == tok2 {
		t.Error("two generated tokens should not be identical")
	}
}

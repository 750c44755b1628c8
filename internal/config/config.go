package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Presence PresenceConfig `yaml:"presence"`
	Learning LearningConfig `yaml:"learning"`
	State    StateConfig    `yaml:"state"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// AllowedOrigins lists websocket origins accepted beyond same-host
	// and localhost. Empty keeps the built-in policy.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AuthConfig struct {
	// Token is a static bearer token accepted on every endpoint. Empty
	// disables static-token auth.
	Token string `yaml:"token"`
	// JWTSecret verifies HS256 bearer tokens carrying the user ID in
	// the subject claim. Empty disables JWT auth.
	JWTSecret string `yaml:"jwt_secret"`
}

type PresenceConfig struct {
	SnapshotInterval  time.Duration `yaml:"snapshot_interval"`
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
	MaxRoomSize       int           `yaml:"max_room_size"`
}

type LearningConfig struct {
	// SessionWindow caps retained session history per learner.
	SessionWindow int `yaml:"session_window"`
}

type StateConfig struct {
	// Dir is where profiles are persisted. Empty uses the XDG default.
	Dir string `yaml:"dir"`
}

// Defaults returns the built-in configuration used when no file is
// given.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Presence: PresenceConfig{
			SnapshotInterval:  5 * time.Second,
			BroadcastThrottle: 100 * time.Millisecond,
			MaxRoomSize:       8,
		},
		Learning: LearningConfig{
			SessionWindow: 100,
		},
	}
}

// Load reads a YAML config file over the defaults. Fields absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads the config file if it exists, otherwise returns
// the defaults. Any other read or parse error is still reported.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	return cfg, err
}

// GenerateToken returns a random 32-character hex token suitable for
// static bearer auth.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

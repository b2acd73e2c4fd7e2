// Package config owns the server settings and the authentication material:
// the persisted secret/salt pair and the per-process session challenge used
// by the Authenticate handshake.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = 4444

	saltBytes = 16
)

// Settings is the persisted portion of the configuration.
type Settings struct {
	ServerEnabled bool   `yaml:"server_enabled"`
	ServerPort    uint16 `yaml:"server_port"`
	AuthRequired  bool   `yaml:"auth_required"`
	Secret        string `yaml:"auth_secret"`
	Salt          string `yaml:"auth_salt"`
	DebugEnabled  bool   `yaml:"debug_enabled"`
	AlertsEnabled bool   `yaml:"alerts_enabled"`
}

// Config is safe for concurrent reads and serialized writes. One instance is
// constructed by the composition root and injected everywhere it is needed.
type Config struct {
	mu        sync.RWMutex
	path      string
	settings  Settings
	challenge string
}

func defaultSettings() Settings {
	return Settings{
		ServerEnabled: true,
		ServerPort:    DefaultPort,
		AlertsEnabled: true,
	}
}

// Default returns a config with default settings and a fresh challenge.
func Default() *Config {
	return &Config{
		settings:  defaultSettings(),
		challenge: mustGenerateSalt(),
	}
}

// Load reads settings from a yaml file. A missing file yields defaults; a
// malformed file is reported but still leaves defaults in place, since a bad
// config must never prevent the host application from starting.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	settings := defaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	cfg.settings = settings
	return cfg, nil
}

// Save writes the persisted settings back to the file Load read them from.
func (c *Config) Save() error {
	c.mu.RLock()
	path := c.path
	settings := c.settings
	c.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("save config: no file path configured")
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// GenerateSecret derives the persisted secret from a password and salt:
// base64(SHA256(password ++ salt)). Deterministic, no side effects. The same
// construction also derives the expected challenge response, with (secret,
// challenge) as inputs.
func GenerateSecret(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// GenerateSalt returns base64 of 16 cryptographically random bytes.
func GenerateSalt() (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func mustGenerateSalt() string {
	salt, err := GenerateSalt()
	if err != nil {
		// crypto/rand failing means the platform is unusable
		panic(err)
	}
	return salt
}

// SetPassword regenerates the salt and re-derives the secret. The two always
// change together: a new salt with a stale secret would break CheckAuth.
func (c *Config) SetPassword(password string) error {
	salt, err := GenerateSalt()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.settings.Salt = salt
	c.settings.Secret = GenerateSecret(password, salt)
	c.settings.AuthRequired = true
	c.mu.Unlock()
	return nil
}

// CheckAuth verifies a client's challenge response in constant time. The
// challenge is consumed by the attempt, pass or fail: a captured response
// cannot be replayed against a later handshake.
func (c *Config) CheckAuth(response string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expected := GenerateSecret(c.settings.Secret, c.challenge)
	ok := subtle.ConstantTimeCompare([]byte(expected), []byte(response)) == 1

	fresh, err := GenerateSalt()
	if err != nil {
		log.Printf("[Config] challenge rotation failed: %v", err)
	} else {
		c.challenge = fresh
	}
	return ok
}

// SessionChallenge returns the nonce for the next authentication handshake.
func (c *Config) SessionChallenge() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.challenge
}

func (c *Config) ServerEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.ServerEnabled
}

func (c *Config) ServerPort() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.ServerPort
}

func (c *Config) AuthRequired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.AuthRequired
}

func (c *Config) SetAuthRequired(required bool) {
	c.mu.Lock()
	c.settings.AuthRequired = required
	c.mu.Unlock()
}

func (c *Config) Salt() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Salt
}

func (c *Config) DebugEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.DebugEnabled
}

func (c *Config) SetDebugEnabled(enabled bool) {
	c.mu.Lock()
	c.settings.DebugEnabled = enabled
	c.mu.Unlock()
}

func (c *Config) AlertsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.AlertsEnabled
}

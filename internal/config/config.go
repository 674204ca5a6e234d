package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	PageSize int         `toml:"page_size"`
	RelayURL string      `toml:"relay_url"`
	Relay    RelayConfig `toml:"relay"`

	dir string
}

type RelayConfig struct {
	ListenAddr string `toml:"listen_addr"`
	WebhookURL string `toml:"webhook_url"`
	// DatabaseURL overrides the viewer credentials for the relay's durable
	// sink; endpoint syntax, same as `chatlens connect`.
	DatabaseURL string `toml:"database_url"`
}

// Credentials are the two persisted connection fields, written only after a
// successful probe and removed on disconnect.
type Credentials struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadDir(filepath.Join(home, ".config", "chatlens"))
}

// LoadDir loads config from the given directory, applying defaults for
// anything missing. A missing config file is not an error.
func LoadDir(dir string) (*Config, error) {
	cfg := &Config{
		PageSize: 1000,
		RelayURL: "http://localhost:8787",
		Relay: RelayConfig{
			ListenAddr: ":8787",
		},
		dir: dir,
	}

	cfgPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}

	return cfg, nil
}

func (c *Config) credentialsPath() string {
	return filepath.Join(c.dir, "credentials.toml")
}

// Credentials reads the persisted connection fields. Returns nil when none
// are saved.
func (c *Config) Credentials() (*Credentials, error) {
	path := c.credentialsPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	if creds.Endpoint == "" {
		return nil, nil
	}
	return &creds, nil
}

// SaveCredentials persists the connection fields, creating the config dir if
// needed. The file carries the access key, so keep it owner-only.
func (c *Config) SaveCredentials(creds Credentials) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(c.credentialsPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(creds)
}

// ClearCredentials removes the persisted fields. Clearing when nothing is
// saved is fine.
func (c *Config) ClearCredentials() error {
	if err := os.Remove(c.credentialsPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

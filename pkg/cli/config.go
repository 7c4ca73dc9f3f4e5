package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"textbook-admin/pkg/client"
)

const defaultProfile = "default"

// UserConfig is ~/.textbook/config.yaml.
type UserConfig struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is one named backend plus the session signed in to it. User holds
// the JSON-encoded user record, the same value the browser kept next to the
// token.
type Profile struct {
	Host   string `yaml:"host,omitempty"`
	Token  string `yaml:"token,omitempty"`
	User   string `yaml:"user,omitempty"`
	Output string `yaml:"output,omitempty"`
}

func newUserConfig() *UserConfig {
	return &UserConfig{CurrentProfile: defaultProfile, Profiles: map[string]Profile{}}
}

// ProfileName resolves the profile in use: override, then current-profile,
// then "default".
func (c *UserConfig) ProfileName(override string) string {
	switch {
	case override != "":
		return override
	case c.CurrentProfile != "":
		return c.CurrentProfile
	default:
		return defaultProfile
	}
}

// ActiveProfile returns the selected profile. Naming a profile that does not
// exist is an error; a missing current profile is just empty.
func (c *UserConfig) ActiveProfile(override string) (Profile, error) {
	p, ok := c.Profiles[c.ProfileName(override)]
	if !ok && override != "" {
		return Profile{}, fmt.Errorf("profile %q not found", override)
	}
	return p, nil
}

// ConfigDir returns ~/.textbook.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".textbook"
	}
	return filepath.Join(home, ".textbook")
}

// ConfigPath returns ~/.textbook/config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LoadUserConfig reads the config file. A missing file yields an empty
// config and os.ErrNotExist so callers can tell the two apart.
func LoadUserConfig() (*UserConfig, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newUserConfig(), fmt.Errorf("read config: %w", err)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := newUserConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", ConfigPath(), err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	return cfg, nil
}

// loadOrNewConfig tolerates a missing file but not a broken one.
func loadOrNewConfig() (*UserConfig, error) {
	cfg, err := LoadUserConfig()
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

// SaveUserConfig writes the config file with owner-only permissions; it
// holds access tokens.
func SaveUserConfig(cfg *UserConfig) error {
	if err := os.MkdirAll(ConfigDir(), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o600)
}

// profileStore keeps a client session in one profile of the config file.
type profileStore struct {
	name string
}

func (s profileStore) LoadSession() (client.Session, error) {
	cfg, err := loadOrNewConfig()
	if err != nil {
		return client.Session{}, err
	}
	p := cfg.Profiles[s.name]
	user, err := client.DecodeUser(p.User)
	if err != nil {
		user = nil
	}
	return client.Session{Token: p.Token, User: user}, nil
}

func (s profileStore) SaveSession(sess client.Session) error {
	userJSON, err := client.EncodeUser(sess.User)
	if err != nil {
		return err
	}
	return s.update(func(p *Profile) {
		p.Token = sess.Token
		p.User = userJSON
	})
}

func (s profileStore) ClearSession() error {
	return s.update(func(p *Profile) {
		p.Token = ""
		p.User = ""
	})
}

func (s profileStore) update(fn func(*Profile)) error {
	cfg, err := loadOrNewConfig()
	if err != nil {
		return err
	}
	p := cfg.Profiles[s.name]
	fn(&p)
	cfg.Profiles[s.name] = p
	return SaveUserConfig(cfg)
}

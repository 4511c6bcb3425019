// Package config loads the optional CLI profile from ~/.nlm/config.toml.
// Everything in the profile is an override; the zero value targets the
// production service with built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Profile struct {
	Host     string `toml:"host"`
	App      string `toml:"app"`
	Debug    bool   `toml:"debug"`
	AuthFile string `toml:"auth_file"`

	Headers   map[string]string `toml:"headers"`
	URLParams map[string]string `toml:"url_params"`
}

// DefaultProfilePath is ~/.nlm/config.toml.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nlm", "config.toml"), nil
}

// LoadProfile reads a profile from path. A missing file yields the zero
// profile so the CLI works with no configuration at all.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return p, nil
}

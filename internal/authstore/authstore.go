// Package authstore persists NotebookLM credentials and resolves them from
// flags, environment and the on-disk store in that order.
package authstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	envAuthToken      = "NLM_AUTH_TOKEN"
	envCookies        = "NLM_COOKIES"
	envBrowserProfile = "NLM_BROWSER_PROFILE"
)

// Credentials is the stored session material: the anti-CSRF token and the
// browser cookie string it was issued alongside.
type Credentials struct {
	AuthToken      string    `toml:"auth_token"`
	Cookies        string    `toml:"cookies"`
	BrowserProfile string    `toml:"browser_profile,omitempty"`
	SavedAt        time.Time `toml:"saved_at,omitempty"`
}

// Complete reports whether the credentials are usable for API calls.
func (c Credentials) Complete() bool {
	return c.AuthToken != "" && c.Cookies != ""
}

// DefaultPath is the conventional store location, ~/.nlm/auth.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("authstore: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".nlm", "auth.toml"), nil
}

// Load reads credentials from path.
func Load(path string) (Credentials, error) {
	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return Credentials{}, fmt.Errorf("authstore: load %s: %w", path, err)
	}
	return creds, nil
}

// Save writes credentials to path, stamping SavedAt. The store directory is
// created with owner-only permissions since the file holds session cookies.
func Save(path string, creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("authstore: create store dir: %w", err)
	}
	creds.SavedAt = time.Now().UTC()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("authstore: open %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(creds); err != nil {
		return fmt.Errorf("authstore: encode %s: %w", path, err)
	}
	return nil
}

// Resolve assembles credentials with flags taking precedence over the
// environment, and the environment over the stored file. A missing store file
// is not an error; callers check Complete on the result.
func Resolve(flagToken, flagCookies, path string) (Credentials, error) {
	creds := Credentials{AuthToken: flagToken, Cookies: flagCookies}
	if creds.AuthToken == "" {
		creds.AuthToken = os.Getenv(envAuthToken)
	}
	if creds.Cookies == "" {
		creds.Cookies = os.Getenv(envCookies)
	}
	creds.BrowserProfile = os.Getenv(envBrowserProfile)
	if creds.Complete() {
		return creds, nil
	}

	stored, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, nil
		}
		return Credentials{}, err
	}
	if creds.AuthToken == "" {
		creds.AuthToken = stored.AuthToken
	}
	if creds.Cookies == "" {
		creds.Cookies = stored.Cookies
	}
	if creds.BrowserProfile == "" {
		creds.BrowserProfile = stored.BrowserProfile
	}
	creds.SavedAt = stored.SavedAt
	return creds, nil
}

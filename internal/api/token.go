package api

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile stores the bearer token on disk. It is the only client state that
// survives a restart.
type TokenFile struct {
	Path string
}

// Token returns the stored token, or "" when absent or unreadable. A missing
// token is a normal state ("not logged in yet"), not an error.
func (t TokenFile) Token() string {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes the token with owner-only permissions.
func (t TokenFile) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("refusing to save empty token")
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(t.Path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (t TokenFile) Clear() error {
	err := os.Remove(t.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

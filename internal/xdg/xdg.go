// Package xdg resolves XDG Base Directory paths for fiddle.
//
// Configuration lives under $XDG_CONFIG_HOME/fiddle; the persisted session, the
// last share token and the log file live under $XDG_STATE_HOME/fiddle. Both fall
// back to the traditional locations below $HOME when the variables are unset.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below every XDG base directory.
const AppName = "fiddle"

// ConfigDir returns the XDG config directory for fiddle, creating it with
// private permissions (0700) when missing.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for fiddle, creating it with
// private permissions (0700) when missing.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

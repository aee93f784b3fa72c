// Package config loads the receipts client settings from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user config and data directories.
const AppName = "receipts"

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}

// ConfigDir is $XDG_CONFIG_HOME/receipts, or ~/.config/receipts.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", "~/.config")
}

// DataDir is $XDG_DATA_HOME/receipts, or ~/.local/share/receipts.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", "~/.local/share")
}

// StateDir is $XDG_STATE_HOME/receipts, or ~/.local/state/receipts.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", "~/.local/state")
}

// ConfigFile returns name inside ConfigDir.
func ConfigFile(name string) string {
	return filepath.Join(ConfigDir(), name)
}

func xdgDir(env, fallback string) string {
	base := os.Getenv(env)
	if base == "" {
		base = fallback
	}
	return filepath.Join(ExpandPath(base), AppName)
}

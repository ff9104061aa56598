// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "pinyipe"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDictPath returns the default dictionary asset path.
func DefaultDictPath() string {
	return filepath.Join(XDGDataHome(), appName, "dict.msgpack")
}

// DefaultTriePath returns the default packed trie path.
func DefaultTriePath() string {
	return filepath.Join(XDGDataHome(), appName, "pinyin.ptrie")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

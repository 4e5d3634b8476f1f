// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package xdg locates propctl's files under the XDG Base Directory layout.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "propctl"

// ConfigFileName is the file looked up in ConfigDir when no config path is
// given explicitly.
const ConfigFileName = "config.yaml"

// ConfigDir returns the XDG config directory for propctl.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path and whether a regular
// file exists there.
func ConfigFile() (string, bool) {
	path := filepath.Join(ConfigDir(), ConfigFileName)
	info, err := os.Stat(path)
	return path, err == nil && info.Mode().IsRegular()
}

// Package config resolves the user-scoped location of the xfer profile store.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application name used for the config directory.
	AppName = "xfer"
	// StoreFileName is the profile store file name inside the config directory.
	StoreFileName = "config.yaml"
	// LockDirName is the lock directory name used to serialize store mutations.
	LockDirName = "config.lock"
)

// StorePath returns the path to the profile store file.
// Resolution order:
//  1. XFER_CONFIG environment variable (explicit override, used in tests)
//  2. $XDG_CONFIG_HOME/xfer/config.yaml
//  3. ~/.config/xfer/config.yaml
func StorePath() string {
	if path := os.Getenv("XFER_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(configDir(), StoreFileName)
}

// LockPath returns the lock directory path guarding the store file.
func LockPath() string {
	return LockPathFor(StorePath())
}

// LockPathFor derives the lock directory path for a store file. The lock
// always lives next to the store so two invocations pointed at the same
// store contend on the same lock.
func LockPathFor(storePath string) string {
	return storePath + ".lock"
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Last resort: hidden dir relative to the working directory
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

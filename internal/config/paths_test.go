package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorePathExplicitOverride(t *testing.T) {
	t.Setenv("XFER_CONFIG", "/tmp/custom/store.yaml")

	assert.Equal(t, "/tmp/custom/store.yaml", StorePath())
	assert.Equal(t, "/tmp/custom/store.yaml.lock", LockPath())
}

func TestStorePathXDG(t *testing.T) {
	t.Setenv("XFER_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	assert.Equal(t, filepath.Join("/tmp/xdg", "xfer", "config.yaml"), StorePath())
}

func TestStorePathHomeFallback(t *testing.T) {
	t.Setenv("XFER_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/tmp/home")

	assert.Equal(t, filepath.Join("/tmp/home", ".config", "xfer", "config.yaml"), StorePath())
}

func TestLockPathNextToStore(t *testing.T) {
	t.Setenv("XFER_CONFIG", "/x/y/servers.yaml")

	assert.Equal(t, filepath.Dir(StorePath()), filepath.Dir(LockPath()))
	assert.Equal(t, LockPathFor(StorePath()), LockPath())
}

func TestLockPathFor(t *testing.T) {
	assert.Equal(t, "/x/y/servers.yaml.lock", LockPathFor("/x/y/servers.yaml"))
}

package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mutasim/xfer/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCheckEmptyStoreWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	result := (&StoreCheck{Path: path}).Run()
	assert.Equal(t, StatusWarn, result.Status)
}

func TestStoreCheckWithProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := profile.Load(path)
	require.NoError(t, err)
	require.NoError(t, store.Add(profile.ServerProfile{Alias: "web", Host: "example.com"}))

	result := (&StoreCheck{Path: path}).Run()
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "1 profile")
}

func TestStoreCheckCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servers: [not: valid: yaml"), 0600))

	result := (&StoreCheck{Path: path}).Run()
	assert.Equal(t, StatusFail, result.Status)
}

func TestKeyCheckNoKeyConfigured(t *testing.T) {
	result := (&KeyCheck{Profile: profile.ServerProfile{Alias: "web", Host: "example.com"}}).Run()
	assert.Equal(t, StatusPass, result.Status)
}

func TestKeyCheckMissingFile(t *testing.T) {
	p := profile.ServerProfile{Alias: "web", Host: "example.com", KeyPath: "/nonexistent/key"}
	result := (&KeyCheck{Profile: p}).Run()
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "not readable")
}

func TestKeyCheckGarbageKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a key"), 0600))

	p := profile.ServerProfile{Alias: "web", Host: "example.com", KeyPath: keyPath}
	result := (&KeyCheck{Profile: p}).Run()
	assert.Equal(t, StatusFail, result.Status)
}

func TestNewStoreChecksIncludesKeyChecks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := profile.Load(path)
	require.NoError(t, err)
	require.NoError(t, store.Add(profile.ServerProfile{Alias: "a", Host: "h1"}))
	require.NoError(t, store.Add(profile.ServerProfile{Alias: "b", Host: "h2"}))

	checks := NewStoreChecks(path)
	assert.Len(t, checks, 3)
}

func TestNewStoreChecksCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servers: [broken"), 0600))

	checks := NewStoreChecks(path)
	assert.Len(t, checks, 1)
}

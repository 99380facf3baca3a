package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSSHConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportSSHConfigFile(t *testing.T) {
	path := writeSSHConfig(t, `
Host staging
  HostName 1.2.3.4
  User dev
  Port 2222
  IdentityFile /home/u/.ssh/staging

Host db
  HostName db.internal

Host *
  ServerAliveInterval 60
`)

	profiles, err := ImportSSHConfigFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, ServerProfile{
		Alias:   "staging",
		Host:    "1.2.3.4",
		User:    "dev",
		Port:    2222,
		KeyPath: "/home/u/.ssh/staging",
	}, profiles[0])

	assert.Equal(t, "db", profiles[1].Alias)
	assert.Equal(t, "db.internal", profiles[1].Host)
}

func TestImportSkipsWildcards(t *testing.T) {
	path := writeSSHConfig(t, `
Host *.internal
  User ops

Host bastion
  HostName bastion.example.com
`)

	profiles, err := ImportSSHConfigFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "bastion", profiles[0].Alias)
}

func TestImportHostWithoutHostName(t *testing.T) {
	path := writeSSHConfig(t, "Host plain\n  User me\n")

	profiles, err := ImportSSHConfigFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	// Alias doubles as the host when HostName is absent
	assert.Equal(t, "plain", profiles[0].Host)
	assert.Equal(t, "me", profiles[0].User)
}

func TestImportDefaultPortOmitted(t *testing.T) {
	path := writeSSHConfig(t, "Host a\n  HostName x\n  Port 22\n")

	profiles, err := ImportSSHConfigFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Zero(t, profiles[0].Port)
}

func TestImportMissingFile(t *testing.T) {
	profiles, err := ImportSSHConfigFile(filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestImportExpandsTildeIdentity(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := writeSSHConfig(t, "Host a\n  HostName x\n  IdentityFile ~/.ssh/id_ed25519\n")

	profiles, err := ImportSSHConfigFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), profiles[0].KeyPath)
}

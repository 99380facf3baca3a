package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorePathPrefersConfigFlag(t *testing.T) {
	orig := configFlag
	t.Cleanup(func() { configFlag = orig })

	configFlag = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", storePath())

	configFlag = ""
	t.Setenv("XFER_CONFIG", "/tmp/env.yaml")
	assert.Equal(t, "/tmp/env.yaml", storePath())
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
	assert.Equal(t, "", formatVersion(""))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"send", "get", "sync", "list", "server", "doctor", "version", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRsync(t *testing.T) {
	assert.Equal(t, "syntax or usage error", Classify("rsync", 1))
	assert.Equal(t, "partial transfer due to error", Classify("rsync", 23))
	assert.Equal(t, "partial transfer, source files vanished", Classify("rsync", 24))
	assert.Equal(t, "connection or authentication failure", Classify("rsync", 255))
	assert.Equal(t, "unrecognized exit code 99", Classify("rsync", 99))
}

func TestClassifySecureShell(t *testing.T) {
	assert.Equal(t, "transfer or remote command error", Classify("scp", 1))
	assert.Equal(t, "connection or authentication failure", Classify("ssh", 255))
	assert.Equal(t, "unrecognized exit code 42", Classify("scp", 42))
}

func TestClassifyUnknownTool(t *testing.T) {
	assert.Empty(t, Classify("curl", 1))
}

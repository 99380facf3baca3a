package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
	"github.com/mutasim/xfer/internal/transfer"
	xfertesting "github.com/mutasim/xfer/internal/transfer/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore creates a store with a staging profile backed by a real key file.
func testStore(t *testing.T) (*profile.Store, string) {
	t.Helper()
	dir := t.TempDir()

	keyPath := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, []byte("fake"), 0600))

	store, err := profile.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.Add(profile.ServerProfile{
		Alias:   "staging",
		Host:    "1.2.3.4",
		User:    "dev",
		Port:    2222,
		KeyPath: keyPath,
	}))
	return store, keyPath
}

func TestDispatchSendFile(t *testing.T) {
	store, keyPath := testStore(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	runner := xfertesting.NewFakeRunner()
	err := dispatch(runner, store, src, "staging:/var/www/", false)
	require.NoError(t, err)

	inv := runner.Last()
	assert.Equal(t, "scp", inv.Tool)
	assert.Equal(t, []string{"-i", keyPath, "-P", "2222", src, "dev@1.2.3.4:/var/www/"}, inv.Args)
}

func TestDispatchSendDirectoryUsesRsync(t *testing.T) {
	store, keyPath := testStore(t)
	srcDir := t.TempDir()

	runner := xfertesting.NewFakeRunner()
	err := dispatch(runner, store, srcDir, "staging:/srv/app", false)
	require.NoError(t, err)

	inv := runner.Last()
	assert.Equal(t, "rsync", inv.Tool)
	assert.Equal(t, transfer.DirectorySync, inv.Strategy)
	assert.Contains(t, inv.Args, "-e")
	assert.Contains(t, inv.Args, "ssh -i "+keyPath+" -p 2222")
}

func TestDispatchGetRemoteFile(t *testing.T) {
	store, _ := testStore(t)

	runner := xfertesting.NewFakeRunner()
	err := dispatch(runner, store, "staging:/var/log/app.log", ".", false)
	require.NoError(t, err)

	inv := runner.Last()
	assert.Equal(t, "scp", inv.Tool)
	assert.Contains(t, inv.Args, "dev@1.2.3.4:/var/log/app.log")
}

func TestDispatchRecursiveForcesRsync(t *testing.T) {
	store, _ := testStore(t)

	runner := xfertesting.NewFakeRunner()
	err := dispatch(runner, store, "staging:/srv/app", t.TempDir(), true)
	require.NoError(t, err)

	assert.Equal(t, "rsync", runner.Last().Tool)
}

func TestDispatchUnknownAlias(t *testing.T) {
	store, _ := testStore(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	runner := xfertesting.NewFakeRunner()
	err := dispatch(runner, store, src, "prod:/srv", false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnknownAlias))
	assert.Empty(t, runner.Invocations)
}

func TestDispatchMissingLocalSource(t *testing.T) {
	store, _ := testStore(t)

	runner := xfertesting.NewFakeRunner()
	err := dispatch(runner, store, "/nonexistent/file.txt", "staging:/srv", false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInvalidTarget))
	assert.Empty(t, runner.Invocations)
}

func TestDispatchMechanismFailure(t *testing.T) {
	store, _ := testStore(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	runner := &xfertesting.FakeRunner{ExitCode: 1, Diagnostic: "scp: permission denied"}
	err := dispatch(runner, store, src, "staging:/srv", false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMechanism))
	assert.Equal(t, errors.ExitMechanism, errors.ExitCode(err))
}

func TestListRemote(t *testing.T) {
	store, keyPath := testStore(t)

	runner := xfertesting.NewFakeRunner()
	err := listRemote(runner, store, "staging:/var/www")
	require.NoError(t, err)

	inv := runner.Last()
	assert.Equal(t, "ssh", inv.Tool)
	assert.Equal(t, []string{"-i", keyPath, "-p", "2222", "dev@1.2.3.4", "ls -la '/var/www'"}, inv.Args)
}

func TestListRemoteBareAlias(t *testing.T) {
	store, _ := testStore(t)

	runner := xfertesting.NewFakeRunner()
	err := listRemote(runner, store, "staging:")
	require.NoError(t, err)

	inv := runner.Last()
	assert.Equal(t, "ssh", inv.Tool)
	assert.Contains(t, inv.Args, "ls -la")
}

func TestDefaultDestination(t *testing.T) {
	store, _ := testStore(t)

	_, err := defaultDestination(store)
	require.Error(t, err)

	require.NoError(t, store.SetDefault("staging"))
	expr, err := defaultDestination(store)
	require.NoError(t, err)
	assert.Equal(t, "staging:", expr)
}

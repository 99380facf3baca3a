// Package lock serializes profile store mutations across concurrent CLI
// invocations. The store file is shared between processes, not between
// goroutines, so the lock is a filesystem primitive: mkdir is atomic on
// POSIX filesystems and fails if the directory already exists.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/logger"
)

// Lock represents an acquired lock on the profile store.
type Lock struct {
	Dir  string // The lock directory path
	Info *Info  // Info about the lock holder (us)
}

// Options controls acquisition behavior.
type Options struct {
	// Timeout is how long to wait for a held lock before giving up.
	Timeout time.Duration

	// Stale is the age after which a lock is considered abandoned.
	// Locks whose holder process is no longer alive are also stale.
	Stale time.Duration

	// Poll is the retry interval while waiting. Defaults to 100ms.
	Poll time.Duration
}

// DefaultOptions are tuned for store mutations, which hold the lock only for
// the duration of one read-modify-write cycle.
func DefaultOptions() Options {
	return Options{
		Timeout: 10 * time.Second,
		Stale:   time.Minute,
		Poll:    100 * time.Millisecond,
	}
}

var log = logger.NewEnvLogger("[lock]")

// Acquire attempts to acquire the store lock at lockDir.
// If the lock is held, it waits and retries until opts.Timeout.
// Stale locks are removed and re-acquired.
func Acquire(lockDir string, opts Options) (*Lock, error) {
	if opts.Poll <= 0 {
		opts.Poll = 100 * time.Millisecond
	}

	infoFile := filepath.Join(lockDir, "info.json")
	info := NewInfo()
	start := time.Now()

	for {
		// Try to acquire using mkdir (atomic, fails if it exists)
		err := os.Mkdir(lockDir, 0700)
		if err == nil {
			infoJSON, merr := info.Marshal()
			if merr != nil {
				_ = os.RemoveAll(lockDir)
				return nil, errors.WrapWithCode(merr, errors.ErrStore,
					"Failed to serialize lock info",
					"This shouldn't happen - please report this bug!")
			}
			if werr := os.WriteFile(infoFile, infoJSON, 0600); werr != nil {
				_ = os.RemoveAll(lockDir)
				return nil, errors.WrapWithCode(werr, errors.ErrStore,
					"Failed to write lock info file",
					"Check permissions on the config directory.")
			}
			return &Lock{Dir: lockDir, Info: info}, nil
		}
		if !os.IsExist(err) {
			// The parent directory may not exist yet on first run
			if os.IsNotExist(err) {
				if mkerr := os.MkdirAll(filepath.Dir(lockDir), 0700); mkerr == nil {
					continue
				}
			}
			return nil, errors.WrapWithCode(err, errors.ErrStore,
				fmt.Sprintf("Couldn't create lock at %s", lockDir),
				"Check permissions on the config directory.")
		}

		// Held by someone else: stale?
		if isStale(infoFile, opts.Stale) {
			log.Debug("removing stale lock at %s", lockDir)
			if rerr := os.RemoveAll(lockDir); rerr == nil {
				continue
			}
		}

		if time.Since(start) > opts.Timeout {
			return nil, errors.New(errors.ErrStore,
				fmt.Sprintf("Timed out waiting for the profile store lock after %s", opts.Timeout),
				fmt.Sprintf("Lock held by: %s. Remove %s if no other xfer is running.", holder(infoFile), lockDir))
		}

		time.Sleep(opts.Poll)
	}
}

// Release removes the lock, allowing others to acquire it. Safe to call on
// all exit paths; releasing an already-released lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.Dir == "" {
		return nil
	}
	err := os.RemoveAll(l.Dir)
	l.Dir = ""
	return err
}

// isStale reports whether the lock at infoFile is abandoned: older than the
// stale threshold, unreadable with a dead holder, or held by a process that
// no longer exists on this machine.
func isStale(infoFile string, stale time.Duration) bool {
	data, err := os.ReadFile(infoFile)
	if err != nil {
		// mkdir succeeded for someone but info.json isn't there yet;
		// give them a grace period via the directory mtime
		fi, serr := os.Stat(filepath.Dir(infoFile))
		if serr != nil {
			return false
		}
		return stale > 0 && time.Since(fi.ModTime()) > stale
	}

	info, err := ParseInfo(data)
	if err != nil {
		return true
	}

	if stale > 0 && info.Age() > stale {
		return true
	}

	// Same-machine holders can be liveness-checked: signal 0 probes the pid.
	if info.Hostname == thisHostname() && info.PID > 0 {
		if perr := syscall.Kill(info.PID, 0); perr == syscall.ESRCH {
			return true
		}
	}

	return false
}

func holder(infoFile string) string {
	data, err := os.ReadFile(infoFile)
	if err != nil {
		return "unknown"
	}
	info, err := ParseInfo(data)
	if err != nil {
		return "unknown"
	}
	return info.String()
}

func thisHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

package doctor

import (
	stderrors "errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/mutasim/xfer/internal/profile"
)

// StoreCheck verifies the profile store file loads cleanly.
type StoreCheck struct {
	Path string
}

func (c *StoreCheck) Name() string     { return "profile_store" }
func (c *StoreCheck) Category() string { return "STORE" }

func (c *StoreCheck) Run() CheckResult {
	store, err := profile.Load(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Profile store at %s won't load", c.Path),
			Suggestion: err.Error(),
		}
	}

	if store.Len() == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No server profiles saved yet",
			Suggestion: "Add one with: xfer server add",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d profile%s in %s", store.Len(), pluralize(store.Len()), c.Path),
	}
}

// KeyCheck verifies a profile's SSH key exists and parses as a private key.
type KeyCheck struct {
	Profile profile.ServerProfile
}

func (c *KeyCheck) Name() string     { return fmt.Sprintf("key_%s", c.Profile.Alias) }
func (c *KeyCheck) Category() string { return "KEYS" }

func (c *KeyCheck) Run() CheckResult {
	if c.Profile.KeyPath == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s: no key configured, ssh will use its defaults", c.Profile.Alias),
		}
	}

	data, err := os.ReadFile(c.Profile.KeyPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: key not readable at %s", c.Profile.Alias, c.Profile.KeyPath),
			Suggestion: "Fix the path with 'xfer server add' or generate the key.",
		}
	}

	if _, err := ssh.ParsePrivateKey(data); err != nil {
		// Passphrase-protected keys don't parse without the passphrase
		// but are perfectly usable through ssh-agent
		var missing *ssh.PassphraseMissingError
		if stderrors.As(err, &missing) {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusPass,
				Message: fmt.Sprintf("%s: key is passphrase-protected", c.Profile.Alias),
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: %s doesn't parse as a private key", c.Profile.Alias, c.Profile.KeyPath),
			Suggestion: "Make sure the path points at the private key, not the .pub file.",
		}
	}

	perm := mustPerm(c.Profile.KeyPath)
	if perm&0077 != 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s: key at %s is group/world readable", c.Profile.Alias, c.Profile.KeyPath),
			Suggestion: fmt.Sprintf("Fix: chmod 600 %s", c.Profile.KeyPath),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: key OK", c.Profile.Alias),
	}
}

func mustPerm(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Mode().Perm()
}

// NewStoreChecks creates the store check plus a key check per profile.
// A store that fails to load still yields the store check itself.
func NewStoreChecks(path string) []Check {
	checks := []Check{&StoreCheck{Path: path}}

	store, err := profile.Load(path)
	if err != nil {
		return checks
	}
	for p := range store.All() {
		checks = append(checks, &KeyCheck{Profile: p})
	}
	return checks
}

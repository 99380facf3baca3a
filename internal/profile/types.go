// Package profile implements the persistent server profile store: named
// connection profiles (host, user, port, key) addressed by a short alias.
package profile

import (
	"fmt"
	"os"
	"strings"

	"github.com/mutasim/xfer/internal/errors"
)

// DefaultPort is the port used when a profile doesn't specify one.
const DefaultPort = 22

// ServerProfile holds the connection metadata stored for one alias.
type ServerProfile struct {
	Alias string `yaml:"alias" mapstructure:"alias"`
	Host  string `yaml:"host" mapstructure:"host"`
	User  string `yaml:"user,omitempty" mapstructure:"user"`
	Port  int    `yaml:"port,omitempty" mapstructure:"port"`

	// KeyPath is the identity file passed to the transfer mechanism,
	// so the key never has to be specified on the command line.
	KeyPath string `yaml:"key_path,omitempty" mapstructure:"key_path"`

	// DefaultRemotePath anchors relative remote paths for this server.
	DefaultRemotePath string `yaml:"default_path,omitempty" mapstructure:"default_path"`
}

// EffectivePort returns the profile's port, defaulting to 22.
func (p ServerProfile) EffectivePort() int {
	if p.Port == 0 {
		return DefaultPort
	}
	return p.Port
}

// EffectiveUser returns the profile's user, falling back to the local user.
func (p ServerProfile) EffectiveUser() string {
	if p.User != "" {
		return p.User
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "root"
}

// Addr renders the profile as user@host for the secure-shell family.
func (p ServerProfile) Addr() string {
	return p.EffectiveUser() + "@" + p.Host
}

// Validate checks the profile invariants: usable alias, non-empty host,
// port in range. It does not touch the filesystem; key existence is a
// build-time pre-flight check, not a store invariant.
func (p ServerProfile) Validate() error {
	if p.Alias == "" {
		return errors.New(errors.ErrInvalidProfile,
			"Profile needs an alias",
			"Pick a short name like 'staging' or 'gcp'.")
	}
	if strings.ContainsAny(p.Alias, " \t\n") {
		return errors.New(errors.ErrInvalidProfile,
			fmt.Sprintf("Alias '%s' contains whitespace", p.Alias),
			"Aliases are single words, like 'aws-ec2'.")
	}
	if strings.ContainsAny(p.Alias, ":/") {
		return errors.New(errors.ErrInvalidProfile,
			fmt.Sprintf("Alias '%s' contains ':' or '/'", p.Alias),
			"Those characters would collide with the alias:path target syntax.")
	}
	if p.Host == "" {
		return errors.New(errors.ErrInvalidProfile,
			fmt.Sprintf("Profile '%s' has no host", p.Alias),
			"Set the hostname or IP the server is reachable at.")
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.New(errors.ErrInvalidProfile,
			fmt.Sprintf("Profile '%s' has port %d, outside 1-65535", p.Alias, p.Port),
			"Leave the port empty to use 22.")
	}
	return nil
}

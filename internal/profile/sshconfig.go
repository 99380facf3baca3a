package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/mutasim/xfer/internal/errors"
)

// ImportSSHConfig parses ~/.ssh/config and returns the concrete host entries
// as server profiles. Wildcard patterns are skipped. A missing config file
// yields an empty result, not an error.
func ImportSSHConfig() ([]ServerProfile, error) {
	path := filepath.Join(homeDir(), ".ssh", "config")
	return ImportSSHConfigFile(path)
}

// ImportSSHConfigFile parses the given SSH config file into server profiles.
func ImportSSHConfigFile(path string) ([]ServerProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Couldn't read "+path,
			"Check file permissions.")
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Couldn't parse "+path,
			"Check the SSH config syntax.")
	}

	var profiles []ServerProfile
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()

			// Skip wildcards and negated patterns
			if strings.ContainsAny(alias, "*?!") {
				continue
			}
			if seen[alias] {
				continue
			}
			seen[alias] = true

			p := ServerProfile{Alias: alias, Host: alias}

			if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
				p.Host = hostname
			}
			if user, _ := cfg.Get(alias, "User"); user != "" {
				p.User = user
			}
			if port, _ := cfg.Get(alias, "Port"); port != "" {
				if n, err := strconv.Atoi(port); err == nil && n != DefaultPort {
					p.Port = n
				}
			}
			if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" {
				p.KeyPath = expandHome(identity)
			}

			if p.Validate() != nil {
				// An alias unusable in alias:path syntax isn't importable
				continue
			}
			profiles = append(profiles, p)
		}
	}

	return profiles, nil
}

// expandHome expands a leading ~/ to the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

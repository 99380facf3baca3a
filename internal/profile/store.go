package profile

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/mutasim/xfer/internal/config"
	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/lock"
	"github.com/mutasim/xfer/internal/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// CurrentStoreVersion is the schema version of the store file.
const CurrentStoreVersion = 1

// storeFile is the on-disk shape of the profile store. Profiles are kept as
// a sequence rather than a mapping so insertion order survives round-trips.
type storeFile struct {
	Version int             `yaml:"version" mapstructure:"version"`
	Default string          `yaml:"default,omitempty" mapstructure:"default"`
	Servers []ServerProfile `yaml:"servers" mapstructure:"servers"`
}

// Store owns the server profile collection for the lifetime of one CLI run.
// Mutating operations persist immediately, guarded by a filesystem lock so
// concurrent invocations can't interleave writes.
type Store struct {
	path         string
	version      int
	defaultAlias string
	profiles     []ServerProfile
	log          logger.Logger
}

// Load reads the store from path. A missing file yields an empty store,
// not an error; an unparseable file is a store corruption error.
func Load(path string) (*Store, error) {
	s := &Store{
		path:    path,
		version: CurrentStoreVersion,
		log:     logger.NewEnvLogger("[store]"),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.log.Debug("no store at %s, starting empty", path)
		return s, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStoreCorrupt,
			fmt.Sprintf("Profile store at %s is unreadable", path),
			"Fix the YAML by hand, or move the file aside to start fresh.")
	}

	var file storeFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStoreCorrupt,
			fmt.Sprintf("Profile store at %s has an unexpected shape", path),
			"Fix the YAML by hand, or move the file aside to start fresh.")
	}

	if file.Version > CurrentStoreVersion {
		return nil, errors.New(errors.ErrStoreCorrupt,
			fmt.Sprintf("Profile store is from the future (version %d, but xfer only knows up to %d)", file.Version, CurrentStoreVersion),
			"Update xfer to a newer release.")
	}

	seen := make(map[string]bool, len(file.Servers))
	for _, p := range file.Servers {
		if err := p.Validate(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrStoreCorrupt,
				fmt.Sprintf("Profile store contains an invalid entry for alias '%s'", p.Alias),
				"Fix the entry by hand in "+path)
		}
		if seen[p.Alias] {
			return nil, errors.New(errors.ErrStoreCorrupt,
				fmt.Sprintf("Profile store lists alias '%s' twice", p.Alias),
				"Remove the duplicate entry from "+path)
		}
		seen[p.Alias] = true
	}

	if file.Version > 0 {
		s.version = file.Version
	}
	s.defaultAlias = file.Default
	s.profiles = file.Servers
	return s, nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of stored profiles.
func (s *Store) Len() int {
	return len(s.profiles)
}

// Get returns the profile for alias.
func (s *Store) Get(alias string) (ServerProfile, error) {
	for _, p := range s.profiles {
		if p.Alias == alias {
			return p, nil
		}
	}
	return ServerProfile{}, errors.New(errors.ErrUnknownAlias,
		fmt.Sprintf("No server named '%s'", alias),
		"List known servers with 'xfer server list', or add one with 'xfer server add'.")
}

// Has reports whether alias exists in the store.
func (s *Store) Has(alias string) bool {
	_, err := s.Get(alias)
	return err == nil
}

// All returns the profiles in insertion order as a restartable sequence.
func (s *Store) All() iter.Seq[ServerProfile] {
	return func(yield func(ServerProfile) bool) {
		for _, p := range s.profiles {
			if !yield(p) {
				return
			}
		}
	}
}

// DefaultAlias returns the default server alias, or "" when unset.
func (s *Store) DefaultAlias() string {
	return s.defaultAlias
}

// Add validates and appends a new profile, then persists the store.
func (s *Store) Add(p ServerProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if s.Has(p.Alias) {
		return errors.New(errors.ErrDuplicateAlias,
			fmt.Sprintf("Server '%s' already exists", p.Alias),
			"Choose a different alias, or remove the old one with 'xfer server remove'.")
	}

	s.profiles = append(s.profiles, p)
	if err := s.persist(); err != nil {
		s.profiles = s.profiles[:len(s.profiles)-1]
		return err
	}
	return nil
}

// Update replaces the whole profile stored under p.Alias, then persists.
func (s *Store) Update(p ServerProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for i := range s.profiles {
		if s.profiles[i].Alias == p.Alias {
			prev := s.profiles[i]
			s.profiles[i] = p
			if err := s.persist(); err != nil {
				s.profiles[i] = prev
				return err
			}
			return nil
		}
	}
	return errors.New(errors.ErrUnknownAlias,
		fmt.Sprintf("No server named '%s'", p.Alias),
		"Add it first with 'xfer server add'.")
}

// Remove deletes the profile for alias and persists the store.
// Removing the default server clears the default.
func (s *Store) Remove(alias string) error {
	for i, p := range s.profiles {
		if p.Alias != alias {
			continue
		}
		prev := s.profiles
		prevDefault := s.defaultAlias
		s.profiles = append(append([]ServerProfile{}, s.profiles[:i]...), s.profiles[i+1:]...)
		if s.defaultAlias == alias {
			s.defaultAlias = ""
		}
		if err := s.persist(); err != nil {
			s.profiles = prev
			s.defaultAlias = prevDefault
			return err
		}
		return nil
	}
	return errors.New(errors.ErrUnknownAlias,
		fmt.Sprintf("No server named '%s'", alias),
		"Nothing to remove. List servers with 'xfer server list'.")
}

// SetDefault marks alias as the default server and persists the store.
func (s *Store) SetDefault(alias string) error {
	if !s.Has(alias) {
		return errors.New(errors.ErrUnknownAlias,
			fmt.Sprintf("No server named '%s'", alias),
			"Add it first with 'xfer server add'.")
	}
	prev := s.defaultAlias
	s.defaultAlias = alias
	if err := s.persist(); err != nil {
		s.defaultAlias = prev
		return err
	}
	return nil
}

// persist writes the store under the filesystem lock.
func (s *Store) persist() error {
	l, err := lock.Acquire(config.LockPathFor(s.path), lock.DefaultOptions())
	if err != nil {
		return err
	}
	defer l.Release()

	return s.Save()
}

// Save writes the full collection atomically: marshal to a temp file in the
// store's directory, then rename over the real file. A crash mid-write can
// never leave a truncated store behind.
func (s *Store) Save() error {
	file := storeFile{
		Version: s.version,
		Default: s.defaultAlias,
		Servers: s.profiles,
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Couldn't serialize the profile store",
			"This is unexpected - please report this bug!")
	}

	header := `# xfer server profiles
# Managed by 'xfer server add|remove|import'; safe to edit by hand.

`
	content := header + string(data)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't create config directory %s", dir),
			"Check that you have write permissions.")
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't create a temp file in %s", dir),
			"Check that you have write permissions.")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrStore,
			"Couldn't write the profile store",
			"Check disk space and permissions.")
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return errors.WrapWithCode(err, errors.ErrStore,
			"Couldn't set permissions on the profile store",
			"Check that you own the config directory.")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Couldn't finish writing the profile store",
			"Check disk space and permissions.")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			fmt.Sprintf("Couldn't replace %s", s.path),
			"Check that you have write permissions.")
	}

	s.log.Debug("saved %d profiles to %s", len(s.profiles), s.path)
	return nil
}

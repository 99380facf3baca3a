// Package target parses user-supplied path expressions into resolved
// endpoints. An expression is either "alias:remote/path" or a plain local
// path; the alias half is looked up in the profile store before anything
// is spawned.
package target

import (
	"fmt"
	"strings"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
)

// Endpoint is one resolved side of a transfer. It borrows its profile from
// the store and lives only for the current request.
type Endpoint struct {
	IsRemote bool
	Profile  profile.ServerProfile // zero value when local
	Path     string
}

// Addr renders the endpoint in the mechanism's expected address form:
// user@host:path for remote endpoints, the bare path for local ones.
func (e Endpoint) Addr() string {
	if !e.IsRemote {
		return e.Path
	}
	return fmt.Sprintf("%s:%s", e.Profile.Addr(), e.Path)
}

// String describes the endpoint for diagnostics.
func (e Endpoint) String() string {
	if !e.IsRemote {
		return e.Path
	}
	return e.Profile.Alias + ":" + e.Path
}

// Resolver resolves expressions against a profile store.
type Resolver struct {
	store *profile.Store
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store *profile.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve parses expr into an Endpoint.
//
// If a colon appears before any path separator, the prefix is an alias and
// the rest is the remote path; otherwise the whole expression is a local
// path. Splitting happens on the first colon only, so remote paths may
// themselves contain colons.
func (r *Resolver) Resolve(expr string) (Endpoint, error) {
	if expr == "" {
		return Endpoint{}, errors.New(errors.ErrInvalidTarget,
			"Empty target",
			"Give a local path or alias:remote/path.")
	}

	idx := strings.Index(expr, ":")
	slash := strings.Index(expr, "/")
	if idx < 0 || (slash >= 0 && slash < idx) {
		// No alias prefix: plain local path
		return Endpoint{Path: expr}, nil
	}

	alias := expr[:idx]
	path := expr[idx+1:]

	if alias == "" {
		return Endpoint{}, errors.New(errors.ErrInvalidTarget,
			fmt.Sprintf("Target '%s' has an empty alias before the colon", expr),
			"Use alias:remote/path, like staging:/var/www.")
	}

	p, err := r.store.Get(alias)
	if err != nil {
		return Endpoint{}, err
	}

	// A relative remote path resolves under the profile's default remote
	// path when one is configured; an empty path is passed through and the
	// mechanism lands in the remote home directory.
	if path != "" && !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "~") && p.DefaultRemotePath != "" {
		path = strings.TrimSuffix(p.DefaultRemotePath, "/") + "/" + path
	}

	return Endpoint{IsRemote: true, Profile: p, Path: path}, nil
}

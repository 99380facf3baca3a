// Package transfer turns resolved transfer requests into external tool
// invocations and interprets their exit status. Strategy selection is purely
// structural: it looks at the shape of the request (local/remote, file/dir,
// destination present), never at file contents.
package transfer

import (
	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/target"
)

// Strategy is the closed set of transfer mechanisms.
type Strategy int

const (
	// SingleFileCopy moves one file with the secure-copy tool (scp).
	SingleFileCopy Strategy = iota
	// DirectorySync moves a tree with the delta-copy tool (rsync).
	DirectorySync
	// RemoteList runs a listing over the secure-shell tool (ssh).
	RemoteList
)

// String names the strategy for outcomes and diagnostics.
func (s Strategy) String() string {
	switch s {
	case SingleFileCopy:
		return "single-file-copy"
	case DirectorySync:
		return "directory-sync"
	case RemoteList:
		return "remote-list"
	default:
		return "unknown"
	}
}

// Tool returns the external executable implementing the strategy.
func (s Strategy) Tool() string {
	switch s {
	case SingleFileCopy:
		return "scp"
	case DirectorySync:
		return "rsync"
	case RemoteList:
		return "ssh"
	default:
		return ""
	}
}

// Request is one transfer request: resolved endpoints plus shape flags.
// HasDest is false for listing requests. SourceIsDir is determined by the
// caller (a stat on local sources) so selection itself stays a pure function.
type Request struct {
	Source      target.Endpoint
	Dest        target.Endpoint
	HasDest     bool
	Recursive   bool // directory-sync explicitly requested
	SourceIsDir bool
}

// Select picks the strategy for a request. Rules are evaluated in order,
// first match wins:
//
//  1. sync explicitly requested, or local directory source -> directory-sync
//  2. no destination and remote source                     -> remote-list
//  3. otherwise                                            -> single-file-copy
//
// Requests with no remote component are rejected: this tool only
// orchestrates remote transfers.
func Select(req Request) (Strategy, error) {
	remote := req.Source.IsRemote || (req.HasDest && req.Dest.IsRemote)
	if !remote {
		return 0, errors.New(errors.ErrAmbiguous,
			"Neither side names a server",
			"One side must be alias:path. For local copies use cp or rsync directly.")
	}

	switch {
	case req.Recursive, !req.Source.IsRemote && req.SourceIsDir:
		return DirectorySync, nil
	case !req.HasDest && req.Source.IsRemote:
		return RemoteList, nil
	default:
		return SingleFileCopy, nil
	}
}

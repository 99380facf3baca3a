package transfer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
	"github.com/mutasim/xfer/internal/util"
)

// Invocation is a fully-specified external tool call: an executable name and
// its argument vector. User-controlled strings are always discrete argument
// elements; no shell command line is ever assembled for the child process.
type Invocation struct {
	Tool     string
	Args     []string
	Strategy Strategy
}

// Argv returns the complete argument vector including the tool name.
func (i Invocation) Argv() []string {
	return append([]string{i.Tool}, i.Args...)
}

// String renders the invocation for debug logging.
func (i Invocation) String() string {
	return strings.Join(i.Argv(), " ")
}

// Build constructs the invocation for a strategy and request. Credential
// flags (identity file, port) come from the remote profile, so a stored key
// never has to be respecified. A referenced key that doesn't exist locally
// fails here, before anything is spawned.
func Build(strategy Strategy, req Request) (Invocation, error) {
	p, err := credentialProfile(req)
	if err != nil {
		return Invocation{}, err
	}

	switch strategy {
	case DirectorySync:
		return buildRsync(req, p), nil
	case SingleFileCopy:
		return buildScp(req, p), nil
	case RemoteList:
		return buildSSHList(req, p), nil
	default:
		return Invocation{}, errors.New(errors.ErrUsage,
			fmt.Sprintf("No mechanism for strategy %v", strategy),
			"This is unexpected - please report this bug!")
	}
}

// credentialProfile returns the profile supplying credentials and pre-flights
// its key path. With a remote source and destination the source profile wins;
// remote-to-remote is out of scope for direct transfers anyway.
func credentialProfile(req Request) (profile.ServerProfile, error) {
	var p profile.ServerProfile
	switch {
	case req.Source.IsRemote:
		p = req.Source.Profile
	case req.HasDest && req.Dest.IsRemote:
		p = req.Dest.Profile
	default:
		return p, errors.New(errors.ErrAmbiguous,
			"Neither side names a server",
			"One side must be alias:path.")
	}

	if p.KeyPath != "" {
		if _, err := os.Stat(p.KeyPath); err != nil {
			return p, errors.WrapWithCode(err, errors.ErrInvalidProfile,
				fmt.Sprintf("Key for '%s' not found at %s", p.Alias, p.KeyPath),
				"Fix the path with 'xfer server add' or generate the key.")
		}
	}
	return p, nil
}

// buildRsync builds the delta-copy invocation: rsync -avz --progress with an
// ssh transport override when the profile carries a key or a non-default port.
func buildRsync(req Request, p profile.ServerProfile) Invocation {
	args := []string{"-avz", "--progress"}

	if rsh := rsyncTransport(p); rsh != "" {
		args = append(args, "-e", rsh)
	}

	src := req.Source.Addr()
	// Trailing slash makes rsync sync the directory's contents, matching
	// what "send this directory there" means here. An empty remote path
	// stays empty: "user@host:" already means the remote home directory,
	// and adding a slash would turn it into the filesystem root.
	if req.Source.Path != "" && !strings.HasSuffix(src, "/") {
		src += "/"
	}

	args = append(args, src, req.Dest.Addr())
	return Invocation{Tool: "rsync", Args: args, Strategy: DirectorySync}
}

// rsyncTransport renders the -e ssh command for rsync. rsync splits this
// value on whitespace itself, without a shell, so flag values are safe as
// long as the key path has no spaces; the common ~/.ssh layout doesn't.
func rsyncTransport(p profile.ServerProfile) string {
	parts := []string{"ssh"}
	if p.KeyPath != "" {
		parts = append(parts, "-i", p.KeyPath)
	}
	if p.Port != 0 {
		parts = append(parts, "-p", strconv.Itoa(p.Port))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, " ")
}

// buildScp builds the secure-copy invocation for a single file.
// scp uses -P for the port, unlike ssh's lowercase -p.
func buildScp(req Request, p profile.ServerProfile) Invocation {
	var args []string
	if p.KeyPath != "" {
		args = append(args, "-i", p.KeyPath)
	}
	if p.Port != 0 {
		args = append(args, "-P", strconv.Itoa(p.Port))
	}
	args = append(args, req.Source.Addr(), req.Dest.Addr())
	return Invocation{Tool: "scp", Args: args, Strategy: SingleFileCopy}
}

// buildSSHList builds the remote listing invocation. The listing command is
// a single argument for the remote shell; the path inside it is quoted with
// tilde preservation so spaces survive and nothing is reinterpreted.
func buildSSHList(req Request, p profile.ServerProfile) Invocation {
	var args []string
	if p.KeyPath != "" {
		args = append(args, "-i", p.KeyPath)
	}
	if p.Port != 0 {
		args = append(args, "-p", strconv.Itoa(p.Port))
	}

	listCmd := "ls -la"
	if req.Source.Path != "" {
		listCmd = "ls -la " + util.ShellQuotePreserveTilde(req.Source.Path)
	}

	args = append(args, p.Addr(), listCmd)
	return Invocation{Tool: "ssh", Args: args, Strategy: RemoteList}
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
	"github.com/mutasim/xfer/internal/target"
	"github.com/mutasim/xfer/internal/transfer"
	"github.com/mutasim/xfer/internal/ui"
)

// newRunner builds the process runner. Swapped out in tests.
var newRunner = func() transfer.Runner {
	return transfer.NewExecRunner()
}

// sendCmd pushes a local file or directory to a saved server.
var sendCmd = &cobra.Command{
	Use:   "send <source> [alias:path]",
	Short: "Send a file or directory to a server",
	Long: `Send a local file or directory to a saved server.

A single file goes over scp; a directory goes over rsync. With only a
source argument the default server receives it at its configured remote
path.

Examples:
  xfer send file.txt staging:/var/www/
  xfer send ./dist staging:/srv/app
  xfer send file.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		destExpr := ""
		if len(args) == 2 {
			destExpr = args[1]
		} else {
			destExpr, err = defaultDestination(store)
			if err != nil {
				return err
			}
		}

		return dispatch(newRunner(), store, args[0], destExpr, false)
	},
}

// getCmd pulls a file or directory down from a saved server.
var getCmd = &cobra.Command{
	Use:   "get <alias:path> [destination]",
	Short: "Fetch a file or directory from a server",
	Long: `Fetch a remote file from a saved server. The destination defaults to
the current directory.

Examples:
  xfer get staging:/var/log/app.log
  xfer get staging:/var/log/app.log ./logs/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		dest := "."
		if len(args) == 2 {
			dest = args[1]
		}

		return dispatch(newRunner(), store, args[0], dest, false)
	},
}

// syncTransferCmd forces a directory sync regardless of what the source is.
var syncTransferCmd = &cobra.Command{
	Use:   "sync <source> <destination>",
	Short: "Sync a directory with rsync",
	Long: `Sync a directory between here and a saved server using rsync's
delta transfer. Either side may be the remote one.

Examples:
  xfer sync ./dist staging:/srv/app
  xfer sync staging:/srv/app ./dist`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return dispatch(newRunner(), store, args[0], args[1], true)
	},
}

// listCmd lists a remote directory over ssh.
var listCmd = &cobra.Command{
	Use:   "list [alias[:path]]",
	Short: "List a directory on a server",
	Long: `List a remote directory's contents. Without a path the server's
home directory is listed; without any argument the default server is used.

Examples:
  xfer list staging
  xfer list staging:/var/www
  xfer list`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		expr := ""
		if len(args) == 1 {
			expr = args[0]
		} else {
			if store.DefaultAlias() == "" {
				return errors.New(errors.ErrUsage,
					"No server named and no default set",
					"Use 'xfer list <alias>' or set a default with 'xfer server default <alias>'.")
			}
			expr = store.DefaultAlias()
		}

		// A bare alias means "list that server", not a local path
		if !strings.Contains(expr, ":") && store.Has(expr) {
			expr += ":"
		}

		return listRemote(newRunner(), store, expr)
	},
}

// dispatch resolves both sides, picks a strategy, builds the invocation,
// and runs it. recursive forces directory-sync.
func dispatch(runner transfer.Runner, store *profile.Store, srcExpr, destExpr string, recursive bool) error {
	resolver := target.NewResolver(store)

	src, err := resolver.Resolve(srcExpr)
	if err != nil {
		return err
	}
	dest, err := resolver.Resolve(destExpr)
	if err != nil {
		return err
	}

	req := transfer.Request{
		Source:    src,
		Dest:      dest,
		HasDest:   true,
		Recursive: recursive,
	}
	if !src.IsRemote {
		info, err := os.Stat(src.Path)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrInvalidTarget,
				fmt.Sprintf("Can't read %s", src.Path),
				"Check the path and try again.")
		}
		req.SourceIsDir = info.IsDir()
	}

	strategy, err := transfer.Select(req)
	if err != nil {
		return err
	}

	inv, err := transfer.Build(strategy, req)
	if err != nil {
		return err
	}

	outcome, err := transfer.Execute(runner, inv)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s %s %s %s\n",
		ui.StyleSuccess.Render(ui.SymbolSuccess),
		ui.StyleMuted.Render(outcome.Strategy.String()),
		src, ui.SymbolArrow, dest)
	return nil
}

// listRemote resolves a remote expression and streams the listing.
func listRemote(runner transfer.Runner, store *profile.Store, expr string) error {
	resolver := target.NewResolver(store)

	src, err := resolver.Resolve(expr)
	if err != nil {
		return err
	}

	req := transfer.Request{Source: src}
	strategy, err := transfer.Select(req)
	if err != nil {
		return err
	}

	inv, err := transfer.Build(strategy, req)
	if err != nil {
		return err
	}

	_, err = transfer.Execute(runner, inv)
	return err
}

// defaultDestination builds the destination expression for a bare send.
func defaultDestination(store *profile.Store) (string, error) {
	alias := store.DefaultAlias()
	if alias == "" {
		return "", errors.New(errors.ErrUsage,
			"No destination named and no default server set",
			"Use 'xfer send <source> <alias:path>' or set a default with 'xfer server default <alias>'.")
	}
	return alias + ":", nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(syncTransferCmd)
	rootCmd.AddCommand(listCmd)
}

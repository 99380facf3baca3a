// Package cli wires the xfer commands together: profile management,
// transfer dispatch, and diagnostics.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mutasim/xfer/internal/config"
	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
)

// configFlag overrides the profile store location for one invocation.
var configFlag string

// rootCmd is the base command all subcommands hang off of.
var rootCmd = &cobra.Command{
	Use:   "xfer",
	Short: "Transfer files to and from saved servers",
	Long: `xfer remembers your servers so transfers don't need full ssh invocations.

Save a server once with 'xfer server add', then refer to it by alias:

  xfer send file.txt staging:/var/www/
  xfer get staging:/var/log/app.log .
  xfer sync ./dist staging:/srv/app
  xfer list staging:/var/www`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code mapped from the
// returned error. Validation problems exit 1, mechanism failures 2, store
// problems 3.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

// storePath resolves the profile store location, preferring --config.
func storePath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.StorePath()
}

// openStore loads the profile store for the current invocation.
func openStore() (*profile.Store, error) {
	return profile.Load(storePath())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to the profile store file")
}

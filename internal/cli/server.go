package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/profile"
	"github.com/mutasim/xfer/internal/ui"
)

// server add flags
var (
	addHostFlag string
	addUserFlag string
	addPortFlag int
	addKeyFlag  string
	addPathFlag string
)

// server remove flags
var removeYesFlag bool

// server import flags
var importFileFlag string

// serverCmd groups the profile management subcommands.
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage saved server profiles",
	Long: `Manage the server profiles that transfer commands refer to by alias.

Examples:
  xfer server add staging --host 1.2.3.4 --user dev --port 2222
  xfer server list
  xfer server remove staging
  xfer server import
  xfer server default staging`,
}

// serverAddCmd saves a new server profile.
var serverAddCmd = &cobra.Command{
	Use:   "add <alias>",
	Short: "Save a server profile",
	Long: `Save a server under an alias. With flags the profile is saved
directly; without them an interactive form collects the details.

Examples:
  xfer server add staging --host 1.2.3.4 --user dev --port 2222 --key ~/.ssh/id_ed25519
  xfer server add web`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverAdd(args[0])
	},
}

// serverListCmd prints every saved profile.
var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved server profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverList()
	},
}

// serverRemoveCmd deletes a saved profile.
var serverRemoveCmd = &cobra.Command{
	Use:   "remove <alias>",
	Short: "Remove a saved server profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverRemove(args[0], removeYesFlag)
	},
}

// serverImportCmd pulls host entries out of ~/.ssh/config.
var serverImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import server profiles from ~/.ssh/config",
	Long: `Import concrete Host entries from your SSH config as server profiles.
Wildcard patterns are skipped, as are aliases that already exist.

Examples:
  xfer server import
  xfer server import --file /path/to/ssh_config`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serverImport(importFileFlag)
	},
}

// serverDefaultCmd sets the default server for bare transfer commands.
var serverDefaultCmd = &cobra.Command{
	Use:   "default <alias>",
	Short: "Set the default server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.SetDefault(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s Default server is now '%s'\n", ui.SymbolSuccess, args[0])
		return nil
	},
}

// serverAdd saves a profile from flags, prompting for anything missing
// when attached to a terminal.
func serverAdd(alias string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	p := profile.ServerProfile{
		Alias:             alias,
		Host:              addHostFlag,
		User:              addUserFlag,
		Port:              addPortFlag,
		KeyPath:           expandKeyPath(addKeyFlag),
		DefaultRemotePath: addPathFlag,
	}

	if p.Host == "" {
		if !isInteractive() {
			return errors.New(errors.ErrUsage,
				"No host given",
				"Pass --host, or run interactively in a terminal.")
		}
		if err := promptProfile(&p); err != nil {
			return err
		}
	}

	if err := store.Add(p); err != nil {
		return err
	}

	// First profile becomes the default
	if store.Len() == 1 && store.DefaultAlias() == "" {
		if err := store.SetDefault(alias); err != nil {
			return err
		}
	}

	fmt.Printf("%s Added server '%s' (%s)\n", ui.SymbolSuccess, alias, p.Addr())
	return nil
}

// promptProfile collects the profile details interactively.
func promptProfile(p *profile.ServerProfile) error {
	portStr := ""
	if p.Port != 0 {
		portStr = strconv.Itoa(p.Port)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Description("Hostname or IP address").
				Value(&p.Host),
			huh.NewInput().
				Title("User").
				Description("Login user (leave empty for your local username)").
				Value(&p.User),
			huh.NewInput().
				Title("Port").
				Description("SSH port (leave empty for 22)").
				Value(&portStr),
			huh.NewInput().
				Title("Key path").
				Description("Private key file (leave empty for ssh defaults)").
				Value(&p.KeyPath),
			huh.NewInput().
				Title("Remote path").
				Description("Default directory for bare transfers (optional)").
				Value(&p.DefaultRemotePath),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrUsage,
			"Couldn't get your input",
			"Try again, or pass --host, --user, --port, and --key directly.")
	}

	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return errors.New(errors.ErrInvalidProfile,
				fmt.Sprintf("'%s' isn't a valid port", portStr),
				"Ports are numbers between 1 and 65535.")
		}
		p.Port = port
	}
	p.KeyPath = expandKeyPath(p.KeyPath)
	return nil
}

// serverList prints every saved profile, default first marker included.
func serverList() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if store.Len() == 0 {
		fmt.Println("No servers saved.")
		fmt.Println("\nAdd one with: xfer server add <alias>")
		return nil
	}

	for p := range store.All() {
		line := ui.StyleName.Render(p.Alias)
		if p.Alias == store.DefaultAlias() {
			line += ui.StyleSuccess.Render(" (default)")
		}
		fmt.Println(line)
		fmt.Printf("  %s\n", ui.StyleMuted.Render(ui.SymbolArrow+" "+p.Addr()+portSuffix(p)))
		if p.KeyPath != "" {
			fmt.Printf("  %s\n", ui.StyleMuted.Render("key: "+p.KeyPath))
		}
		if p.DefaultRemotePath != "" {
			fmt.Printf("  %s\n", ui.StyleMuted.Render("path: "+p.DefaultRemotePath))
		}
		fmt.Println()
	}
	return nil
}

func portSuffix(p profile.ServerProfile) string {
	if p.Port == 0 {
		return ""
	}
	return fmt.Sprintf(" (port %d)", p.Port)
}

// serverRemove deletes a profile, confirming first when interactive.
func serverRemove(alias string, skipConfirm bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if !store.Has(alias) {
		return errors.New(errors.ErrUnknownAlias,
			fmt.Sprintf("No server named '%s'", alias),
			availableAliases(store))
	}

	if !skipConfirm && isInteractive() {
		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Remove server '%s'?", alias)).
					Description("This cannot be undone").
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrUsage,
				"Couldn't get your input",
				"Try again or pass --yes.")
		}
		if !confirm {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.Remove(alias); err != nil {
		return err
	}

	fmt.Printf("%s Removed server '%s'\n", ui.SymbolSuccess, alias)
	return nil
}

// serverImport merges SSH config hosts into the store, skipping aliases
// that already exist.
func serverImport(file string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var profiles []profile.ServerProfile
	if file != "" {
		profiles, err = profile.ImportSSHConfigFile(file)
	} else {
		profiles, err = profile.ImportSSHConfig()
	}
	if err != nil {
		return err
	}

	added := 0
	skipped := 0
	for _, p := range profiles {
		if store.Has(p.Alias) {
			skipped++
			continue
		}
		if err := store.Add(p); err != nil {
			return err
		}
		added++
		fmt.Printf("%s %s (%s)\n", ui.SymbolSuccess, p.Alias, p.Addr())
	}

	if added == 0 && skipped == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}
	if skipped > 0 {
		fmt.Printf("\nImported %d, skipped %d already saved.\n", added, skipped)
	} else {
		fmt.Printf("\nImported %d.\n", added)
	}
	return nil
}

// availableAliases renders the known aliases for error suggestions.
func availableAliases(store *profile.Store) string {
	if store.Len() == 0 {
		return "No servers saved yet. Add one with 'xfer server add'."
	}
	var aliases []string
	for p := range store.All() {
		aliases = append(aliases, p.Alias)
	}
	return "Saved servers: " + strings.Join(aliases, ", ")
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// expandKeyPath expands a leading ~/ so stored key paths are absolute.
func expandKeyPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + path[1:]
}

func init() {
	serverAddCmd.Flags().StringVar(&addHostFlag, "host", "", "hostname or IP address")
	serverAddCmd.Flags().StringVar(&addUserFlag, "user", "", "login user")
	serverAddCmd.Flags().IntVar(&addPortFlag, "port", 0, "SSH port (default 22)")
	serverAddCmd.Flags().StringVar(&addKeyFlag, "key", "", "private key path")
	serverAddCmd.Flags().StringVar(&addPathFlag, "path", "", "default remote path for bare transfers")

	serverRemoveCmd.Flags().BoolVarP(&removeYesFlag, "yes", "y", false, "skip the confirmation prompt")

	serverImportCmd.Flags().StringVar(&importFileFlag, "file", "", "SSH config file to import (default ~/.ssh/config)")

	serverCmd.AddCommand(serverAddCmd)
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverRemoveCmd)
	serverCmd.AddCommand(serverImportCmd)
	serverCmd.AddCommand(serverDefaultCmd)
	rootCmd.AddCommand(serverCmd)
}

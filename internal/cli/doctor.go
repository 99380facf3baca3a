package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mutasim/xfer/internal/doctor"
	"github.com/mutasim/xfer/internal/errors"
	"github.com/mutasim/xfer/internal/ui"
)

// doctorCmd diagnoses the local transfer environment.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose transfer tool and profile issues",
	Long: `Run diagnostic checks on the local environment.

Checks:
  - scp, rsync, and ssh availability
  - Profile store readability
  - SSH key existence and permissions per saved server

Examples:
  xfer doctor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

func doctorCommand() error {
	checks := doctor.NewToolChecks()
	checks = append(checks, doctor.NewStoreChecks(storePath())...)

	results := doctor.RunAllParallel(checks)

	for _, r := range results {
		symbol := ui.StyleSuccess.Render(ui.SymbolSuccess)
		switch r.Status {
		case doctor.StatusWarn:
			symbol = ui.SymbolWarning
		case doctor.StatusFail:
			symbol = ui.StyleError.Render(ui.SymbolFail)
		}
		fmt.Printf("%s %s\n", symbol, r.Message)
		if r.Suggestion != "" && r.Status != doctor.StatusPass {
			fmt.Printf("  %s\n", ui.StyleMuted.Render(r.Suggestion))
		}
	}

	fmt.Printf("\n%s\n", doctor.Summary(results))

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrUsage,
			"Some checks failed",
			"Fix the issues above and run 'xfer doctor' again.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

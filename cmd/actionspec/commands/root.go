package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "actionspec",
		Short: "actionspec - Typed GitHub configuration tooling",
		Long: `actionspec decodes GitHub Actions workflows, action definitions, and
Dependabot configs into strongly typed models and reports what is wrong
with them.

Features:
  - Workflow, action, and dependabot.yml decoding
  - Expression-aware field handling
  - Action reference ("uses") parsing and pinning checks
  - Continuous re-validation on file changes`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newInspectCommand())

	return rootCmd
}

package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/actionspec/actionspec/pkg/loader"
)

func newValidateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate [path...]",
		Short: "Validate workflow, action, and dependabot files",
		Long: `Validate GitHub configuration files by decoding them into typed models.

This command checks:
  - YAML syntax validity
  - Field shapes (expressions, scalar-or-sequence values, trigger bodies)
  - Action reference syntax and reusable workflow pinning
  - Dependabot enum fields and update blocks`,
		Example: `  # Validate everything under .github
  actionspec validate .github

  # Validate a single workflow
  actionspec validate .github/workflows/ci.yml

  # Re-validate whenever a file changes
  actionspec validate --watch .github`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			l := loader.NewLoader(log.Logger)

			files, err := l.LoadFromPaths(cmd.Context(), paths)
			if err != nil {
				return err
			}
			report(files)

			if !watch {
				return nil
			}

			if err := l.Watch(cmd.Context(), paths, func(files []loader.File) error {
				report(files)
				return nil
			}); err != nil {
				return fmt.Errorf("failed to start watching: %w", err)
			}
			defer func() { _ = l.StopWatching() }()

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate when files change")

	return cmd
}

func report(files []loader.File) {
	byKind := map[loader.Kind]int{}
	for _, f := range files {
		byKind[f.Kind]++
		if verbose {
			log.Info().Str("path", f.Path).Str("kind", string(f.Kind)).Msg("Valid")
		}
	}

	log.Info().
		Int("workflows", byKind[loader.KindWorkflow]).
		Int("actions", byKind[loader.KindAction]).
		Int("dependabot", byKind[loader.KindDependabot]).
		Msg("Validation complete")
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/actionspec/actionspec/pkg/loader"
	"github.com/actionspec/actionspec/pkg/uses"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show a summary of a single configuration file",
		Example: `  # Summarize a workflow
  actionspec inspect .github/workflows/ci.yml

  # Machine-readable output
  actionspec inspect --json action.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loader.NewLoader(zerolog.Nop()).LoadFile(args[0])
			if err != nil {
				return err
			}

			summary := summarize(file)
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Printf("%s: %s\n", summary.Kind, summary.Name)
			for _, line := range summary.Details {
				fmt.Printf("  %s\n", line)
			}
			return nil
		},
	}

	return cmd
}

// summary is the inspect output for one file.
type summary struct {
	Path    string   `json:"path"`
	Kind    string   `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Details []string `json:"details"`
}

func summarize(file *loader.File) summary {
	s := summary{Path: file.Path, Kind: string(file.Kind)}

	switch file.Kind {
	case loader.KindWorkflow:
		wf := file.Workflow
		s.Name = wf.Name
		s.Details = append(s.Details, fmt.Sprintf("triggers: %d", wf.On.Count()))

		names := make([]string, 0, len(wf.Jobs))
		for name := range wf.Jobs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			job := wf.Jobs[name]
			if job.Reusable != nil {
				s.Details = append(s.Details, fmt.Sprintf("job %s: calls %s", name, describeUses(job.Reusable.Uses)))
				continue
			}
			s.Details = append(s.Details, fmt.Sprintf("job %s: %d steps", name, len(job.Normal.Steps)))
		}
	case loader.KindAction:
		a := file.Action
		s.Name = a.Name
		switch {
		case a.Runs.JavaScript != nil:
			s.Details = append(s.Details, fmt.Sprintf("runtime: %s (%s)", a.Runs.JavaScript.Using, a.Runs.JavaScript.Main))
		case a.Runs.Composite != nil:
			s.Details = append(s.Details, fmt.Sprintf("runtime: composite (%d steps)", len(a.Runs.Composite.Steps)))
		case a.Runs.Docker != nil:
			s.Details = append(s.Details, fmt.Sprintf("runtime: docker (%s)", a.Runs.Docker.Image))
		}
		s.Details = append(s.Details, fmt.Sprintf("inputs: %d, outputs: %d", len(a.Inputs), len(a.Outputs)))
	case loader.KindDependabot:
		d := file.Dependabot
		s.Name = "dependabot"
		for _, u := range d.Updates {
			s.Details = append(s.Details, fmt.Sprintf("updates %s in %s (%s)", u.PackageEcosystem, u.Directory, u.Schedule.Interval))
		}
	}

	return s
}

func describeUses(u uses.Uses) string {
	switch ref := u.(type) {
	case uses.Local:
		return ref.Path
	case uses.Repository:
		path := ref.Owner + "/" + ref.Repo
		if ref.Subpath != "" {
			path += "/" + ref.Subpath
		}
		if ref.Ref != "" {
			path += "@" + ref.Ref
		}
		return path
	case uses.Docker:
		return "docker image " + ref.Image
	}
	return "unknown reference"
}

// Package action models action definition files (action.yml): metadata,
// declared inputs and outputs, and the execution body.
package action

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/common"
	"github.com/actionspec/actionspec/pkg/decode"
	"github.com/actionspec/actionspec/pkg/uses"
)

// Action is a single action definition file.
type Action struct {
	Name        string            `yaml:"name"`
	Author      string            `yaml:"author"`
	Description string            `yaml:"description"`
	Inputs      map[string]Input  `yaml:"inputs"`
	Outputs     map[string]Output `yaml:"outputs"`
	Runs        Runs              `yaml:"runs"`
}

// Input is a single input declared by an action.
type Input struct {
	Description        string           `yaml:"description"`
	Required           bool             `yaml:"required"`
	Default            *common.EnvValue `yaml:"default"`
	DeprecationMessage string           `yaml:"deprecationMessage"`
}

// Output is a single output declared by an action. Value is only meaningful
// for composite actions.
type Output struct {
	Description string `yaml:"description"`
	Value       string `yaml:"value"`
}

// Runs is the execution body of an action: JavaScript, composite, or Docker,
// discriminated by the `using` key.
type Runs struct {
	JavaScript *JavaScript
	Composite  *Composite
	Docker     *Docker
}

// UnmarshalYAML dispatches on the `using` value. JavaScript runtimes are
// versioned (node16, node20, node24) so anything with a node prefix is
// treated as JavaScript.
func (r *Runs) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Using string `yaml:"using"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	switch {
	case head.Using == "composite":
		var c Composite
		if err := node.Decode(&c); err != nil {
			return err
		}
		r.Composite = &c
	case head.Using == "docker":
		var d Docker
		if err := node.Decode(&d); err != nil {
			return err
		}
		r.Docker = &d
	case strings.HasPrefix(head.Using, "node"):
		var js JavaScript
		if err := node.Decode(&js); err != nil {
			return err
		}
		r.JavaScript = &js
	default:
		return fmt.Errorf("line %d: unknown action runtime %q", node.Line, head.Using)
	}
	return nil
}

// JavaScript is the body of a Node.js action.
type JavaScript struct {
	Using  string `yaml:"using"`
	Main   string `yaml:"main"`
	Pre    string `yaml:"pre"`
	PreIf  string `yaml:"pre-if"`
	Post   string `yaml:"post"`
	PostIf string `yaml:"post-if"`
}

// Composite is the body of a composite action.
type Composite struct {
	Using string `yaml:"using"`
	Steps []Step `yaml:"steps"`
}

// Docker is the body of a Docker container action.
type Docker struct {
	Using      string     `yaml:"using"`
	Image      string     `yaml:"image"`
	Entrypoint string     `yaml:"entrypoint"`
	Args       []string   `yaml:"args"`
	Env        common.Env `yaml:"env"`
}

// Step is a single step of a composite action. Like workflow steps it is
// either a `uses:` step or a `run:` step, but the run form additionally
// requires an explicit shell.
type Step struct {
	ID              string     `yaml:"-"`
	If              *common.If `yaml:"-"`
	Name            string     `yaml:"-"`
	ContinueOnError decode.BoE `yaml:"-"`

	// Exactly one of Uses and Run is set.
	Uses *UsesStep
	Run  *RunStep
}

// UsesStep is a composite step that invokes another action.
type UsesStep struct {
	Uses uses.Uses
	With common.Env
}

// RunStep is a composite step that runs a command. Composite actions have no
// ambient shell, so Shell is always set.
type RunStep struct {
	Run              string
	Shell            string
	WorkingDirectory string
	Env              decode.LoE[common.Env]
}

// UnmarshalYAML decodes the flattened step shape and dispatches on which of
// `uses` and `run` is present; `uses` wins when both appear.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		ID               string                 `yaml:"id"`
		If               *common.If             `yaml:"if"`
		Name             string                 `yaml:"name"`
		ContinueOnError  decode.BoE             `yaml:"continue-on-error"`
		Uses             *string                `yaml:"uses"`
		With             common.Env             `yaml:"with"`
		Run              *decode.BoolOrString   `yaml:"run"`
		Shell            string                 `yaml:"shell"`
		WorkingDirectory string                 `yaml:"working-directory"`
		Env              decode.LoE[common.Env] `yaml:"env"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}

	s.ID = shadow.ID
	s.If = shadow.If
	s.Name = shadow.Name
	s.ContinueOnError = shadow.ContinueOnError

	switch {
	case shadow.Uses != nil:
		ref, err := uses.Parse(*shadow.Uses)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		s.Uses = &UsesStep{Uses: ref, With: shadow.With}
	case shadow.Run != nil:
		if shadow.Shell == "" {
			return fmt.Errorf("line %d: composite run step requires a `shell`", node.Line)
		}
		s.Run = &RunStep{
			Run:              string(*shadow.Run),
			Shell:            shadow.Shell,
			WorkingDirectory: shadow.WorkingDirectory,
			Env:              shadow.Env,
		}
	default:
		return fmt.Errorf("line %d: step must have either `uses` or `run`", node.Line)
	}
	return nil
}

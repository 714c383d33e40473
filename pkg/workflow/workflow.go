// Package workflow models GitHub Actions workflow files: the trigger
// surface, job graph, steps, and the contextual values they carry.
package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/common"
	"github.com/actionspec/actionspec/pkg/decode"
)

// Workflow is a single workflow file.
type Workflow struct {
	Name        string                 `yaml:"name"`
	RunName     string                 `yaml:"run-name"`
	On          Trigger                `yaml:"on"`
	Permissions common.Permissions     `yaml:"permissions"`
	Env         decode.LoE[common.Env] `yaml:"env"`
	Defaults    *Defaults              `yaml:"defaults"`
	Concurrency *Concurrency           `yaml:"concurrency"`
	Jobs        map[string]Job         `yaml:"jobs"`
}

// Trigger is the `on:` value of a workflow. It is written either as one or
// more bare event names, or as the rich mapping of event names to filter
// bodies.
type Trigger struct {
	// Bare holds the event names when the trigger is a scalar or a
	// sequence of scalars.
	Bare []Event

	// Events is set when the trigger is the rich mapping form.
	Events *Events
}

// UnmarshalYAML dispatches on the node shape.
func (t *Trigger) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		var bare decode.OneOrMany[Event]
		if err := node.Decode(&bare); err != nil {
			return err
		}
		t.Bare = bare
		return nil
	case yaml.MappingNode:
		var events Events
		if err := node.Decode(&events); err != nil {
			return err
		}
		t.Events = &events
		return nil
	}
	return &decode.Error{
		Line:      node.Line,
		Column:    node.Column,
		Attempted: []string{"event name", "sequence of event names", "trigger mapping"},
	}
}

// Count returns how many events the trigger names, across both forms.
func (t *Trigger) Count() int {
	if t.Events != nil {
		return t.Events.Count()
	}
	return len(t.Bare)
}

// Concurrency is a workflow or job concurrency group, written as a bare
// group name or as a mapping.
type Concurrency struct {
	Group            string
	CancelInProgress decode.BoE
}

// UnmarshalYAML decodes either form.
func (c *Concurrency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Group)
	}
	var rich struct {
		Group            string     `yaml:"group"`
		CancelInProgress decode.BoE `yaml:"cancel-in-progress"`
	}
	if err := node.Decode(&rich); err != nil {
		return err
	}
	if rich.Group == "" {
		return fmt.Errorf("line %d: concurrency mapping requires a `group`", node.Line)
	}
	c.Group = rich.Group
	c.CancelInProgress = rich.CancelInProgress
	return nil
}

// Defaults is the `defaults:` setting of a workflow or job.
type Defaults struct {
	Run *RunDefaults `yaml:"run"`
}

// RunDefaults applies to every `run:` step in scope.
type RunDefaults struct {
	Shell            string `yaml:"shell"`
	WorkingDirectory string `yaml:"working-directory"`
}

package workflow

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/common"
	"github.com/actionspec/actionspec/pkg/decode"
	"github.com/actionspec/actionspec/pkg/uses"
)

// Job is a single entry under `jobs:`. It is either a normal job (steps on
// a runner) or a call to a reusable workflow, discriminated by the presence
// of a `uses` key.
type Job struct {
	Normal   *NormalJob
	Reusable *ReusableWorkflowCallJob
}

// Name returns the optional display name common to both job kinds.
func (j Job) Name() string {
	switch {
	case j.Normal != nil:
		return j.Normal.Name
	case j.Reusable != nil:
		return j.Reusable.Name
	}
	return ""
}

// UnmarshalYAML dispatches on the `uses` key.
func (j *Job) UnmarshalYAML(node *yaml.Node) error {
	if decode.HasKey(node, "uses") {
		var reusable ReusableWorkflowCallJob
		if err := node.Decode(&reusable); err != nil {
			return err
		}
		j.Reusable = &reusable
		return nil
	}

	var normal NormalJob
	if err := node.Decode(&normal); err != nil {
		return err
	}
	j.Normal = &normal
	return nil
}

// NormalJob is a job composed of one or more steps on a runner.
type NormalJob struct {
	Name            string                   `yaml:"name"`
	Permissions     common.Permissions       `yaml:"permissions"`
	Needs           decode.OneOrMany[string] `yaml:"needs"`
	If              *common.If               `yaml:"if"`
	RunsOn          decode.LoE[RunsOn]       `yaml:"runs-on"`
	Environment     *DeploymentEnvironment   `yaml:"environment"`
	Concurrency     *Concurrency             `yaml:"concurrency"`
	Outputs         map[string]string        `yaml:"outputs"`
	Env             decode.LoE[common.Env]   `yaml:"env"`
	Defaults        *Defaults                `yaml:"defaults"`
	Steps           []Step                   `yaml:"steps"`
	TimeoutMinutes  *decode.LoE[uint64]      `yaml:"timeout-minutes"`
	Strategy        *Strategy                `yaml:"strategy"`
	ContinueOnError decode.BoE               `yaml:"continue-on-error"`
	Container       *Container               `yaml:"container"`
	Services        map[string]Container     `yaml:"services"`
}

// RunsOn is the runner selection for a normal job: either one or more
// target labels, or a runner group with optional labels.
type RunsOn struct {
	// Target holds the labels when the selector is written as a scalar
	// or a sequence.
	Target []string

	// Group is set when the selector is written in the group form.
	Group *RunnerGroup
}

// RunnerGroup is the group form of a runner selector.
type RunnerGroup struct {
	Group  string
	Labels []string
}

// UnmarshalYAML decodes either selector shape. The group form must carry at
// least one of a group name or a non-empty label list; the format allows
// the whole selector to be an expression or to be omitted, but not to be
// present with every sub-field empty. That invariant crosses sub-fields, so
// it is checked here after structural assembly rather than per field.
func (r *RunsOn) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		var target decode.OneOrMany[string]
		if err := node.Decode(&target); err != nil {
			return err
		}
		r.Target = target
		return nil
	case yaml.MappingNode:
		var group struct {
			Group  string                   `yaml:"group"`
			Labels decode.OneOrMany[string] `yaml:"labels"`
		}
		if err := node.Decode(&group); err != nil {
			return err
		}
		if group.Group == "" && len(group.Labels) == 0 {
			return fmt.Errorf("line %d: runs-on must provide either `group` or one or more `labels`", node.Line)
		}
		r.Group = &RunnerGroup{Group: group.Group, Labels: group.Labels}
		return nil
	}
	return &decode.Error{
		Line:      node.Line,
		Column:    node.Column,
		Attempted: []string{"target label", "sequence of target labels", "runner group mapping"},
	}
}

// DeploymentEnvironment is the `environment:` setting of a job, written as
// a bare name or as a name/url mapping.
type DeploymentEnvironment struct {
	Name string
	URL  string
}

// UnmarshalYAML decodes either form.
func (d *DeploymentEnvironment) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.Name)
	}
	var rich struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	}
	if err := node.Decode(&rich); err != nil {
		return err
	}
	d.Name = rich.Name
	d.URL = rich.URL
	return nil
}

// Step is a single step of a normal job. The step body is either a `uses:`
// step or a `run:` step; the remaining fields are common to both.
type Step struct {
	ID              string              `yaml:"-"`
	If              *common.If          `yaml:"-"`
	Name            string              `yaml:"-"`
	TimeoutMinutes  *decode.LoE[uint64] `yaml:"-"`
	ContinueOnError decode.BoE          `yaml:"-"`

	// Exactly one of Uses and Run is set.
	Uses *UsesStep
	Run  *RunStep
}

// UsesStep is a step that invokes another action.
type UsesStep struct {
	// Uses is the parsed action reference.
	Uses uses.Uses

	// With holds the inputs passed to the action.
	With common.Env
}

// RunStep is a step that runs a command in a shell.
type RunStep struct {
	Run              string
	WorkingDirectory string
	Shell            string
	Env              decode.LoE[common.Env]
}

// UnmarshalYAML decodes the flattened step shape and dispatches on which of
// `uses` and `run` is present; `uses` wins when both appear.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		ID               string                 `yaml:"id"`
		If               *common.If             `yaml:"if"`
		Name             string                 `yaml:"name"`
		TimeoutMinutes   *decode.LoE[uint64]    `yaml:"timeout-minutes"`
		ContinueOnError  decode.BoE             `yaml:"continue-on-error"`
		Uses             *string                `yaml:"uses"`
		With             common.Env             `yaml:"with"`
		Run              *decode.BoolOrString   `yaml:"run"`
		WorkingDirectory string                 `yaml:"working-directory"`
		Shell            string                 `yaml:"shell"`
		Env              decode.LoE[common.Env] `yaml:"env"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}

	s.ID = shadow.ID
	s.If = shadow.If
	s.Name = shadow.Name
	s.TimeoutMinutes = shadow.TimeoutMinutes
	s.ContinueOnError = shadow.ContinueOnError

	switch {
	case shadow.Uses != nil:
		ref, err := uses.Parse(*shadow.Uses)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		s.Uses = &UsesStep{Uses: ref, With: shadow.With}
	case shadow.Run != nil:
		s.Run = &RunStep{
			Run:              string(*shadow.Run),
			WorkingDirectory: shadow.WorkingDirectory,
			Shell:            shadow.Shell,
			Env:              shadow.Env,
		}
	default:
		return fmt.Errorf("line %d: step must have either `uses` or `run`", node.Line)
	}
	return nil
}

// Strategy is a job's matrix strategy.
type Strategy struct {
	Matrix      *decode.LoE[Matrix] `yaml:"matrix"`
	FailFast    *decode.BoE         `yaml:"fail-fast"`
	MaxParallel *decode.LoE[uint64] `yaml:"max-parallel"`
}

// Matrix is a build matrix: named dimensions plus include/exclude
// adjustments. Any of the three parts, or the whole matrix, may be an
// expression instead of a literal.
type Matrix struct {
	Include    decode.LoE[[]map[string]any]
	Exclude    decode.LoE[[]map[string]any]
	Dimensions map[string]decode.LoE[[]any]
}

// UnmarshalYAML separates the reserved include/exclude keys from the
// author-named dimensions.
func (m *Matrix) UnmarshalYAML(node *yaml.Node) error {
	return decode.Mapping(node, func(key string, value *yaml.Node) error {
		switch key {
		case "include":
			return value.Decode(&m.Include)
		case "exclude":
			return value.Decode(&m.Exclude)
		default:
			var dim decode.LoE[[]any]
			if err := value.Decode(&dim); err != nil {
				return fmt.Errorf("matrix dimension %q: %w", key, err)
			}
			if m.Dimensions == nil {
				m.Dimensions = make(map[string]decode.LoE[[]any])
			}
			m.Dimensions[key] = dim
			return nil
		}
	})
}

// Container is a job or service container, written as a bare image name or
// as a mapping.
type Container struct {
	Image       string
	Credentials *DockerCredentials
	Env         decode.LoE[common.Env]
	Volumes     []string
	Options     string
}

// DockerCredentials authenticates a container registry pull.
type DockerCredentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// UnmarshalYAML decodes either container form.
func (c *Container) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Image)
	}
	var rich struct {
		Image       string                 `yaml:"image"`
		Credentials *DockerCredentials     `yaml:"credentials"`
		Env         decode.LoE[common.Env] `yaml:"env"`
		Volumes     []string               `yaml:"volumes"`
		Options     string                 `yaml:"options"`
	}
	if err := node.Decode(&rich); err != nil {
		return err
	}
	c.Image = rich.Image
	c.Credentials = rich.Credentials
	c.Env = rich.Env
	c.Volumes = rich.Volumes
	c.Options = rich.Options
	return nil
}

// ReusableWorkflowCallJob is a job that calls a reusable workflow.
type ReusableWorkflowCallJob struct {
	Name        string
	Permissions common.Permissions
	Needs       []string
	If          *common.If

	// Uses is the parsed reusable-workflow reference. Remote references
	// must be pinned and local ones must not be; the reference parser
	// enforces both rules for this context.
	Uses uses.Uses

	With    common.Env
	Secrets *Secrets
}

// UnmarshalYAML decodes the job and validates the reusable reference.
func (r *ReusableWorkflowCallJob) UnmarshalYAML(node *yaml.Node) error {
	var shadow struct {
		Name        string                   `yaml:"name"`
		Permissions common.Permissions       `yaml:"permissions"`
		Needs       decode.OneOrMany[string] `yaml:"needs"`
		If          *common.If               `yaml:"if"`
		Uses        string                   `yaml:"uses"`
		With        common.Env               `yaml:"with"`
		Secrets     *Secrets                 `yaml:"secrets"`
	}
	if err := node.Decode(&shadow); err != nil {
		return err
	}

	ref, err := uses.ParseReusable(shadow.Uses)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	r.Name = shadow.Name
	r.Permissions = shadow.Permissions
	r.Needs = shadow.Needs
	r.If = shadow.If
	r.Uses = ref
	r.With = shadow.With
	r.Secrets = shadow.Secrets
	return nil
}

// Secrets is the `secrets:` setting of a reusable workflow call: either the
// literal scalar `inherit` or an explicit secret mapping.
type Secrets struct {
	Inherit bool
	Env     common.Env
}

// UnmarshalYAML decodes either form.
func (s *Secrets) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		if v != "inherit" {
			return fmt.Errorf("line %d: invalid secrets %q: expected `inherit` or a mapping", node.Line, v)
		}
		s.Inherit = true
		return nil
	}
	return node.Decode(&s.Env)
}

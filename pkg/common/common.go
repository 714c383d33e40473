// Package common holds schema values shared between the workflow and action
// models: environment mappings, permissions, and conditions.
package common

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/decode"
	"github.com/actionspec/actionspec/pkg/expr"
)

// Env is an environment mapping for a workflow, job, or step.
type Env map[string]EnvValue

// EnvValue is a single environment value. Values are always strings, but
// the format lets authors write them as native YAML booleans or numbers
// before internal stringification.
type EnvValue string

// UnmarshalYAML decodes a string, boolean, or number scalar into a string.
// Booleans normalize to "true"/"false"; numbers keep their written form.
func (v *EnvValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &decode.Error{
			Line:      node.Line,
			Column:    node.Column,
			Attempted: []string{"string", "number", "boolean"},
		}
	}

	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = EnvValue(strconv.FormatBool(b))
	case "!!int", "!!float":
		*v = EnvValue(node.Value)
	default:
		var s string
		if err := node.Decode(&s); err != nil {
			return &decode.Error{
				Line:      node.Line,
				Column:    node.Column,
				Attempted: []string{"string", "number", "boolean"},
				Cause:     err,
			}
		}
		*v = EnvValue(s)
	}
	return nil
}

// String returns the stringified value.
func (v EnvValue) String() string {
	return string(v)
}

// BasePermission is a blanket permission setting for the whole token.
type BasePermission string

// Blanket permission settings.
const (
	// BasePermissionDefault keeps whatever default permissions come with
	// the workflow's token.
	BasePermissionDefault  BasePermission = "default"
	BasePermissionReadAll  BasePermission = "read-all"
	BasePermissionWriteAll BasePermission = "write-all"
)

// Permission is a single permission setting.
type Permission string

// Individual permission settings. The zero value means PermissionNone:
// permissions that are not explicitly listed default to no access.
const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionNone  Permission = "none"
)

// UnmarshalYAML validates the permission scalar.
func (p *Permission) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch Permission(s) {
	case PermissionRead, PermissionWrite, PermissionNone:
		*p = Permission(s)
		return nil
	}
	return fmt.Errorf("line %d: invalid permission %q: expected read, write, or none", node.Line, s)
}

// ExplicitPermissions maps individual scopes to permission settings.
// Scopes that are not listed default to PermissionNone.
type ExplicitPermissions struct {
	Actions            Permission `yaml:"actions"`
	Checks             Permission `yaml:"checks"`
	Contents           Permission `yaml:"contents"`
	Deployments        Permission `yaml:"deployments"`
	IDToken            Permission `yaml:"id-token"`
	Issues             Permission `yaml:"issues"`
	Discussions        Permission `yaml:"discussions"`
	Packages           Permission `yaml:"packages"`
	Pages              Permission `yaml:"pages"`
	PullRequests       Permission `yaml:"pull-requests"`
	RepositoryProjects Permission `yaml:"repository-projects"`
	SecurityEvents     Permission `yaml:"security-events"`
	Statuses           Permission `yaml:"statuses"`
}

// Permissions is the `permissions:` setting for a workflow, job, or step.
// It is written either as a blanket scalar (`read-all`) or as a mapping of
// individual scopes. The zero value means the token's default permissions.
type Permissions struct {
	// Base is the blanket form; empty means BasePermissionDefault unless
	// Explicit is set.
	Base BasePermission

	// Explicit is the per-scope form; nil unless the mapping form was used.
	Explicit *ExplicitPermissions
}

// UnmarshalYAML decodes either the scalar or the mapping form.
func (p *Permissions) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		switch BasePermission(s) {
		case BasePermissionDefault, BasePermissionReadAll, BasePermissionWriteAll:
			p.Base = BasePermission(s)
			return nil
		}
		return fmt.Errorf("line %d: invalid permissions %q: expected default, read-all, or write-all", node.Line, s)
	case yaml.MappingNode:
		var explicit ExplicitPermissions
		if err := node.Decode(&explicit); err != nil {
			return err
		}
		p.Explicit = &explicit
		return nil
	}
	return &decode.Error{
		Line:      node.Line,
		Column:    node.Column,
		Attempted: []string{"base permission scalar", "explicit permission mapping"},
	}
}

// If is a condition on a step, job, or action phase. Conditions are
// expressions that the format usually writes without `${{ }}` fences;
// fenced input is accepted too, so an If always carries a well-delimited
// expression value.
type If struct {
	Condition expr.Expr
}

// UnmarshalYAML decodes a condition scalar. YAML booleans are accepted and
// stringify before interpretation.
func (i *If) UnmarshalYAML(node *yaml.Node) error {
	var s decode.BoolOrString
	if err := node.Decode(&s); err != nil {
		return err
	}

	if e, ok := expr.FromCurly(string(s)); ok {
		i.Condition = e
		return nil
	}
	// FromBare cannot fail once FromCurly has: the trimmed text is known
	// not to be curly-delimited.
	e, _ := expr.FromBare(string(s))
	i.Condition = e
	return nil
}

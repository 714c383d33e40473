// Package decode provides the polymorphic decoding primitives that the
// GitHub Actions configuration formats are built from.
//
// The source formats are deliberately loose: a scalar may stand in for a
// list, a boolean for a string, a templated expression for any literal, and
// an absent key means something different from a present-but-empty one.
// Every primitive here decodes by trying a fixed, ordered list of
// interpretations over the raw YAML node and committing to the first
// structural match, so the precedence rules are explicit policy rather than
// an accident of the decoder.
//
// The package performs no I/O and never logs; all failures surface as a
// *decode.Error to the caller.
package decode

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Error describes a structural decode failure: none of the attempted
// interpretations matched the shape of the input value.
type Error struct {
	// Line and Column locate the offending value in the source document
	// (1-indexed, as reported by the YAML parser).
	Line   int
	Column int

	// Attempted lists the interpretations that were tried, in the order
	// they were tried.
	Attempted []string

	// Cause is the underlying decoder error from the final attempt, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("line %d, column %d: cannot decode value (attempted: %s)",
		e.Line, e.Column, strings.Join(e.Attempted, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying decoder error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNull reports whether node is an explicit null scalar, which is how the
// parser represents a key that is present without a value.
func IsNull(node *yaml.Node) bool {
	return node.ShortTag() == "!!null"
}

// Mapping iterates the key/value pairs of a mapping node in document order,
// invoking fn for each pair. It fails with an Error if the node is not a
// mapping. Records whose fields cannot be decoded by tag alone (tri-state
// keys, flattened unions) use this to inspect the raw mapping.
func Mapping(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return &Error{
			Line:      node.Line,
			Column:    node.Column,
			Attempted: []string{"mapping"},
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// HasKey reports whether a mapping node carries the given key. Used to
// disambiguate flattened unions by the presence of a discriminating key.
func HasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

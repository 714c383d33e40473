package decode

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// OneOrMany normalizes a value that may be written as a single T or as a
// sequence of T. Both shapes decode to a plain slice: the scalar case
// becomes a one-element slice, and the sequence case preserves input order
// exactly. The normalization happens only at the decoding boundary; the
// stored value is an ordinary []T.
type OneOrMany[T any] []T

// UnmarshalYAML decodes either a bare scalar or a sequence into the slice.
func (o *OneOrMany[T]) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.SequenceNode:
		var many []T
		if err := node.Decode(&many); err != nil {
			return &Error{
				Line:      node.Line,
				Column:    node.Column,
				Attempted: []string{fmt.Sprintf("sequence of %T", *new(T))},
				Cause:     err,
			}
		}
		*o = many
	default:
		var one T
		if err := node.Decode(&one); err != nil {
			return &Error{
				Line:      node.Line,
				Column:    node.Column,
				Attempted: []string{fmt.Sprintf("single %T", one), fmt.Sprintf("sequence of %T", one)},
				Cause:     err,
			}
		}
		*o = []T{one}
	}
	return nil
}

// BoolOrString normalizes a value that may be written as a YAML boolean but
// is semantically a string: booleans stringify to the literal text "true"
// or "false", and strings pass through unchanged. The format contextually
// reinterprets boolean-looking scalars in a handful of places, e.g. a `run:`
// command that is the literal word `true`.
type BoolOrString string

// UnmarshalYAML decodes a boolean or string scalar into a string.
func (b *BoolOrString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!bool" {
		var v bool
		if err := node.Decode(&v); err == nil {
			*b = BoolOrString(strconv.FormatBool(v))
			return nil
		}
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return &Error{
			Line:      node.Line,
			Column:    node.Column,
			Attempted: []string{"boolean", "string"},
			Cause:     err,
		}
	}
	*b = BoolOrString(s)
	return nil
}

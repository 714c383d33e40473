package decode

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/actionspec/actionspec/pkg/expr"
)

// LoE is a "literal or expression" value: either a literal of type T or a
// GitHub Actions expression. Any literal-valued field in the format may be
// replaced wholesale by a `${{ }}` expression, so the expression
// interpretation is always attempted first; without that ordering a string
// literal that happens to look like an expression would be ambiguous.
//
// The zero value is the literal zero of T, which is the default for
// optional fields that are absent.
type LoE[T any] struct {
	// Expression is non-nil when the value decoded as an expression.
	Expression *expr.Expr

	// Literal holds the decoded literal when Expression is nil.
	Literal T
}

// BoE is a boolean literal or an expression.
type BoE = LoE[bool]

// Lit wraps a literal value in an LoE, for constructing expected values.
func Lit[T any](v T) LoE[T] {
	return LoE[T]{Literal: v}
}

// IsExpr reports whether the value decoded as an expression.
func (l LoE[T]) IsExpr() bool {
	return l.Expression != nil
}

// UnmarshalYAML decodes the value, attempting the expression interpretation
// before the literal one.
func (l *LoE[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err == nil {
			if e, ok := expr.FromCurly(s); ok {
				l.Expression = &e
				return nil
			}
		}
	}

	if err := node.Decode(&l.Literal); err != nil {
		return &Error{
			Line:      node.Line,
			Column:    node.Column,
			Attempted: []string{"expression", fmt.Sprintf("literal %T", l.Literal)},
			Cause:     err,
		}
	}
	l.Expression = nil
	return nil
}

// Package expr models GitHub Actions expressions.
//
// An expression is a templated placeholder like `${{ github.ref }}` that the
// host system evaluates at a later stage. This package only recognizes and
// normalizes the textual delimiters; it never evaluates the expression body.
package expr

import "strings"

// Expr is a GitHub Actions expression.
//
// An Expr must be constructed through FromCurly or FromBare so that the
// delimiter invariant holds; the zero value is an empty expression.
type Expr struct {
	raw string
}

// FromCurly constructs an Expr from text that is already fenced by
// `${{` and `}}` after trimming leading and trailing whitespace.
// It reports false if the delimiters are missing or malformed.
//
// The original, untrimmed text is retained and available via Raw.
func FromCurly(text string) (Expr, bool) {
	if !isCurly(strings.TrimSpace(text)) {
		return Expr{}, false
	}
	return Expr{raw: text}, true
}

// FromBare constructs an Expr from text that is NOT already fenced by
// expression delimiters. It reports false if the trimmed text is already
// curly-delimited. Used for fields where the format specifies that an
// expression is written without its fences, such as `if:` conditions.
func FromBare(text string) (Expr, bool) {
	if isCurly(strings.TrimSpace(text)) {
		return Expr{}, false
	}
	return Expr{raw: text}, true
}

// Raw returns the exact underlying text the Expr was constructed from.
func (e Expr) Raw() string {
	return e.raw
}

// Curly returns the delimited form of the expression, trimmed of leading and
// trailing whitespace. If the underlying text is not delimited (a bare
// construction), the fences are synthesized around the trimmed body.
// Whitespace inside the fences is preserved verbatim.
func (e Expr) Curly() string {
	trimmed := strings.TrimSpace(e.raw)
	if isCurly(trimmed) {
		return trimmed
	}
	return "${{ " + trimmed + " }}"
}

// Bare returns the expression body with the `${{ }}` fences and the
// whitespace immediately inside them stripped.
//
// Bare panics if the curly form is not actually delimited. That can only
// happen when the construction invariant was bypassed, which is a
// programming error rather than an input error.
func (e Expr) Bare() string {
	curly := e.Curly()
	inner, okPrefix := strings.CutPrefix(curly, "${{")
	inner, okSuffix := strings.CutSuffix(inner, "}}")
	if !okPrefix || !okSuffix {
		panic("expr: expression is not curly-delimited; constructed without validation")
	}
	return strings.TrimSpace(inner)
}

// isCurly reports whether s (assumed pre-trimmed) carries well-formed
// expression fences.
func isCurly(s string) bool {
	return strings.HasPrefix(s, "${{") && strings.HasSuffix(s, "}}")
}

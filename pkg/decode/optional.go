package decode

import "gopkg.in/yaml.v3"

type bodyState uint8

const (
	stateMissing bodyState = iota
	stateDefault
	stateBody
)

// OptionalBody distinguishes three states of a mapping key that a plain
// optional cannot express: the key being entirely absent (Missing), the key
// being present with an explicitly null or empty value (Default), and the
// key being present with a concrete body (Body).
//
// The format assigns different semantics to "absent" and "present but
// empty": for workflow triggers, `pull_request:` with no body means
// "trigger with the defaults for this event", while omitting the key means
// the event does not trigger at all.
//
// The zero value is Missing. The YAML decoder replaces null values with a
// field's zero value instead of invoking unmarshalers, so a present-but-null
// key is indistinguishable from an absent one by the time a field-level
// unmarshaler could run. OptionalBody fields are therefore populated by the
// containing record's UnmarshalYAML, which walks the raw mapping and calls
// Optional for each key that actually appears; fields it never touches keep
// the Missing zero value, so "absent" is never coerced into "null".
type OptionalBody[T any] struct {
	state bodyState
	value T
}

// Optional decodes the value node of a present mapping key: an explicit
// null yields the Default state, anything else decodes as T and yields the
// Body state.
func Optional[T any](node *yaml.Node) (OptionalBody[T], error) {
	if IsNull(node) {
		return DefaultBody[T](), nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return OptionalBody[T]{}, err
	}
	return Body(v), nil
}

// Body constructs an OptionalBody in the Body state.
func Body[T any](v T) OptionalBody[T] {
	return OptionalBody[T]{state: stateBody, value: v}
}

// DefaultBody constructs an OptionalBody in the Default state.
func DefaultBody[T any]() OptionalBody[T] {
	return OptionalBody[T]{state: stateDefault}
}

// IsMissing reports whether the key never appeared in the document.
func (o OptionalBody[T]) IsMissing() bool {
	return o.state == stateMissing
}

// IsDefault reports whether the key appeared with a null or empty value.
func (o OptionalBody[T]) IsDefault() bool {
	return o.state == stateDefault
}

// IsPresent reports whether the key appeared at all, with or without a body.
func (o OptionalBody[T]) IsPresent() bool {
	return o.state != stateMissing
}

// Value returns the decoded body and whether one is present.
func (o OptionalBody[T]) Value() (T, bool) {
	return o.value, o.state == stateBody
}

package spec

import "fmt"

// keyInfo backs every opaque key. Keys compare by pointer identity; the
// label only shows up in logs.
type keyInfo struct {
	label string
}

// BreakpointKey identifies a breakpoint. Two keys are equal only when they
// were returned by the same NewBreakpointKey call.
type BreakpointKey struct {
	k *keyInfo
}

// NewBreakpointKey returns a fresh key. label is for debugging only.
func NewBreakpointKey(label string) BreakpointKey {
	return BreakpointKey{k: &keyInfo{label: label}}
}

// IsZero reports whether k is the zero key, which never identifies a breakpoint.
func (k BreakpointKey) IsZero() bool { return k.k == nil }

// Label returns the debug label.
func (k BreakpointKey) Label() string {
	if k.k == nil {
		return ""
	}
	return k.k.label
}

func (k BreakpointKey) String() string {
	switch {
	case k.k == nil:
		return "<nil>"
	case k.k.label != "":
		return k.k.label
	default:
		return fmt.Sprintf("bp@%p", k.k)
	}
}

// SemanticKey identifies a semantic value of type T attached to segments.
type SemanticKey[T any] struct {
	k *keyInfo
}

// NewSemanticKey returns a fresh semantic key.
func NewSemanticKey[T any](label string) SemanticKey[T] {
	return SemanticKey[T]{k: &keyInfo{label: label}}
}

// Label returns the debug label.
func (k SemanticKey[T]) Label() string {
	if k.k == nil {
		return ""
	}
	return k.k.label
}

func (k SemanticKey[T]) String() string { return k.Label() }

// SemanticValue pairs a semantic key with a value of the key's type.
type SemanticValue struct {
	key   *keyInfo
	Value any
}

// Semantic ties value to key.
func Semantic[T any](key SemanticKey[T], value T) SemanticValue {
	return SemanticValue{key: key.k, Value: value}
}

// Label returns the label of the value's key.
func (v SemanticValue) Label() string {
	if v.key == nil {
		return ""
	}
	return v.key.label
}

// Is reports whether v belongs to key.
func Is[T any](v SemanticValue, key SemanticKey[T]) bool {
	return v.key != nil && v.key == key.k
}

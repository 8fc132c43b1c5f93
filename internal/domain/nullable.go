package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes an absent JSON field from an explicit null in PATCH
// bodies. Set is true whenever the key was present; Null is true for `null`.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// Null returns a present null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns nil for null or absent values.
func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

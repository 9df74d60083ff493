package domain

import (
	"bytes"
	"encoding/json"
)

type patchOp uint8

const (
	patchUnchanged patchOp = iota
	patchClear
	patchSet
)

// Patch is a single-field update instruction. A field omitted from a JSON
// payload decodes to Unchanged, an explicit null to Clear, anything else to Set.
type Patch[T any] struct {
	op    patchOp
	value T
}

func Unchanged[T any]() Patch[T] { return Patch[T]{} }

func Clear[T any]() Patch[T] { return Patch[T]{op: patchClear} }

func Set[T any](v T) Patch[T] { return Patch[T]{op: patchSet, value: v} }

// SetPtr is Set for a non-nil pointer and Clear for nil.
func SetPtr[T any](v *T) Patch[T] {
	if v == nil {
		return Clear[T]()
	}
	return Set(*v)
}

func (p Patch[T]) IsUnchanged() bool { return p.op == patchUnchanged }

func (p Patch[T]) IsClear() bool { return p.op == patchClear }

func (p Patch[T]) IsSet() bool { return p.op == patchSet }

func (p Patch[T]) Value() T { return p.value }

func (p Patch[T]) Apply(current T) T {
	switch p.op {
	case patchSet:
		return p.value
	case patchClear:
		var zero T
		return zero
	default:
		return current
	}
}

func (p Patch[T]) ApplyPtr(current *T) *T {
	switch p.op {
	case patchSet:
		v := p.value
		return &v
	case patchClear:
		return nil
	default:
		return current
	}
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Clear[T]()
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Set(v)
	return nil
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if p.op != patchSet {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

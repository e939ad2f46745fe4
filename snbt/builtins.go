package snbt

import (
	"encoding/binary"
	"maps"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/dhamidi/nbtkit/grammar"
	"github.com/dhamidi/nbtkit/nbt"
	"github.com/dhamidi/nbtkit/packrat"
)

// BuiltinKey names an operation by identifier and argument count.
type BuiltinKey struct {
	ID    string
	Arity int
}

func (k BuiltinKey) String() string { return k.ID + "/" + strconv.Itoa(k.Arity) }

// Builtin computes a value from its arguments. Failures are stored on state.
type Builtin[T any] func(ops nbt.Ops[T], args []T, state *grammar.State) (T, bool)

// Builtins is the registry of operations callable as name(args...) in the
// text notation.
type Builtins[T any] map[BuiltinKey]Builtin[T]

// DefaultBuiltins returns bool/1 and uuid/1.
func DefaultBuiltins[T any]() Builtins[T] {
	return Builtins[T]{
		{ID: "bool", Arity: 1}: builtinBool[T],
		{ID: "uuid", Arity: 1}: builtinUUID[T],
	}
}

// suggestions lists the names offered where an unquoted string may start.
func (b Builtins[T]) suggestions() packrat.SuggestValues[*grammar.Reader] {
	ids := map[string]bool{"false": true, "true": true}
	for k := range b {
		ids[k.ID] = true
	}
	return slices.Sorted(maps.Keys(ids))
}

func builtinBool[T any](ops nbt.Ops[T], args []T, state *grammar.State) (T, bool) {
	if b, err := ops.BoolValue(args[0]); err == nil {
		return ops.CreateBool(b), true
	}
	if n, err := ops.NumberValue(args[0]); err == nil {
		return ops.CreateBool(n.Float64() != 0), true
	}
	state.Store(state.Mark(), expectedNumberOrBool)
	var zero T
	return zero, false
}

func builtinUUID[T any](ops nbt.Ops[T], args []T, state *grammar.State) (T, bool) {
	var zero T
	s, err := ops.StringValue(args[0])
	if err != nil {
		state.Store(state.Mark(), expectedStringUUID)
		return zero, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		state.Store(state.Mark(), expectedStringUUID)
		return zero, false
	}
	return ops.CreateIntList(UUIDToInts(id)), true
}

// UUIDToInts splits id into four big-endian 32-bit words, most significant
// first.
func UUIDToInts(id uuid.UUID) []int32 {
	out := make([]int32, 4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(id[4*i:]))
	}
	return out
}

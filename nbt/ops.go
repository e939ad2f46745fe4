package nbt

import "fmt"

// Kind classifies a value of some representation for conversion between
// representations.
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindNumber
	KindString
	KindByteList
	KindIntList
	KindLongList
	KindList
	KindMap
)

var kindNames = [...]string{
	KindEmpty:    "empty",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindByteList: "byte list",
	KindIntList:  "int list",
	KindLongList: "long list",
	KindList:     "list",
	KindMap:      "map",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Entry is a key/value pair of a map value.
type Entry[T any] struct {
	Key   string
	Value T
}

// Ops builds and inspects values of representation T. The text grammar
// produces its results through an Ops, so the same parser can build native
// tags or any other tree.
type Ops[T any] interface {
	Empty() T
	EmptyMap() T
	EmptyList() T

	CreateBool(v bool) T
	CreateByte(v int8) T
	CreateShort(v int16) T
	CreateInt(v int32) T
	CreateLong(v int64) T
	CreateFloat(v float32) T
	CreateDouble(v float64) T
	CreateString(v string) T
	CreateByteList(v []int8) T
	CreateIntList(v []int32) T
	CreateLongList(v []int64) T
	CreateList(v []T) T
	CreateMap(entries []Entry[T]) T

	Kind(v T) Kind
	BoolValue(v T) (bool, error)
	NumberValue(v T) (Numeric, error)
	StringValue(v T) (string, error)
	ByteListValue(v T) ([]int8, error)
	IntListValue(v T) ([]int32, error)
	LongListValue(v T) ([]int64, error)
	ListValues(v T) ([]T, error)
	MapEntries(v T) ([]Entry[T], error)

	// MergeToList returns a copy of list with elem appended.
	MergeToList(list, elem T) (T, error)
	// MergeToMap returns a copy of m with key set to value.
	MergeToMap(m T, key string, value T) (T, error)
	// Remove returns a copy of m without key.
	Remove(m T, key string) T
}

// Convert rebuilds v, described by from, in the representation of to.
func Convert[T, U any](from Ops[T], to Ops[U], v T) (U, error) {
	var zero U
	switch k := from.Kind(v); k {
	case KindEmpty:
		return to.Empty(), nil
	case KindBool:
		b, err := from.BoolValue(v)
		if err != nil {
			return zero, err
		}
		return to.CreateBool(b), nil
	case KindNumber:
		n, err := from.NumberValue(v)
		if err != nil {
			return zero, err
		}
		return createNumber(to, n), nil
	case KindString:
		s, err := from.StringValue(v)
		if err != nil {
			return zero, err
		}
		return to.CreateString(s), nil
	case KindByteList:
		b, err := from.ByteListValue(v)
		if err != nil {
			return zero, err
		}
		return to.CreateByteList(b), nil
	case KindIntList:
		b, err := from.IntListValue(v)
		if err != nil {
			return zero, err
		}
		return to.CreateIntList(b), nil
	case KindLongList:
		b, err := from.LongListValue(v)
		if err != nil {
			return zero, err
		}
		return to.CreateLongList(b), nil
	case KindList:
		elems, err := from.ListValues(v)
		if err != nil {
			return zero, err
		}
		out := make([]U, len(elems))
		for i, e := range elems {
			if out[i], err = Convert(from, to, e); err != nil {
				return zero, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return to.CreateList(out), nil
	case KindMap:
		entries, err := from.MapEntries(v)
		if err != nil {
			return zero, err
		}
		out := make([]Entry[U], len(entries))
		for i, e := range entries {
			value, err := Convert(from, to, e.Value)
			if err != nil {
				return zero, fmt.Errorf("%q: %w", e.Key, err)
			}
			out[i] = Entry[U]{Key: e.Key, Value: value}
		}
		return to.CreateMap(out), nil
	default:
		return zero, fmt.Errorf("cannot convert value of kind %s", k)
	}
}

// ConvertTag rebuilds a native tree in the representation of to.
func ConvertTag[U any](to Ops[U], t Tag) (U, error) {
	var zero U
	switch x := t.(type) {
	case End:
		return to.Empty(), nil
	case Numeric:
		return createNumber(to, x), nil
	case String:
		return to.CreateString(string(x)), nil
	case *ByteArray:
		return to.CreateByteList(x.Values()), nil
	case *IntArray:
		return to.CreateIntList(x.Values()), nil
	case *LongArray:
		return to.CreateLongList(x.Values()), nil
	case *List:
		out := make([]U, len(x.elems))
		for i, e := range x.elems {
			var err error
			if out[i], err = ConvertTag(to, e); err != nil {
				return zero, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return to.CreateList(out), nil
	case *Compound:
		out := make([]Entry[U], 0, len(x.tags))
		for k, v := range x.Sorted() {
			value, err := ConvertTag(to, v)
			if err != nil {
				return zero, fmt.Errorf("%q: %w", k, err)
			}
			out = append(out, Entry[U]{Key: k, Value: value})
		}
		return to.CreateMap(out), nil
	}
	return zero, fmt.Errorf("cannot convert %T", t)
}

func createNumber[U any](to Ops[U], n Numeric) U {
	switch x := n.(type) {
	case Byte:
		return to.CreateByte(int8(x))
	case Short:
		return to.CreateShort(int16(x))
	case Int:
		return to.CreateInt(int32(x))
	case Long:
		return to.CreateLong(int64(x))
	case Float:
		return to.CreateFloat(float32(x))
	}
	return to.CreateDouble(n.Float64())
}

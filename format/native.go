package format

import (
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/dhamidi/nbtkit/nbt"
)

// GoOps represents values as plain Go data: nil, bool, the sized integer and
// float types, string, []int8, []int32, []int64, []any and map[string]any.
// Values decoded by encoding/json, yaml.v3 or cbor are also accepted: untyped
// numbers (json.Number, int, uint64, float64) are narrowed to the smallest
// tag type that holds them.
type GoOps struct{}

var _ nbt.Ops[any] = GoOps{}

func (GoOps) Empty() any     { return nil }
func (GoOps) EmptyMap() any  { return map[string]any{} }
func (GoOps) EmptyList() any { return []any{} }

func (GoOps) CreateBool(v bool) any        { return v }
func (GoOps) CreateByte(v int8) any        { return v }
func (GoOps) CreateShort(v int16) any      { return v }
func (GoOps) CreateInt(v int32) any        { return v }
func (GoOps) CreateLong(v int64) any       { return v }
func (GoOps) CreateFloat(v float32) any    { return v }
func (GoOps) CreateDouble(v float64) any   { return v }
func (GoOps) CreateString(v string) any    { return v }
func (GoOps) CreateByteList(v []int8) any  { return slices.Clone(v) }
func (GoOps) CreateIntList(v []int32) any  { return slices.Clone(v) }
func (GoOps) CreateLongList(v []int64) any { return slices.Clone(v) }
func (GoOps) CreateList(v []any) any       { return slices.Clone(v) }

func (GoOps) CreateMap(entries []nbt.Entry[any]) any {
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}

func (GoOps) Kind(v any) nbt.Kind {
	switch v.(type) {
	case nil:
		return nbt.KindEmpty
	case bool:
		return nbt.KindBool
	case int8, int16, int32, int64, float32, float64, int, uint8, uint16, uint32, uint64, json.Number:
		return nbt.KindNumber
	case string:
		return nbt.KindString
	case []int8, []byte:
		return nbt.KindByteList
	case []int32:
		return nbt.KindIntList
	case []int64:
		return nbt.KindLongList
	case []any:
		return nbt.KindList
	case map[string]any, map[any]any:
		return nbt.KindMap
	case encoding.TextMarshaler:
		return nbt.KindString
	}
	return nbt.KindEmpty
}

func (o GoOps) BoolValue(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	n, err := o.NumberValue(v)
	if err != nil {
		return false, err
	}
	return n.Int8() != 0, nil
}

func (GoOps) NumberValue(v any) (nbt.Numeric, error) {
	switch x := v.(type) {
	case int8:
		return nbt.Byte(x), nil
	case int16:
		return nbt.Short(x), nil
	case int32:
		return nbt.Int(x), nil
	case int64:
		return narrowInt(x), nil
	case int:
		return narrowInt(int64(x)), nil
	case uint8:
		return narrowInt(int64(x)), nil
	case uint16:
		return narrowInt(int64(x)), nil
	case uint32:
		return narrowInt(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("number out of range: %d", x)
		}
		return narrowInt(int64(x)), nil
	case float32:
		return nbt.Float(x), nil
	case float64:
		return narrowFloat(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return narrowInt(i), nil
		}
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", x, err)
		}
		return narrowFloat(f), nil
	}
	return nil, fmt.Errorf("not a number: %T", v)
}

func narrowInt(v int64) nbt.Numeric {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return nbt.Byte(v)
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return nbt.Short(v)
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return nbt.Int(v)
	}
	return nbt.Long(v)
}

// narrowFloat keeps integral values integral and uses float where the value
// survives the round trip.
func narrowFloat(v float64) nbt.Numeric {
	if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
		return narrowInt(int64(v))
	}
	if float64(float32(v)) == v {
		return nbt.Float(v)
	}
	return nbt.Double(v)
}

// StringValue also accepts text marshalers such as the dates of TOML.
func (GoOps) StringValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		return string(text), err
	}
	return "", fmt.Errorf("not a string: %T", v)
}

func (o GoOps) ByteListValue(v any) ([]int8, error) {
	switch x := v.(type) {
	case []int8:
		return x, nil
	case []byte:
		out := make([]int8, len(x))
		for i, b := range x {
			out[i] = int8(b)
		}
		return out, nil
	}
	return numberList(o, v, nbt.Numeric.Int8)
}

func (o GoOps) IntListValue(v any) ([]int32, error) {
	if x, ok := v.([]int32); ok {
		return x, nil
	}
	return numberList(o, v, nbt.Numeric.Int32)
}

func (o GoOps) LongListValue(v any) ([]int64, error) {
	if x, ok := v.([]int64); ok {
		return x, nil
	}
	return numberList(o, v, nbt.Numeric.Int64)
}

func numberList[E any](o GoOps, v any, get func(nbt.Numeric) E) ([]E, error) {
	elems, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("not a list: %T", v)
	}
	out := make([]E, len(elems))
	for i, e := range elems {
		n, err := o.NumberValue(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = get(n)
	}
	return out, nil
}

// ListValues boxes the elements of typed slices. Null elements carry no tag
// and are omitted.
func (GoOps) ListValues(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return slices.DeleteFunc(slices.Clone(x), func(e any) bool { return e == nil }), nil
	case []int8:
		return boxed(x), nil
	case []byte:
		return boxed(x), nil
	case []int32:
		return boxed(x), nil
	case []int64:
		return boxed(x), nil
	}
	return nil, fmt.Errorf("not a list: %T", v)
}

func boxed[E any](s []E) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}

// MapEntries returns entries sorted by key. Null members are omitted.
func (GoOps) MapEntries(v any) ([]nbt.Entry[any], error) {
	var m map[string]any
	switch x := v.(type) {
	case map[string]any:
		m = x
	case map[any]any:
		m = make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = e
		}
	default:
		return nil, fmt.Errorf("not a map: %T", v)
	}
	out := make([]nbt.Entry[any], 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if m[k] != nil {
			out = append(out, nbt.Entry[any]{Key: k, Value: m[k]})
		}
	}
	return out, nil
}

func (o GoOps) MergeToList(list, elem any) (any, error) {
	if list == nil {
		return []any{elem}, nil
	}
	elems, err := o.ListValues(list)
	if err != nil {
		return nil, err
	}
	return append(elems, elem), nil
}

func (GoOps) MergeToMap(m any, key string, value any) (any, error) {
	if m == nil {
		return map[string]any{key: value}, nil
	}
	src, ok := m.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not a map: %T", m)
	}
	out := maps.Clone(src)
	out[key] = value
	return out, nil
}

func (GoOps) Remove(m any, key string) any {
	src, ok := m.(map[string]any)
	if !ok {
		return m
	}
	out := maps.Clone(src)
	delete(out, key)
	return out
}

// ToNative converts a tag tree into plain Go data.
func ToNative(t nbt.Tag) (any, error) {
	return nbt.ConvertTag[any](GoOps{}, t)
}

// FromNative converts plain Go data into a tag tree.
func FromNative(v any) (nbt.Tag, error) {
	return nbt.Convert[any, nbt.Tag](GoOps{}, nbt.NewTagOps(nil), v)
}

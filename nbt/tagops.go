package nbt

import (
	"errors"
	"fmt"
)

var errNotList = errors.New("not a list")

// TagOps is the Ops implementation over native tags.
type TagOps struct {
	values *SmallValues
}

var _ Ops[Tag] = TagOps{}

// NewTagOps returns ops that box small numbers through values, which may be
// nil.
func NewTagOps(values *SmallValues) TagOps {
	return TagOps{values: values}
}

func (TagOps) Empty() Tag     { return End{} }
func (TagOps) EmptyMap() Tag  { return NewCompound() }
func (TagOps) EmptyList() Tag { return NewList() }

func (o TagOps) CreateBool(v bool) Tag      { return o.values.Byte(int8(Bool(v))) }
func (o TagOps) CreateByte(v int8) Tag      { return o.values.Byte(v) }
func (o TagOps) CreateShort(v int16) Tag    { return o.values.Short(v) }
func (o TagOps) CreateInt(v int32) Tag      { return o.values.Int(v) }
func (o TagOps) CreateLong(v int64) Tag     { return o.values.Long(v) }
func (TagOps) CreateFloat(v float32) Tag    { return Float(v) }
func (TagOps) CreateDouble(v float64) Tag   { return Double(v) }
func (TagOps) CreateString(v string) Tag    { return String(v) }
func (TagOps) CreateByteList(v []int8) Tag  { return NewByteArray(v...) }
func (TagOps) CreateIntList(v []int32) Tag  { return NewIntArray(v...) }
func (TagOps) CreateLongList(v []int64) Tag { return NewLongArray(v...) }
func (TagOps) CreateList(v []Tag) Tag       { return NewList(v...) }

func (TagOps) CreateMap(entries []Entry[Tag]) Tag {
	c := NewCompound()
	for _, e := range entries {
		c.Put(e.Key, e.Value)
	}
	return c
}

func (TagOps) Kind(v Tag) Kind {
	switch v.(type) {
	case Numeric:
		return KindNumber
	case String:
		return KindString
	case *ByteArray:
		return KindByteList
	case *IntArray:
		return KindIntList
	case *LongArray:
		return KindLongList
	case *List:
		return KindList
	case *Compound:
		return KindMap
	}
	return KindEmpty
}

func (o TagOps) BoolValue(v Tag) (bool, error) {
	n, err := o.NumberValue(v)
	if err != nil {
		return false, err
	}
	return n.Int8() != 0, nil
}

func (TagOps) NumberValue(v Tag) (Numeric, error) {
	if n, ok := v.(Numeric); ok {
		return n, nil
	}
	return nil, fmt.Errorf("not a number: %s", v.ID())
}

func (TagOps) StringValue(v Tag) (string, error) {
	if s, ok := v.(String); ok {
		return string(s), nil
	}
	return "", fmt.Errorf("not a string: %s", v.ID())
}

// numbers returns the elements of a generic list when all are numeric.
func numbers(v Tag) ([]Numeric, bool) {
	l, ok := v.(*List)
	if !ok {
		return nil, false
	}
	out := make([]Numeric, len(l.elems))
	for i, e := range l.elems {
		n, ok := e.(Numeric)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func (TagOps) ByteListValue(v Tag) ([]int8, error) {
	if a, ok := v.(*ByteArray); ok {
		return a.Values(), nil
	}
	if ns, ok := numbers(v); ok {
		out := make([]int8, len(ns))
		for i, n := range ns {
			out[i] = n.Int8()
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a byte list: %s", v.ID())
}

func (TagOps) IntListValue(v Tag) ([]int32, error) {
	if a, ok := v.(*IntArray); ok {
		return a.Values(), nil
	}
	if ns, ok := numbers(v); ok {
		out := make([]int32, len(ns))
		for i, n := range ns {
			out[i] = n.Int32()
		}
		return out, nil
	}
	return nil, fmt.Errorf("not an int list: %s", v.ID())
}

func (TagOps) LongListValue(v Tag) ([]int64, error) {
	if a, ok := v.(*LongArray); ok {
		return a.Values(), nil
	}
	if ns, ok := numbers(v); ok {
		out := make([]int64, len(ns))
		for i, n := range ns {
			out[i] = n.Int64()
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a long list: %s", v.ID())
}

func (o TagOps) ListValues(v Tag) ([]Tag, error) {
	switch x := v.(type) {
	case *List:
		return x.elems, nil
	case *ByteArray:
		out := make([]Tag, len(x.values))
		for i, b := range x.values {
			out[i] = o.values.Byte(b)
		}
		return out, nil
	case *IntArray:
		out := make([]Tag, len(x.values))
		for i, n := range x.values {
			out[i] = o.values.Int(n)
		}
		return out, nil
	case *LongArray:
		out := make([]Tag, len(x.values))
		for i, n := range x.values {
			out[i] = o.values.Long(n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", errNotList, v.ID())
}

func (TagOps) MapEntries(v Tag) ([]Entry[Tag], error) {
	c, ok := v.(*Compound)
	if !ok {
		return nil, fmt.Errorf("not a map: %s", v.ID())
	}
	out := make([]Entry[Tag], 0, len(c.tags))
	for k, t := range c.Sorted() {
		out = append(out, Entry[Tag]{Key: k, Value: t})
	}
	return out, nil
}

// MergeToList keeps typed arrays typed while the appended element matches
// their element type and falls back to a generic list otherwise.
func (o TagOps) MergeToList(list, elem Tag) (Tag, error) {
	c, err := o.collector(list)
	if err != nil {
		return nil, err
	}
	return c.accept(elem).result(), nil
}

func (o TagOps) MergeToMap(m Tag, key string, value Tag) (Tag, error) {
	switch x := m.(type) {
	case End:
		c := NewCompound()
		c.Put(key, value)
		return c, nil
	case *Compound:
		c := x.ShallowCopy()
		c.Put(key, value)
		return c, nil
	}
	return nil, fmt.Errorf("mergeToMap called with not a map: %s", m.ID())
}

func (TagOps) Remove(m Tag, key string) Tag {
	if c, ok := m.(*Compound); ok {
		out := c.ShallowCopy()
		out.Remove(key)
		return out
	}
	return m
}

// listCollector accumulates list elements for MergeToList.
type listCollector interface {
	accept(t Tag) listCollector
	result() Tag
}

func (o TagOps) collector(list Tag) (listCollector, error) {
	switch x := list.(type) {
	case End:
		return &genericCollector{}, nil
	case *List:
		return &genericCollector{elems: append([]Tag(nil), x.elems...)}, nil
	case *ByteArray:
		if len(x.values) == 0 {
			return &genericCollector{}, nil
		}
		return &byteCollector{ops: o, values: x.Values()}, nil
	case *IntArray:
		if len(x.values) == 0 {
			return &genericCollector{}, nil
		}
		return &intCollector{ops: o, values: x.Values()}, nil
	case *LongArray:
		if len(x.values) == 0 {
			return &genericCollector{}, nil
		}
		return &longCollector{ops: o, values: x.Values()}, nil
	}
	return nil, fmt.Errorf("mergeToList called with %w: %s", errNotList, list.ID())
}

type genericCollector struct {
	elems []Tag
}

func (c *genericCollector) accept(t Tag) listCollector {
	c.elems = append(c.elems, t)
	return c
}

func (c *genericCollector) result() Tag { return NewList(c.elems...) }

type byteCollector struct {
	ops    TagOps
	values []int8
}

func (c *byteCollector) accept(t Tag) listCollector {
	if b, ok := t.(Byte); ok {
		c.values = append(c.values, int8(b))
		return c
	}
	g := &genericCollector{elems: make([]Tag, 0, len(c.values)+1)}
	for _, v := range c.values {
		g.elems = append(g.elems, c.ops.values.Byte(v))
	}
	return g.accept(t)
}

func (c *byteCollector) result() Tag { return &ByteArray{values: c.values} }

type intCollector struct {
	ops    TagOps
	values []int32
}

func (c *intCollector) accept(t Tag) listCollector {
	if n, ok := t.(Int); ok {
		c.values = append(c.values, int32(n))
		return c
	}
	g := &genericCollector{elems: make([]Tag, 0, len(c.values)+1)}
	for _, v := range c.values {
		g.elems = append(g.elems, c.ops.values.Int(v))
	}
	return g.accept(t)
}

func (c *intCollector) result() Tag { return &IntArray{values: c.values} }

type longCollector struct {
	ops    TagOps
	values []int64
}

func (c *longCollector) accept(t Tag) listCollector {
	if n, ok := t.(Long); ok {
		c.values = append(c.values, int64(n))
		return c
	}
	g := &genericCollector{elems: make([]Tag, 0, len(c.values)+1)}
	for _, v := range c.values {
		g.elems = append(g.elems, c.ops.values.Long(v))
	}
	return g.accept(t)
}

func (c *longCollector) result() Tag { return &LongArray{values: c.values} }

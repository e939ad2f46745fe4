package nbt

import (
	"iter"
	"maps"
	"slices"
)

// Compound maps unique string keys to tags. Iteration order of All is
// unspecified; Keys is sorted.
type Compound struct {
	tags map[string]Tag
}

func NewCompound() *Compound {
	return &Compound{tags: make(map[string]Tag)}
}

func (*Compound) ID() TypeID { return TypeCompound }
func (*Compound) isTag()     {}

func (c *Compound) SizeInBytes() int {
	n := 48
	for k, v := range c.tags {
		n += 28 + 2*utf16Len(k) + 36 + v.SizeInBytes()
	}
	return n
}

func (c *Compound) Copy() Tag {
	out := &Compound{tags: make(map[string]Tag, len(c.tags))}
	for k, v := range c.tags {
		out.tags[k] = v.Copy()
	}
	return out
}

// ShallowCopy returns a new compound sharing the child tags of c.
func (c *Compound) ShallowCopy() *Compound {
	return &Compound{tags: maps.Clone(c.tags)}
}

func (c *Compound) Len() int { return len(c.tags) }

// Put stores t under key and returns the tag it replaced, if any.
func (c *Compound) Put(key string, t Tag) Tag {
	mustTag(t)
	prev := c.tags[key]
	c.tags[key] = t
	return prev
}

func (c *Compound) Get(key string) (Tag, bool) {
	t, ok := c.tags[key]
	return t, ok
}

func (c *Compound) Contains(key string) bool {
	_, ok := c.tags[key]
	return ok
}

// AnyNumeric matches every numeric variant in ContainsType.
const AnyNumeric TypeID = 99

// ContainsType reports whether key holds a tag of type id.
func (c *Compound) ContainsType(key string, id TypeID) bool {
	t, ok := c.tags[key]
	if !ok {
		return false
	}
	if id == AnyNumeric {
		return t.ID().IsNumeric()
	}
	return t.ID() == id
}

// Remove deletes key and returns the removed tag.
func (c *Compound) Remove(key string) Tag {
	t := c.tags[key]
	delete(c.tags, key)
	return t
}

// Keys returns the keys of c in sorted order.
func (c *Compound) Keys() []string {
	return slices.Sorted(maps.Keys(c.tags))
}

// All yields every entry of c.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		for k, v := range c.tags {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Sorted yields the entries of c ordered by key.
func (c *Compound) Sorted() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		for _, k := range c.Keys() {
			if !yield(k, c.tags[k]) {
				return
			}
		}
	}
}

// Merge copies every entry of other into c. Nested compounds present on both
// sides are merged recursively.
func (c *Compound) Merge(other *Compound) *Compound {
	for k, v := range other.tags {
		if src, ok := v.(*Compound); ok {
			if dst, ok := c.tags[k].(*Compound); ok {
				dst.Merge(src)
				continue
			}
		}
		c.tags[k] = v.Copy()
	}
	return c
}

func (c *Compound) isWrapper() bool {
	if len(c.tags) != 1 {
		return false
	}
	_, ok := c.tags[wrapperKey]
	return ok
}

func (c *Compound) unwrap() Tag {
	if c.isWrapper() {
		return c.tags[wrapperKey]
	}
	return c
}

func (c *Compound) numeric(key string) (Numeric, bool) {
	n, ok := c.tags[key].(Numeric)
	return n, ok
}

func (c *Compound) ByteOr(key string, def int8) int8 {
	if n, ok := c.numeric(key); ok {
		return n.Int8()
	}
	return def
}

func (c *Compound) ShortOr(key string, def int16) int16 {
	if n, ok := c.numeric(key); ok {
		return n.Int16()
	}
	return def
}

func (c *Compound) IntOr(key string, def int32) int32 {
	if n, ok := c.numeric(key); ok {
		return n.Int32()
	}
	return def
}

func (c *Compound) LongOr(key string, def int64) int64 {
	if n, ok := c.numeric(key); ok {
		return n.Int64()
	}
	return def
}

func (c *Compound) FloatOr(key string, def float32) float32 {
	if n, ok := c.numeric(key); ok {
		return n.Float32()
	}
	return def
}

func (c *Compound) DoubleOr(key string, def float64) float64 {
	if n, ok := c.numeric(key); ok {
		return n.Float64()
	}
	return def
}

func (c *Compound) BoolOr(key string, def bool) bool {
	if n, ok := c.numeric(key); ok {
		return n.Int8() != 0
	}
	return def
}

func (c *Compound) StringOr(key, def string) string {
	if s, ok := c.tags[key].(String); ok {
		return string(s)
	}
	return def
}

func (c *Compound) CompoundOrEmpty(key string) *Compound {
	if v, ok := c.tags[key].(*Compound); ok {
		return v
	}
	return NewCompound()
}

func (c *Compound) ListOrEmpty(key string) *List {
	if v, ok := c.tags[key].(*List); ok {
		return v
	}
	return NewList()
}

func (c *Compound) ByteArrayOr(key string, def []int8) []int8 {
	if v, ok := c.tags[key].(*ByteArray); ok {
		return v.Values()
	}
	return def
}

func (c *Compound) IntArrayOr(key string, def []int32) []int32 {
	if v, ok := c.tags[key].(*IntArray); ok {
		return v.Values()
	}
	return def
}

func (c *Compound) LongArrayOr(key string, def []int64) []int64 {
	if v, ok := c.tags[key].(*LongArray); ok {
		return v.Values()
	}
	return def
}

func (c *Compound) PutByte(key string, v int8)         { c.tags[key] = Byte(v) }
func (c *Compound) PutShort(key string, v int16)       { c.tags[key] = Short(v) }
func (c *Compound) PutInt(key string, v int32)         { c.tags[key] = Int(v) }
func (c *Compound) PutLong(key string, v int64)        { c.tags[key] = Long(v) }
func (c *Compound) PutFloat(key string, v float32)     { c.tags[key] = Float(v) }
func (c *Compound) PutDouble(key string, v float64)    { c.tags[key] = Double(v) }
func (c *Compound) PutString(key, v string)            { c.tags[key] = String(v) }
func (c *Compound) PutBool(key string, v bool)         { c.tags[key] = Bool(v) }
func (c *Compound) PutByteArray(key string, v []int8)  { c.tags[key] = NewByteArray(v...) }
func (c *Compound) PutIntArray(key string, v []int32)  { c.tags[key] = NewIntArray(v...) }
func (c *Compound) PutLongArray(key string, v []int64) { c.tags[key] = NewLongArray(v...) }

package nbt

import "slices"

// ByteArray owns a growable buffer of signed bytes.
type ByteArray struct {
	values []int8
}

// IntArray owns a growable buffer of int32 values.
type IntArray struct {
	values []int32
}

// LongArray owns a growable buffer of int64 values.
type LongArray struct {
	values []int64
}

// NewByteArray copies values into a new array tag.
func NewByteArray(values ...int8) *ByteArray {
	return &ByteArray{values: slices.Clone(values)}
}

// NewIntArray copies values into a new array tag.
func NewIntArray(values ...int32) *IntArray {
	return &IntArray{values: slices.Clone(values)}
}

// NewLongArray copies values into a new array tag.
func NewLongArray(values ...int64) *LongArray {
	return &LongArray{values: slices.Clone(values)}
}

func (*ByteArray) ID() TypeID { return TypeByteArray }
func (*IntArray) ID() TypeID  { return TypeIntArray }
func (*LongArray) ID() TypeID { return TypeLongArray }

func (a *ByteArray) SizeInBytes() int { return 24 + len(a.values) }
func (a *IntArray) SizeInBytes() int  { return 24 + 4*len(a.values) }
func (a *LongArray) SizeInBytes() int { return 24 + 8*len(a.values) }

func (a *ByteArray) Copy() Tag { return &ByteArray{values: slices.Clone(a.values)} }
func (a *IntArray) Copy() Tag  { return &IntArray{values: slices.Clone(a.values)} }
func (a *LongArray) Copy() Tag { return &LongArray{values: slices.Clone(a.values)} }

func (*ByteArray) isTag() {}
func (*IntArray) isTag()  {}
func (*LongArray) isTag() {}

// View returns the backing slice. The caller must not retain it across
// mutations of the array.
func (a *ByteArray) View() []int8 { return a.values }

// Values returns a copy of the elements.
func (a *ByteArray) Values() []int8 { return slices.Clone(a.values) }

func (a *ByteArray) Len() int                 { return len(a.values) }
func (a *ByteArray) At(i int) int8            { return a.values[i] }
func (a *ByteArray) Set(i int, v int8)        { a.values[i] = v }
func (a *ByteArray) Append(vs ...int8)        { a.values = append(a.values, vs...) }
func (a *ByteArray) Insert(i int, vs ...int8) { a.values = slices.Insert(a.values, i, vs...) }
func (a *ByteArray) Clear()                   { a.values = a.values[:0] }

// Remove deletes and returns the element at i.
func (a *ByteArray) Remove(i int) int8 {
	v := a.values[i]
	a.values = slices.Delete(a.values, i, i+1)
	return v
}

func (a *IntArray) View() []int32             { return a.values }
func (a *IntArray) Values() []int32           { return slices.Clone(a.values) }
func (a *IntArray) Len() int                  { return len(a.values) }
func (a *IntArray) At(i int) int32            { return a.values[i] }
func (a *IntArray) Set(i int, v int32)        { a.values[i] = v }
func (a *IntArray) Append(vs ...int32)        { a.values = append(a.values, vs...) }
func (a *IntArray) Insert(i int, vs ...int32) { a.values = slices.Insert(a.values, i, vs...) }
func (a *IntArray) Clear()                    { a.values = a.values[:0] }

func (a *IntArray) Remove(i int) int32 {
	v := a.values[i]
	a.values = slices.Delete(a.values, i, i+1)
	return v
}

func (a *LongArray) View() []int64             { return a.values }
func (a *LongArray) Values() []int64           { return slices.Clone(a.values) }
func (a *LongArray) Len() int                  { return len(a.values) }
func (a *LongArray) At(i int) int64            { return a.values[i] }
func (a *LongArray) Set(i int, v int64)        { a.values[i] = v }
func (a *LongArray) Append(vs ...int64)        { a.values = append(a.values, vs...) }
func (a *LongArray) Insert(i int, vs ...int64) { a.values = slices.Insert(a.values, i, vs...) }
func (a *LongArray) Clear()                    { a.values = a.values[:0] }

func (a *LongArray) Remove(i int) int64 {
	v := a.values[i]
	a.values = slices.Delete(a.values, i, i+1)
	return v
}

package nbt

import (
	"math"
	"unicode/utf8"
)

// Tag is a node of the tree. The set of implementations is closed: End,
// Byte, Short, Int, Long, Float, Double, String, *ByteArray, *IntArray,
// *LongArray, *List and *Compound.
type Tag interface {
	// ID returns the wire type id of the tag.
	ID() TypeID
	// SizeInBytes approximates the heap cost of the tag. It is used for
	// accounting only and is unrelated to the encoded size.
	SizeInBytes() int
	// Copy returns a deep copy. Immutable tags return themselves.
	Copy() Tag

	isTag()
}

// Numeric is implemented by the six numeric tags. Narrowing conversions are
// lossy and follow two's complement truncation for integers and floor
// semantics for floating point sources.
type Numeric interface {
	Tag
	Int8() int8
	Int16() int16
	Int32() int32
	Int64() int64
	Float32() float32
	Float64() float64
}

type (
	End    struct{}
	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	String string
)

// Bool returns the byte tag used to represent a boolean.
func Bool(b bool) Byte {
	if b {
		return 1
	}
	return 0
}

func (End) ID() TypeID    { return TypeEnd }
func (Byte) ID() TypeID   { return TypeByte }
func (Short) ID() TypeID  { return TypeShort }
func (Int) ID() TypeID    { return TypeInt }
func (Long) ID() TypeID   { return TypeLong }
func (Float) ID() TypeID  { return TypeFloat }
func (Double) ID() TypeID { return TypeDouble }
func (String) ID() TypeID { return TypeString }

func (End) SizeInBytes() int      { return 8 }
func (Byte) SizeInBytes() int     { return 9 }
func (Short) SizeInBytes() int    { return 10 }
func (Int) SizeInBytes() int      { return 12 }
func (Long) SizeInBytes() int     { return 16 }
func (Float) SizeInBytes() int    { return 12 }
func (Double) SizeInBytes() int   { return 16 }
func (s String) SizeInBytes() int { return 36 + 2*utf16Len(string(s)) }

func (t End) Copy() Tag    { return t }
func (t Byte) Copy() Tag   { return t }
func (t Short) Copy() Tag  { return t }
func (t Int) Copy() Tag    { return t }
func (t Long) Copy() Tag   { return t }
func (t Float) Copy() Tag  { return t }
func (t Double) Copy() Tag { return t }
func (t String) Copy() Tag { return t }

func (End) isTag()    {}
func (Byte) isTag()   {}
func (Short) isTag()  {}
func (Int) isTag()    {}
func (Long) isTag()   {}
func (Float) isTag()  {}
func (Double) isTag() {}
func (String) isTag() {}

func (v Byte) Int8() int8       { return int8(v) }
func (v Byte) Int16() int16     { return int16(v) }
func (v Byte) Int32() int32     { return int32(v) }
func (v Byte) Int64() int64     { return int64(v) }
func (v Byte) Float32() float32 { return float32(v) }
func (v Byte) Float64() float64 { return float64(v) }

func (v Short) Int8() int8       { return int8(v) }
func (v Short) Int16() int16     { return int16(v) }
func (v Short) Int32() int32     { return int32(v) }
func (v Short) Int64() int64     { return int64(v) }
func (v Short) Float32() float32 { return float32(v) }
func (v Short) Float64() float64 { return float64(v) }

func (v Int) Int8() int8       { return int8(v) }
func (v Int) Int16() int16     { return int16(v) }
func (v Int) Int32() int32     { return int32(v) }
func (v Int) Int64() int64     { return int64(v) }
func (v Int) Float32() float32 { return float32(v) }
func (v Int) Float64() float64 { return float64(v) }

func (v Long) Int8() int8       { return int8(v) }
func (v Long) Int16() int16     { return int16(v) }
func (v Long) Int32() int32     { return int32(v) }
func (v Long) Int64() int64     { return int64(v) }
func (v Long) Float32() float32 { return float32(v) }
func (v Long) Float64() float64 { return float64(v) }

func (v Float) Int8() int8       { return int8(FloorInt32(float64(v))) }
func (v Float) Int16() int16     { return int16(FloorInt32(float64(v))) }
func (v Float) Int32() int32     { return FloorInt32(float64(v)) }
func (v Float) Int64() int64     { return saturateInt64(float64(v)) }
func (v Float) Float32() float32 { return float32(v) }
func (v Float) Float64() float64 { return float64(v) }

func (v Double) Int8() int8       { return int8(FloorInt32(float64(v))) }
func (v Double) Int16() int16     { return int16(FloorInt32(float64(v))) }
func (v Double) Int32() int32     { return FloorInt32(float64(v)) }
func (v Double) Int64() int64     { return saturateInt64(math.Floor(float64(v))) }
func (v Double) Float32() float32 { return float32(v) }
func (v Double) Float64() float64 { return float64(v) }

// FloorInt32 rounds v toward negative infinity and saturates at the int32
// range. NaN maps to zero.
func FloorInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	i := int32(v)
	if v < float64(i) {
		return i - 1
	}
	return i
}

// saturateInt64 truncates v toward zero, clamping to the int64 range.
func saturateInt64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

// utf16Len returns the number of UTF-16 code units needed for s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Equal reports whether a and b are structurally equal. Compounds compare by
// key set, lists and arrays element-wise. Floats compare by bit pattern, so
// NaN equals itself and 0 differs from -0.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ID() != b.ID() {
		return false
	}
	switch x := a.(type) {
	case End:
		return true
	case Float:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Double)))
	case Byte, Short, Int, Long, String:
		return a == b
	case *ByteArray:
		return equalSlices(x.values, b.(*ByteArray).values)
	case *IntArray:
		return equalSlices(x.values, b.(*IntArray).values)
	case *LongArray:
		return equalSlices(x.values, b.(*LongArray).values)
	case *List:
		y := b.(*List)
		if len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case *Compound:
		y := b.(*Compound)
		if len(x.tags) != len(y.tags) {
			return false
		}
		for k, v := range x.tags {
			w, ok := y.tags[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlices[E comparable](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

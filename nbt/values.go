package nbt

const (
	smallMin = -128
	smallMax = 1023
)

// SmallValues holds pre-boxed tags for small numbers so that decoding and
// building common values does not allocate. A nil *SmallValues boxes every
// value afresh.
type SmallValues struct {
	bytes  [256]Tag
	shorts [smallMax - smallMin + 1]Tag
	ints   [smallMax - smallMin + 1]Tag
	longs  [smallMax - smallMin + 1]Tag
}

func NewSmallValues() *SmallValues {
	v := &SmallValues{}
	for i := range v.bytes {
		v.bytes[i] = Byte(int8(i + smallMin))
	}
	for i := range v.shorts {
		v.shorts[i] = Short(int16(i + smallMin))
		v.ints[i] = Int(int32(i + smallMin))
		v.longs[i] = Long(int64(i + smallMin))
	}
	return v
}

func (v *SmallValues) Byte(b int8) Tag {
	if v == nil {
		return Byte(b)
	}
	return v.bytes[int(b)-smallMin]
}

func (v *SmallValues) Short(s int16) Tag {
	if v == nil || s < smallMin || s > smallMax {
		return Short(s)
	}
	return v.shorts[int(s)-smallMin]
}

func (v *SmallValues) Int(i int32) Tag {
	if v == nil || i < smallMin || i > smallMax {
		return Int(i)
	}
	return v.ints[int(i)-smallMin]
}

func (v *SmallValues) Long(l int64) Tag {
	if v == nil || l < smallMin || l > smallMax {
		return Long(l)
	}
	return v.longs[int(l)-smallMin]
}

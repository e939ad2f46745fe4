package nbt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Accounting overheads charged while decoding.
const (
	costString   = 36
	costArray    = 24
	costList     = 36
	costCompound = 48
	costEntry    = 28
	costNewKey   = 36
)

// TagType is the codec of one tag variant.
type TagType interface {
	ID() TypeID
	Name() string
	PrettyName() string
	// IsValue reports whether the variant is a scalar (number or string).
	IsValue() bool

	// Load materializes a payload.
	Load(d *Decoder) (Tag, error)
	// Parse streams a payload through a visitor.
	Parse(d *Decoder, v StreamVisitor) (ValueResult, error)
	// Skip consumes a payload without materializing it.
	Skip(d *Decoder) error
	// SkipN consumes n consecutive payloads.
	SkipN(d *Decoder, n int) error
}

// Type returns the codec of t. Unknown ids yield a codec that fails every
// operation with ErrFormat.
func (t TypeID) Type() TagType {
	switch t {
	case TypeEnd:
		return endType{}
	case TypeByte:
		return byteType
	case TypeShort:
		return shortType
	case TypeInt:
		return intType
	case TypeLong:
		return longType
	case TypeFloat:
		return floatType
	case TypeDouble:
		return doubleType
	case TypeByteArray:
		return byteArrayType
	case TypeString:
		return stringType{}
	case TypeList:
		return listType{}
	case TypeCompound:
		return compoundType{}
	case TypeIntArray:
		return intArrayType
	case TypeLongArray:
		return longArrayType
	}
	return invalidType{id: t}
}

var byteType = newFixedType(TypeByte, 1, 9,
	func(d *Decoder) Tag { return d.values.Byte(int8(d.r.readU1())) },
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitByte(int8(t.(Byte))) })

var shortType = newFixedType(TypeShort, 2, 10,
	func(d *Decoder) Tag { return d.values.Short(int16(d.r.readU2())) },
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitShort(int16(t.(Short))) })

var intType = newFixedType(TypeInt, 4, 12,
	func(d *Decoder) Tag { return d.values.Int(int32(d.r.readU4())) },
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitInt(int32(t.(Int))) })

var longType = newFixedType(TypeLong, 8, 16,
	func(d *Decoder) Tag { return d.values.Long(int64(d.r.readU8())) },
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitLong(int64(t.(Long))) })

var floatType = newFixedType(TypeFloat, 4, 12,
	func(d *Decoder) Tag { return Float(d.r.readF4()) },
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitFloat(float32(t.(Float))) })

var doubleType = newFixedType(TypeDouble, 8, 16,
	func(d *Decoder) Tag { return Double(d.r.readF8()) },
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitDouble(float64(t.(Double))) })

var byteArrayType = newArrayType(TypeByteArray, 1,
	func(d *Decoder, n int) Tag {
		b := d.r.readBytes(n)
		values := make([]int8, len(b))
		for i, x := range b {
			values[i] = int8(x)
		}
		return &ByteArray{values: values}
	},
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitByteArray(t.(*ByteArray).values) })

var intArrayType = newArrayType(TypeIntArray, 4,
	func(d *Decoder, n int) Tag {
		values := make([]int32, 0, min(n, chunkSize))
		for range n {
			values = append(values, int32(d.r.readU4()))
			if d.r.err != nil {
				break
			}
		}
		return &IntArray{values: values}
	},
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitIntArray(t.(*IntArray).values) })

var longArrayType = newArrayType(TypeLongArray, 8,
	func(d *Decoder, n int) Tag {
		values := make([]int64, 0, min(n, chunkSize))
		for range n {
			values = append(values, int64(d.r.readU8()))
			if d.r.err != nil {
				break
			}
		}
		return &LongArray{values: values}
	},
	func(t Tag, v StreamVisitor) ValueResult { return v.VisitLongArray(t.(*LongArray).values) })

// errHalt unwinds a streaming parse after the visitor halted.
var errHalt = errors.New("nbt: visitor halted")

type endType struct{}

func (endType) ID() TypeID         { return TypeEnd }
func (endType) Name() string       { return TypeEnd.String() }
func (endType) PrettyName() string { return TypeEnd.PrettyName() }
func (endType) IsValue() bool      { return false }

func (endType) Load(d *Decoder) (Tag, error) {
	if err := d.acc.AccountBytes(8); err != nil {
		return nil, err
	}
	return End{}, nil
}

func (endType) Parse(d *Decoder, v StreamVisitor) (ValueResult, error) {
	if err := d.acc.AccountBytes(8); err != nil {
		return ValueHalt, err
	}
	return v.VisitEnd(), nil
}

func (endType) Skip(d *Decoder) error         { return d.acc.AccountBytes(8) }
func (endType) SkipN(d *Decoder, n int) error { return d.acc.AccountItems(8, int64(n)) }

// fixedType is a numeric variant with a fixed wire size.
type fixedType struct {
	id    TypeID
	size  int64
	cost  int64
	read  func(d *Decoder) Tag
	visit func(t Tag, v StreamVisitor) ValueResult
}

func newFixedType(id TypeID, size, cost int64, read func(*Decoder) Tag, visit func(Tag, StreamVisitor) ValueResult) *fixedType {
	return &fixedType{id: id, size: size, cost: cost, read: read, visit: visit}
}

func (t *fixedType) ID() TypeID         { return t.id }
func (t *fixedType) Name() string       { return t.id.String() }
func (t *fixedType) PrettyName() string { return t.id.PrettyName() }
func (t *fixedType) IsValue() bool      { return true }

func (t *fixedType) Load(d *Decoder) (Tag, error) {
	if err := d.acc.AccountBytes(t.cost); err != nil {
		return nil, err
	}
	tag := t.read(d)
	if err := d.r.failure(); err != nil {
		return nil, err
	}
	return tag, nil
}

func (t *fixedType) Parse(d *Decoder, v StreamVisitor) (ValueResult, error) {
	tag, err := t.Load(d)
	if err != nil {
		return ValueHalt, err
	}
	return t.visit(tag, v), nil
}

func (t *fixedType) Skip(d *Decoder) error { return t.SkipN(d, 1) }

func (t *fixedType) SkipN(d *Decoder, n int) error {
	if err := d.acc.AccountItems(t.cost, int64(n)); err != nil {
		return err
	}
	d.r.discard(t.size * int64(n))
	return d.r.failure()
}

type stringType struct{}

func (stringType) ID() TypeID         { return TypeString }
func (stringType) Name() string       { return TypeString.String() }
func (stringType) PrettyName() string { return TypeString.PrettyName() }
func (stringType) IsValue() bool      { return true }

// header reads the byte length of a string and charges its cost.
func (stringType) header(d *Decoder) (int, error) {
	n := int(d.r.readU2())
	if err := d.r.failure(); err != nil {
		return 0, err
	}
	if err := d.acc.AccountBytes(costString + 2 + int64(n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (t stringType) Load(d *Decoder) (Tag, error) {
	n, err := t.header(d)
	if err != nil {
		return nil, err
	}
	b := d.r.readBytes(n)
	if err := d.r.failure(); err != nil {
		return nil, err
	}
	return String(decodeModifiedUTF8(b)), nil
}

func (t stringType) Parse(d *Decoder, v StreamVisitor) (ValueResult, error) {
	tag, err := t.Load(d)
	if err != nil {
		return ValueHalt, err
	}
	return v.VisitString(string(tag.(String))), nil
}

func (t stringType) Skip(d *Decoder) error {
	n, err := t.header(d)
	if err != nil {
		return err
	}
	d.r.discard(int64(n))
	return d.r.failure()
}

func (t stringType) SkipN(d *Decoder, n int) error { return skipN(t, d, n) }

// arrayType is a length-prefixed array of fixed-width numbers.
type arrayType struct {
	id    TypeID
	width int64
	read  func(d *Decoder, n int) Tag
	visit func(t Tag, v StreamVisitor) ValueResult
}

func newArrayType(id TypeID, width int64, read func(*Decoder, int) Tag, visit func(Tag, StreamVisitor) ValueResult) *arrayType {
	return &arrayType{id: id, width: width, read: read, visit: visit}
}

func (t *arrayType) ID() TypeID         { return t.id }
func (t *arrayType) Name() string       { return t.id.String() }
func (t *arrayType) PrettyName() string { return t.id.PrettyName() }
func (t *arrayType) IsValue() bool      { return false }

func (t *arrayType) header(d *Decoder) (int, error) {
	if err := d.acc.AccountBytes(costArray); err != nil {
		return 0, err
	}
	n := int32(d.r.readU4())
	if err := d.r.failure(); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s length cannot be negative: %d", ErrFormat, t.id.PrettyName(), n)
	}
	if err := d.acc.AccountItems(t.width, int64(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (t *arrayType) Load(d *Decoder) (Tag, error) {
	n, err := t.header(d)
	if err != nil {
		return nil, err
	}
	tag := t.read(d, n)
	if err := d.r.failure(); err != nil {
		return nil, err
	}
	return tag, nil
}

// Parse hands the visitor a freshly allocated slice it may retain.
func (t *arrayType) Parse(d *Decoder, v StreamVisitor) (ValueResult, error) {
	tag, err := t.Load(d)
	if err != nil {
		return ValueHalt, err
	}
	return t.visit(tag, v), nil
}

func (t *arrayType) Skip(d *Decoder) error {
	n, err := t.header(d)
	if err != nil {
		return err
	}
	d.r.discard(t.width * int64(n))
	return d.r.failure()
}

func (t *arrayType) SkipN(d *Decoder, n int) error { return skipN(t, d, n) }

type listType struct{}

func (listType) ID() TypeID         { return TypeList }
func (listType) Name() string       { return TypeList.String() }
func (listType) PrettyName() string { return TypeList.PrettyName() }
func (listType) IsValue() bool      { return false }

// header reads the element type and count of a list.
func (listType) header(d *Decoder) (TypeID, int, error) {
	if err := d.acc.AccountBytes(costList); err != nil {
		return 0, 0, err
	}
	elem := TypeID(d.r.readU1())
	n := int32(d.r.readU4())
	if err := d.r.failure(); err != nil {
		return 0, 0, err
	}
	if n < 0 {
		return 0, 0, fmt.Errorf("%w: ListTag length cannot be negative: %d", ErrFormat, n)
	}
	if elem == TypeEnd && n > 0 {
		return 0, 0, fmt.Errorf("%w: missing type on ListTag", ErrFormat)
	}
	if !elem.Valid() {
		return 0, 0, fmt.Errorf("%w: invalid list element id %d", ErrFormat, byte(elem))
	}
	return elem, int(n), nil
}

func (t listType) Load(d *Decoder) (Tag, error) {
	if err := d.acc.PushDepth(); err != nil {
		return nil, err
	}
	elem, n, err := t.header(d)
	if err != nil {
		return nil, err
	}
	if err := d.acc.AccountItems(4, int64(n)); err != nil {
		return nil, err
	}
	tt := elem.Type()
	l := &List{elems: make([]Tag, 0, min(n, chunkSize))}
	for i := range n {
		e, err := tt.Load(d)
		if err != nil {
			return nil, atPath(err, "["+strconv.Itoa(i)+"]")
		}
		l.AddUnwrapped(e)
	}
	return l, d.acc.PopDepth()
}

func (t listType) Parse(d *Decoder, v StreamVisitor) (ValueResult, error) {
	if err := d.acc.PushDepth(); err != nil {
		return ValueHalt, err
	}
	elem, n, err := t.header(d)
	if err != nil {
		return ValueHalt, err
	}
	tt := elem.Type()
	switch v.VisitList(elem, n) {
	case ValueHalt:
		return ValueHalt, nil
	case ValueBreak:
		if err := tt.SkipN(d, n); err != nil {
			return ValueHalt, err
		}
		return v.VisitContainerEnd(), d.acc.PopDepth()
	}
	if err := d.acc.AccountItems(4, int64(n)); err != nil {
		return ValueHalt, err
	}
	i := 0
loop:
	for ; i < n; i++ {
		switch v.VisitElement(elem, i) {
		case EntryHalt:
			return ValueHalt, nil
		case EntryBreak:
			if err := tt.Skip(d); err != nil {
				return ValueHalt, err
			}
			break loop
		case EntrySkip:
			if err := tt.Skip(d); err != nil {
				return ValueHalt, err
			}
		default:
			res, err := tt.Parse(d, v)
			if err != nil {
				return ValueHalt, err
			}
			switch res {
			case ValueHalt:
				return ValueHalt, nil
			case ValueBreak:
				break loop
			}
		}
	}
	if rest := n - 1 - i; rest > 0 {
		if err := tt.SkipN(d, rest); err != nil {
			return ValueHalt, err
		}
	}
	return v.VisitContainerEnd(), d.acc.PopDepth()
}

func (t listType) Skip(d *Decoder) error {
	if err := d.acc.PushDepth(); err != nil {
		return err
	}
	elem, n, err := t.header(d)
	if err != nil {
		return err
	}
	if err := d.acc.AccountItems(4, int64(n)); err != nil {
		return err
	}
	if err := elem.Type().SkipN(d, n); err != nil {
		return err
	}
	return d.acc.PopDepth()
}

func (t listType) SkipN(d *Decoder, n int) error { return skipN(t, d, n) }

type compoundType struct{}

func (compoundType) ID() TypeID         { return TypeCompound }
func (compoundType) Name() string       { return TypeCompound.String() }
func (compoundType) PrettyName() string { return TypeCompound.PrettyName() }
func (compoundType) IsValue() bool      { return false }

// entryType reads the type byte that starts an entry, TypeEnd at the end.
func (compoundType) entryType(d *Decoder) (TypeID, error) {
	id := TypeID(d.r.readU1())
	if err := d.r.failure(); err != nil {
		return 0, err
	}
	if !id.Valid() {
		return 0, fmt.Errorf("%w: invalid compound entry id %d", ErrFormat, byte(id))
	}
	return id, nil
}

func (compoundType) readKey(d *Decoder) (string, error) {
	if err := d.acc.AccountBytes(costEntry); err != nil {
		return "", err
	}
	return d.readName()
}

func (compoundType) skipKey(d *Decoder) error {
	if err := d.acc.AccountBytes(costEntry); err != nil {
		return err
	}
	return d.skipName()
}

func (t compoundType) skipEntry(d *Decoder, id TypeID) error {
	if err := t.skipKey(d); err != nil {
		return err
	}
	if err := d.acc.AccountBytes(costNewKey); err != nil {
		return err
	}
	return id.Type().Skip(d)
}

func (t compoundType) Load(d *Decoder) (Tag, error) {
	if err := d.acc.PushDepth(); err != nil {
		return nil, err
	}
	if err := d.acc.AccountBytes(costCompound); err != nil {
		return nil, err
	}
	c := NewCompound()
	for {
		id, err := t.entryType(d)
		if err != nil {
			return nil, err
		}
		if id == TypeEnd {
			break
		}
		key, err := t.readKey(d)
		if err != nil {
			return nil, err
		}
		value, err := id.Type().Load(d)
		if err != nil {
			return nil, atPath(err, pathKey(key))
		}
		if c.Put(key, value) == nil {
			if err := d.acc.AccountBytes(costNewKey); err != nil {
				return nil, err
			}
		}
	}
	return c, d.acc.PopDepth()
}

func (t compoundType) Parse(d *Decoder, v StreamVisitor) (ValueResult, error) {
	if err := d.acc.PushDepth(); err != nil {
		return ValueHalt, err
	}
	if err := d.acc.AccountBytes(costCompound); err != nil {
		return ValueHalt, err
	}
	for {
		id, err := t.entryType(d)
		if err != nil {
			return ValueHalt, err
		}
		if id == TypeEnd {
			return v.VisitContainerEnd(), d.acc.PopDepth()
		}
		stop := false
		switch v.VisitEntry(id) {
		case EntryHalt:
			return ValueHalt, nil
		case EntryBreak:
			err, stop = t.skipEntry(d, id), true
		case EntrySkip:
			err = t.skipEntry(d, id)
		default:
			stop, err = t.parseEntry(d, v, id)
			if err == errHalt {
				return ValueHalt, nil
			}
		}
		if err != nil {
			return ValueHalt, err
		}
		if stop {
			break
		}
	}
	if err := t.drain(d); err != nil {
		return ValueHalt, err
	}
	return v.VisitContainerEnd(), d.acc.PopDepth()
}

// parseEntry handles a named entry the visitor chose to enter. It reports
// whether iteration must stop, or errHalt when the visitor halted.
func (t compoundType) parseEntry(d *Decoder, v StreamVisitor, id TypeID) (bool, error) {
	key, err := t.readKey(d)
	if err != nil {
		return false, err
	}
	tt := id.Type()
	switch v.VisitEntryNamed(id, key) {
	case EntryHalt:
		return false, errHalt
	case EntryBreak:
		if err := d.acc.AccountBytes(costNewKey); err != nil {
			return false, err
		}
		return true, tt.Skip(d)
	case EntrySkip:
		if err := d.acc.AccountBytes(costNewKey); err != nil {
			return false, err
		}
		return false, tt.Skip(d)
	}
	if err := d.acc.AccountBytes(costNewKey); err != nil {
		return false, err
	}
	res, err := tt.Parse(d, v)
	if err != nil {
		return false, err
	}
	switch res {
	case ValueHalt:
		return false, errHalt
	case ValueBreak:
		return true, nil
	}
	return false, nil
}

// drain skips the remaining entries of a compound up to its end byte.
func (t compoundType) drain(d *Decoder) error {
	for {
		id, err := t.entryType(d)
		if err != nil {
			return err
		}
		if id == TypeEnd {
			return nil
		}
		if err := t.skipEntry(d, id); err != nil {
			return err
		}
	}
}

func (t compoundType) Skip(d *Decoder) error {
	if err := d.acc.PushDepth(); err != nil {
		return err
	}
	if err := d.acc.AccountBytes(costCompound); err != nil {
		return err
	}
	if err := t.drain(d); err != nil {
		return err
	}
	return d.acc.PopDepth()
}

func (t compoundType) SkipN(d *Decoder, n int) error { return skipN(t, d, n) }

type invalidType struct {
	id TypeID
}

func (t invalidType) ID() TypeID         { return t.id }
func (t invalidType) Name() string       { return t.id.String() }
func (t invalidType) PrettyName() string { return t.id.PrettyName() }
func (invalidType) IsValue() bool        { return false }

func (t invalidType) err() error {
	return fmt.Errorf("%w: invalid tag id: %d", ErrFormat, byte(t.id))
}

func (t invalidType) Load(*Decoder) (Tag, error)                         { return nil, t.err() }
func (t invalidType) Parse(*Decoder, StreamVisitor) (ValueResult, error) { return ValueHalt, t.err() }
func (t invalidType) Skip(*Decoder) error                                { return t.err() }
func (t invalidType) SkipN(*Decoder, int) error                          { return t.err() }

func skipN(t TagType, d *Decoder, n int) error {
	for range n {
		if err := t.Skip(d); err != nil {
			return err
		}
	}
	return nil
}

// PathError locates a load failure inside a tree. Segments are collected
// innermost first while the error travels up to the root.
type PathError struct {
	segments []string
	Err      error
}

// Path renders the location as it would be written in a selector, e.g.
// pos.x or items[3].id.
func (e *PathError) Path() string {
	var b strings.Builder
	for i := len(e.segments) - 1; i >= 0; i-- {
		seg := e.segments[i]
		if b.Len() > 0 && seg[0] != '[' {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func (e *PathError) Error() string { return e.Path() + ": " + e.Err.Error() }
func (e *PathError) Unwrap() error { return e.Err }

func atPath(err error, segment string) error {
	if pe, ok := err.(*PathError); ok {
		pe.segments = append(pe.segments, segment)
		return pe
	}
	return &PathError{segments: []string{segment}, Err: err}
}

func pathKey(key string) string {
	if key == "" || strings.ContainsFunc(key, func(c rune) bool {
		return !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
	}) {
		return strconv.Quote(key)
	}
	return key
}

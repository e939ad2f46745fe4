package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const maxStringLen = math.MaxUint16

// Encoder writes tags in the big-endian binary format.
type Encoder struct {
	w      io.Writer
	sorted bool
	buf    []byte
}

type EncoderOption func(*Encoder)

// WithSortedKeys writes compound entries in key order, making the output
// deterministic.
func WithSortedKeys() EncoderOption {
	return func(e *Encoder) { e.sorted = true }
}

func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes t as a root tag with an empty name.
func (e *Encoder) Encode(t Tag) error {
	return e.EncodeNamed("", t)
}

// EncodeNamed writes the type byte, then for every type but End the name and
// the payload.
func (e *Encoder) EncodeNamed(name string, t Tag) error {
	buf := append(e.buf[:0], byte(t.ID()))
	if t.ID() != TypeEnd {
		var err error
		if buf, err = appendString(buf, name); err != nil {
			return err
		}
		if buf, err = e.appendPayload(buf, t); err != nil {
			return err
		}
	}
	return e.flush(buf)
}

// EncodePayload writes the payload of t without type byte or name.
func (e *Encoder) EncodePayload(t Tag) error {
	buf, err := e.appendPayload(e.buf[:0], t)
	if err != nil {
		return err
	}
	return e.flush(buf)
}

func (e *Encoder) flush(buf []byte) error {
	e.buf = buf
	if _, err := e.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write tag: %w", err)
	}
	return nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	n := modifiedUTF8Len(s)
	if n > maxStringLen {
		return nil, fmt.Errorf("nbt: string too long: %d bytes", n)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(n))
	return appendModifiedUTF8(buf, s), nil
}

func (e *Encoder) appendPayload(buf []byte, t Tag) ([]byte, error) {
	switch x := t.(type) {
	case End:
		return buf, nil
	case Byte:
		return append(buf, byte(x)), nil
	case Short:
		return binary.BigEndian.AppendUint16(buf, uint16(x)), nil
	case Int:
		return binary.BigEndian.AppendUint32(buf, uint32(x)), nil
	case Long:
		return binary.BigEndian.AppendUint64(buf, uint64(x)), nil
	case Float:
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(x))), nil
	case Double:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(float64(x))), nil
	case String:
		return appendString(buf, string(x))
	case *ByteArray:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(x.values)))
		for _, v := range x.values {
			buf = append(buf, byte(v))
		}
		return buf, nil
	case *IntArray:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(x.values)))
		for _, v := range x.values {
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		}
		return buf, nil
	case *LongArray:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(x.values)))
		for _, v := range x.values {
			buf = binary.BigEndian.AppendUint64(buf, uint64(v))
		}
		return buf, nil
	case *List:
		return e.appendList(buf, x)
	case *Compound:
		return e.appendCompound(buf, x)
	}
	return nil, fmt.Errorf("nbt: cannot encode %T", t)
}

func (e *Encoder) appendList(buf []byte, l *List) ([]byte, error) {
	elem := l.ElementType()
	if elem == TypeEnd && len(l.elems) > 0 {
		return nil, fmt.Errorf("nbt: list of %d end tags", len(l.elems))
	}
	buf = append(buf, byte(elem))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(l.elems)))
	var err error
	for i, t := range l.elems {
		if buf, err = e.appendPayload(buf, wrapIfNeeded(elem, t)); err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
	}
	return buf, nil
}

func (e *Encoder) appendCompound(buf []byte, c *Compound) ([]byte, error) {
	entries := c.All()
	if e.sorted {
		entries = c.Sorted()
	}
	var err error
	for k, t := range entries {
		if t.ID() == TypeEnd {
			return nil, fmt.Errorf("nbt: end tag stored under %q", k)
		}
		buf = append(buf, byte(t.ID()))
		if buf, err = appendString(buf, k); err != nil {
			return nil, err
		}
		if buf, err = e.appendPayload(buf, t); err != nil {
			return nil, fmt.Errorf("%q: %w", k, err)
		}
	}
	return append(buf, byte(TypeEnd)), nil
}

// Marshal encodes t as an unnamed root tag with sorted compound keys.
func Marshal(t Tag) ([]byte, error) {
	var b bytes.Buffer
	if err := NewEncoder(&b, WithSortedKeys()).Encode(t); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

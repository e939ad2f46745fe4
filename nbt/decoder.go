package nbt

import (
	"bytes"
	"fmt"
	"io"
)

// Decoder reads tags from a big-endian binary stream. Every decode is charged
// against the decoder's Accounter; a Decoder is not safe for concurrent use.
type Decoder struct {
	r      reader
	acc    *Accounter
	values *SmallValues
}

type DecoderOption func(*Decoder)

// WithAccounter sets the accounter charged by the decoder. The default has no
// byte quota and the default depth limit.
func WithAccounter(a *Accounter) DecoderOption {
	return func(d *Decoder) { d.acc = a }
}

// WithSmallValues makes the decoder box small numbers through v.
func WithSmallValues(v *SmallValues) DecoderOption {
	return func(d *Decoder) { d.values = v }
}

func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	d := &Decoder{r: reader{r: r}}
	for _, opt := range opts {
		opt(d)
	}
	if d.acc == nil {
		d.acc = UnlimitedAccounter()
	}
	return d
}

func (d *Decoder) Accounter() *Accounter { return d.acc }

// Decode reads a root tag and discards its name. An End root is encoded as a
// single zero byte. io.EOF is returned unwrapped when the stream is empty.
func (d *Decoder) Decode() (Tag, error) {
	_, t, err := d.DecodeNamed()
	return t, err
}

// DecodeNamed reads a root tag and returns its name.
func (d *Decoder) DecodeNamed() (string, Tag, error) {
	id, err := d.readRootType()
	if err != nil {
		return "", nil, err
	}
	if id == TypeEnd {
		t, err := endType{}.Load(d)
		return "", t, err
	}
	name, err := d.readName()
	if err != nil {
		return "", nil, err
	}
	t, err := d.DecodePayload(id)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load root %s %q: %w", id.PrettyName(), name, err)
	}
	return name, t, nil
}

// DecodePayload reads the payload of a tag of type id.
func (d *Decoder) DecodePayload(id TypeID) (Tag, error) {
	return id.Type().Load(d)
}

// Skip consumes the payload of a tag of type id, charging the accounter as if
// it had been loaded.
func (d *Decoder) Skip(id TypeID) error {
	return id.Type().Skip(d)
}

// Visit streams a root tag through v. After v returns ValueHalt the position
// of the underlying reader is undefined.
func (d *Decoder) Visit(v StreamVisitor) error {
	id, err := d.readRootType()
	if err != nil {
		return err
	}
	if id == TypeEnd {
		if err := d.acc.AccountBytes(8); err != nil {
			return err
		}
		if v.VisitRootEntry(TypeEnd) == ValueContinue {
			v.VisitEnd()
		}
		return nil
	}
	tt := id.Type()
	switch v.VisitRootEntry(id) {
	case ValueHalt:
		return nil
	case ValueBreak:
		if err := d.skipName(); err != nil {
			return err
		}
		return tt.Skip(d)
	default:
		if err := d.skipName(); err != nil {
			return err
		}
		_, err := tt.Parse(d, v)
		return err
	}
}

func (d *Decoder) readRootType() (TypeID, error) {
	b := d.r.readU1()
	if d.r.err == io.EOF {
		d.r.err = nil
		return 0, io.EOF
	}
	if err := d.r.failure(); err != nil {
		return 0, err
	}
	id := TypeID(b)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: invalid root tag id %d", ErrFormat, b)
	}
	return id, nil
}

// readName reads a length-prefixed string, charging its wire size.
func (d *Decoder) readName() (string, error) {
	n := int(d.r.readU2())
	if err := d.r.failure(); err != nil {
		return "", err
	}
	if err := d.acc.AccountBytes(2 + int64(n)); err != nil {
		return "", err
	}
	b := d.r.readBytes(n)
	if err := d.r.failure(); err != nil {
		return "", err
	}
	return decodeModifiedUTF8(b), nil
}

func (d *Decoder) skipName() error {
	n := int64(d.r.readU2())
	if err := d.r.failure(); err != nil {
		return err
	}
	if err := d.acc.AccountBytes(2 + n); err != nil {
		return err
	}
	d.r.discard(n)
	return d.r.failure()
}

// Unmarshal decodes a single root tag from data.
func Unmarshal(data []byte, acc *Accounter) (Tag, error) {
	var opts []DecoderOption
	if acc != nil {
		opts = append(opts, WithAccounter(acc))
	}
	return NewDecoder(bytes.NewReader(data), opts...).Decode()
}

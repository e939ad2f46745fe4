package format

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/dhamidi/nbtkit/nbt"
)

func sample() *nbt.Compound {
	c := nbt.NewCompound()
	c.PutByte("a", 1)
	c.PutShort("big", 300)
	c.PutString("s", "hi")
	inner := nbt.NewCompound()
	inner.PutDouble("d", 0.1)
	c.Put("inner", inner)
	return c
}

func TestNumberValueNarrowing(t *testing.T) {
	tests := []struct {
		in   any
		want nbt.Tag
	}{
		{json.Number("1"), nbt.Byte(1)},
		{json.Number("-129"), nbt.Short(-129)},
		{json.Number("70000"), nbt.Int(70000)},
		{json.Number("5000000000"), nbt.Long(5000000000)},
		{json.Number("1.5"), nbt.Float(1.5)},
		{json.Number("0.1"), nbt.Double(0.1)},
		{json.Number("2.0"), nbt.Byte(2)},
		{float64(40000), nbt.Int(40000)},
		{int(7), nbt.Byte(7)},
		{uint64(1 << 40), nbt.Long(1 << 40)},
		{int16(1), nbt.Short(1)},
		{float32(3), nbt.Float(3)},
	}

	for _, tt := range tests {
		got, err := GoOps{}.NumberValue(tt.in)
		if err != nil {
			t.Errorf("NumberValue(%v) error = %v", tt.in, err)
			continue
		}
		if !nbt.Equal(got, tt.want) {
			t.Errorf("NumberValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	input := `{
		// comments and trailing commas are fine
		"a": 1,
		"b": [1, 2,],
		"c": "x",
		"d": true,
		"e": null,
	}`
	got, err := DecodeJSON([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	want := nbt.NewCompound()
	want.PutByte("a", 1)
	want.Put("b", nbt.NewList(nbt.Byte(1), nbt.Byte(2)))
	want.PutString("c", "x")
	want.PutBool("d", true)
	if !nbt.Equal(got, want) {
		t.Errorf("DecodeJSON() = %v, want %v", got, want)
	}
}

func TestJSONEncoder(t *testing.T) {
	c := nbt.NewCompound()
	c.PutByte("a", 1)
	c.PutString("b", "x")
	c.PutIntArray("arr", []int32{1, 2})

	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf)
	enc.SetIndent("")
	if err := enc.Encode(c); err != nil {
		t.Fatal(err)
	}
	want := `{"a":1,"arr":[1,2],"b":"x"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) (nbt.Tag, error)
	}{
		{"json", DecodeJSON},
		{"yaml", DecodeYAML},
		{"toml", DecodeTOML},
		{"cbor", DecodeCBOR},
		{"nbt", decodeBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc, err := NewEncoder(tt.name, &buf)
			if err != nil {
				t.Fatal(err)
			}
			if err := enc.Encode(sample()); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := tt.decode(buf.Bytes())
			if err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if !nbt.Equal(got, sample()) {
				t.Errorf("round trip = %v, want %v", got, sample())
			}
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	a := nbt.NewCompound()
	a.PutInt("x", 1)
	a.PutInt("y", 2)
	b := nbt.NewCompound()
	b.PutInt("y", 2)
	b.PutInt("x", 1)

	ea, err := (&CBOREncoder{tag: a}).MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	eb, err := (&CBOREncoder{tag: b}).MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ea, eb) {
		t.Errorf("CBOR encodings differ: %x != %x", ea, eb)
	}
}

func TestTOMLRequiresCompound(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTOMLEncoder(&buf).Encode(nbt.Int(1)); err == nil {
		t.Error("Encode(Int) error = nil, want error")
	}
	if err := NewTOMLEncoder(&buf).Encode(sample()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "a = 1") {
		t.Errorf("Encode() = %q, want a = 1", buf.String())
	}
}

func TestLineEncoder(t *testing.T) {
	c := nbt.NewCompound()
	inner := nbt.NewCompound()
	inner.PutByte("b", 1)
	c.Put("a", inner)
	c.PutIntArray("arr", []int32{1, 2})
	c.Put("e", nbt.NewCompound())
	c.Put("l", nbt.NewList(nbt.Int(1), nbt.Int(2)))
	c.PutString("s", "hi")
	c.PutFloat("two words", 0.5)

	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(c); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"a.b\tbyte\t1",
		"arr\tint[]\t1,2",
		"e\tcompound\t-",
		"l[0]\tint\t1",
		"l[1]\tint\t2",
		"s\tstring\t\"hi\"",
		"\"two words\"\tfloat\t0.5",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestDigest(t *testing.T) {
	a := nbt.NewCompound()
	a.PutInt("x", 1)
	a.PutString("y", "z")
	b := nbt.NewCompound()
	b.PutString("y", "z")
	b.PutInt("x", 1)

	da, err := Digest(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := Digest(b)
	if err != nil {
		t.Fatal(err)
	}
	if da != db {
		t.Errorf("Digest() = %s and %s, want equal", da, db)
	}
	if len(da) != 64 {
		t.Errorf("len(Digest()) = %d, want 64", len(da))
	}
	b.PutInt("x", 2)
	if dc, _ := Digest(b); dc == da {
		t.Error("Digest() unchanged after modification")
	}
}

func TestNewEncoderUnknown(t *testing.T) {
	if _, err := NewEncoder("xml", nil); err == nil {
		t.Error("NewEncoder(xml) error = nil, want error")
	}
	if !slices.Contains(Names(), "json") {
		t.Errorf("Names() = %v, want json included", Names())
	}
	if _, err := Decode("line", nil); err == nil {
		t.Error("Decode(line) error = nil, want error")
	}
}

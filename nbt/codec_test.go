package nbt

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
)

func sampleTree() *Compound {
	inner := NewCompound()
	inner.PutString("name", "Bananrama")
	inner.PutFloat("health", 3.5)

	root := NewCompound()
	root.PutByte("b", -3)
	root.PutShort("s", 1024)
	root.PutInt("i", -70000)
	root.PutLong("l", math.MinInt64)
	root.PutDouble("d", 0.25)
	root.PutString("nul", "a\x00bé\U0001F600")
	root.PutByteArray("ba", []int8{1, -2, 3})
	root.PutIntArray("ia", []int32{math.MaxInt32, 0})
	root.PutLongArray("la", []int64{-1})
	root.Put("inner", inner)
	root.Put("ints", NewList(Int(1), Int(2), Int(3)))
	root.Put("mixed", NewList(Int(1), String("two"), NewCompound()))
	root.Put("empty", NewList())
	return root
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
	}{
		{"end", End{}},
		{"byte", Byte(-1)},
		{"string", String("hello")},
		{"compound", sampleTree()},
		{"nested lists", NewList(NewList(Byte(1)), NewList(String("x")))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.tag)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got, err := Unmarshal(data, nil)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !Equal(got, tt.tag) {
				t.Errorf("Unmarshal(Marshal(%s)) is not equal to the input", tt.name)
			}
		})
	}
}

func TestEndRootIsSingleByte(t *testing.T) {
	data, err := Marshal(End{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(data, []byte{0}) {
		t.Errorf("Marshal(End) = %v, want [0]", data)
	}
}

func TestDecodeNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeNamed("root", Int(7)); err != nil {
		t.Fatalf("EncodeNamed() error = %v", err)
	}
	name, tag, err := NewDecoder(&buf).DecodeNamed()
	if err != nil {
		t.Fatalf("DecodeNamed() error = %v", err)
	}
	if name != "root" {
		t.Errorf("DecodeNamed() name = %q, want %q", name, "root")
	}
	if tag != Int(7) {
		t.Errorf("DecodeNamed() tag = %v, want 7", tag)
	}
	if _, err := NewDecoder(&buf).Decode(); err != io.EOF {
		t.Errorf("Decode() on empty stream error = %v, want io.EOF", err)
	}
}

func TestMixedListWireFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodePayload(NewList(Int(1), String("a"))); err != nil {
		t.Fatalf("EncodePayload() error = %v", err)
	}
	data := buf.Bytes()
	if TypeID(data[0]) != TypeCompound {
		t.Errorf("element type = %s, want COMPOUND", TypeID(data[0]))
	}
	got, err := NewDecoder(bytes.NewReader(data)).DecodePayload(TypeList)
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	l := got.(*List)
	if l.Len() != 2 || l.At(0) != Int(1) || l.At(1) != String("a") {
		t.Errorf("DecodePayload() = %v, want unwrapped [1, a]", l.Elements())
	}
}

func TestMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"negative byte array", []byte{7, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"negative int array", []byte{11, 0, 0, 0xFF, 0xFF, 0xFF, 0xFE}},
		{"negative long array", []byte{12, 0, 0, 0x80, 0, 0, 0}},
		{"negative list", []byte{9, 0, 0, 1, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"list missing type", []byte{9, 0, 0, 0, 0, 0, 0, 1}},
		{"unknown root", []byte{13, 0, 0}},
		{"unknown entry", []byte{10, 0, 0, 42, 0, 0}},
		{"truncated", []byte{3, 0, 0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data, nil)
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Unmarshal() error = %v, want ErrFormat", err)
			}
			d := NewDecoder(bytes.NewReader(tt.data))
			if err := d.Visit(NewTreeBuilder()); !errors.Is(err, ErrFormat) {
				t.Errorf("Visit() error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestNegativeLengthOnSkip(t *testing.T) {
	for _, id := range []TypeID{TypeByteArray, TypeIntArray, TypeLongArray} {
		d := NewDecoder(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF}))
		if err := d.Skip(id); !errors.Is(err, ErrFormat) {
			t.Errorf("Skip(%s) error = %v, want ErrFormat", id, err)
		}
	}
}

func TestAccountingLimits(t *testing.T) {
	t.Run("quota", func(t *testing.T) {
		data, _ := Marshal(String("a string that costs more than the quota"))
		_, err := Unmarshal(data, NewAccounter(40, DefaultMaxDepth))
		if !errors.Is(err, ErrTooBig) {
			t.Errorf("Unmarshal() error = %v, want ErrTooBig", err)
		}
	})

	t.Run("depth", func(t *testing.T) {
		var tag Tag = Int(0)
		for range DefaultMaxDepth + 1 {
			tag = NewList(tag)
		}
		data, err := Marshal(tag)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if _, err := Unmarshal(data, nil); !errors.Is(err, ErrTooDeep) {
			t.Errorf("Unmarshal() error = %v, want ErrTooDeep", err)
		}
		d := NewDecoder(bytes.NewReader(data))
		if err := d.Visit(&rootBreaker{}); !errors.Is(err, ErrTooDeep) {
			t.Errorf("skip error = %v, want ErrTooDeep", err)
		}
	})

	t.Run("recoverable", func(t *testing.T) {
		data, _ := Marshal(NewByteArray(make([]int8, 100)...))
		if _, err := Unmarshal(data, NewAccounter(50, DefaultMaxDepth)); !errors.Is(err, ErrTooBig) {
			t.Fatalf("Unmarshal() error = %v, want ErrTooBig", err)
		}
		if _, err := Unmarshal(data, DefaultAccounter()); err != nil {
			t.Errorf("Unmarshal() with a fresh accounter error = %v", err)
		}
	})
}

func TestAccountingMonotonicity(t *testing.T) {
	usage := func(tag Tag) (int64, int) {
		data, err := Marshal(tag)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		acc := UnlimitedAccounter()
		if _, err := Unmarshal(data, acc); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		return acc.Usage(), len(data)
	}

	for _, tag := range []Tag{End{}, Byte(1), String("世界世界"), sampleTree()} {
		if used, size := usage(tag); used < int64(size) {
			t.Errorf("usage %d < encoded size %d for %s", used, size, tag.ID())
		}
	}

	shallow, _ := usage(NewList(Int(1)))
	deeper, _ := usage(NewList(NewList(Int(1))))
	if deeper <= shallow {
		t.Errorf("nested usage %d, want more than %d", deeper, shallow)
	}
	longer, _ := usage(NewList(Int(1), Int(2)))
	if longer <= shallow {
		t.Errorf("usage with more elements %d, want more than %d", longer, shallow)
	}
}

// rootBreaker skips every root it sees.
type rootBreaker struct {
	TreeBuilder
}

func (*rootBreaker) VisitRootEntry(TypeID) ValueResult { return ValueBreak }

func TestSkipConsistency(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	a, b := sampleTree(), NewList(String("after"))
	if err := e.Encode(a); err != nil {
		t.Fatal(err)
	}
	if err := e.Encode(b); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	full := NewDecoder(bytes.NewReader(data))
	if _, err := full.Decode(); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	loaded := full.Accounter().Usage()

	skipping := NewDecoder(bytes.NewReader(data))
	if err := skipping.Visit(&rootBreaker{}); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if got := skipping.Accounter().Usage(); got != loaded {
		t.Errorf("skip usage = %d, want %d", got, loaded)
	}
	next, err := skipping.Decode()
	if err != nil {
		t.Fatalf("Decode() after skip error = %v", err)
	}
	if !Equal(next, b) {
		t.Errorf("Decode() after skip = %v, want %v", next, b)
	}
}

// entryPruner skips and breaks on selected children below the root.
type entryPruner struct {
	TreeBuilder
}

func (p *entryPruner) VisitEntryNamed(t TypeID, name string) EntryResult {
	switch name {
	case "skipped", "bytes":
		return EntrySkip
	case "stop":
		return EntryBreak
	}
	return p.TreeBuilder.VisitEntryNamed(t, name)
}

func (p *entryPruner) VisitElement(t TypeID, index int) EntryResult {
	switch {
	case t == TypeString && index == 1:
		return EntrySkip
	case t == TypeInt && index == 2, t == TypeLong && index == 1:
		return EntryBreak
	}
	return p.TreeBuilder.VisitElement(t, index)
}

func TestSkipConsistencyNested(t *testing.T) {
	skipped := NewCompound()
	skipped.PutInt("x", 1)
	deep := NewCompound()
	deep.PutByteArray("bytes", []int8{1, 2, 3})
	deep.Put("longs", NewList(Long(1), Long(2), Long(3)))
	deep.PutInt("after", 7)
	tail := NewCompound()
	tail.PutString("stop", "here")
	tail.PutInt("unseen", 9)

	root := NewCompound()
	root.Put("skipped", skipped)
	root.PutString("keep", "k")
	root.Put("nums", NewList(Int(1), Int(2), Int(3), Int(4)))
	root.Put("names", NewList(String("a"), String("b"), String("c")))
	root.Put("deep", deep)
	root.Put("tail", tail)
	root.PutByte("last", 5)
	next := NewList(String("after"))

	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := e.Encode(root); err != nil {
		t.Fatal(err)
	}
	if err := e.Encode(next); err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(bytes.NewReader(buf.Bytes()))
	pruner := &entryPruner{}
	if err := d.Visit(pruner); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	got, ok := pruner.Result()
	if !ok {
		t.Fatal("Result() not complete")
	}

	wantDeep := NewCompound()
	wantDeep.Put("longs", NewList(Long(1)))
	wantDeep.PutInt("after", 7)
	want := NewCompound()
	want.PutString("keep", "k")
	want.Put("nums", NewList(Int(1), Int(2)))
	want.Put("names", NewList(String("a"), String("c")))
	want.Put("deep", wantDeep)
	want.Put("tail", NewCompound())
	want.PutByte("last", 5)
	if !Equal(got, want) {
		t.Errorf("Visit() built %v, want %v", got, want)
	}

	after, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode() after pruned root error = %v", err)
	}
	if !Equal(after, next) {
		t.Errorf("Decode() after pruned root = %v, want %v", after, next)
	}
}

func TestEqualFloatBits(t *testing.T) {
	root := NewCompound()
	root.PutDouble("d", math.NaN())
	root.PutFloat("f", float32(math.NaN()))
	root.Put("l", NewList(Double(math.Inf(-1)), Double(math.NaN())))

	data, err := Marshal(root)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(root, got) {
		t.Errorf("Equal(%v, round trip) = false, want true", root)
	}
	if Equal(Double(0), Double(math.Copysign(0, -1))) {
		t.Error("Equal(0d, -0d) = true, want false")
	}
	if !Equal(Float(1.5), Float(1.5)) {
		t.Error("Equal(1.5f, 1.5f) = false, want true")
	}
}

func TestLoadErrorPath(t *testing.T) {
	var deep Tag = NewList()
	for range DefaultMaxDepth + 1 {
		deep = NewList(deep)
	}
	pos := NewCompound()
	pos.PutInt("x", 1)
	items := NewCompound()
	items.Put("pos", pos)
	root := NewCompound()
	root.Put("items", NewList(NewCompound(), items))

	deepData, err := Marshal(deep)
	if err != nil {
		t.Fatal(err)
	}
	rootData, err := Marshal(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		path string
		want error
	}{
		{"too deep", deepData, strings.Repeat("[0]", DefaultMaxDepth), ErrTooDeep},
		{"truncated", rootData[:len(rootData)-6], "items[1].pos.x", ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Unmarshal() error = %v, want %v", err, tt.want)
			}
			var pe *PathError
			if !errors.As(err, &pe) {
				t.Fatalf("Unmarshal() error = %v, want *PathError", err)
			}
			if got := pe.Path(); got != tt.path {
				t.Errorf("Path() = %q, want %q", got, tt.path)
			}
			if n := strings.Count(err.Error(), "failed to load"); n != 1 {
				t.Errorf("error mentions %d loads, want 1: %v", n, err)
			}
		})
	}
}

func TestStreamingEquivalence(t *testing.T) {
	data, err := Marshal(sampleTree())
	if err != nil {
		t.Fatal(err)
	}
	want, err := Unmarshal(data, nil)
	if err != nil {
		t.Fatal(err)
	}

	builder := NewTreeBuilder()
	if err := NewDecoder(bytes.NewReader(data)).Visit(builder); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	got, ok := builder.Result()
	if !ok {
		t.Fatal("Result() not complete")
	}
	if !Equal(got, want) {
		t.Error("streamed tree differs from decoded tree")
	}

	builder = NewTreeBuilder()
	Accept(want, builder)
	if got, _ := builder.Result(); !Equal(got, want) {
		t.Error("accepted tree differs from input")
	}
}

// counter halts after a fixed number of values.
type counter struct {
	TreeBuilder
	left int
}

func (c *counter) VisitInt(v int32) ValueResult {
	c.left--
	if c.left == 0 {
		return ValueHalt
	}
	return c.TreeBuilder.VisitInt(v)
}

func TestVisitHalt(t *testing.T) {
	data, _ := Marshal(NewList(Int(1), Int(2), Int(3)))
	c := &counter{left: 2}
	if err := NewDecoder(bytes.NewReader(data)).Visit(c); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if _, ok := c.Result(); ok {
		t.Error("Result() complete after halt")
	}
}

func TestFieldSelector(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := e.Encode(sampleTree()); err != nil {
		t.Fatal(err)
	}
	if err := e.Encode(Int(99)); err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(&buf)
	s := NewFieldSelector("inner.name", "ints", "missing.path")
	if err := d.Visit(s); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	got, ok := s.Result()
	if !ok {
		t.Fatal("Result() not a compound")
	}
	if s.Complete() {
		t.Error("Complete() = true with a missing path")
	}
	if keys := got.Keys(); len(keys) != 2 || keys[0] != "inner" || keys[1] != "ints" {
		t.Errorf("Keys() = %v, want [inner ints]", keys)
	}
	inner := got.CompoundOrEmpty("inner")
	if inner.Len() != 1 || inner.StringOr("name", "") != "Bananrama" {
		t.Errorf("inner = %v, want only name", inner.Keys())
	}
	if got.ListOrEmpty("ints").Len() != 3 {
		t.Errorf("ints length = %d, want 3", got.ListOrEmpty("ints").Len())
	}

	next, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode() after selection error = %v", err)
	}
	if next != Int(99) {
		t.Errorf("Decode() after selection = %v, want 99", next)
	}
}

func TestFieldSelectorBreaksEarly(t *testing.T) {
	data, _ := Marshal(sampleTree())
	s := NewFieldSelector("b")
	if err := NewDecoder(bytes.NewReader(data)).Visit(s); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if !s.Complete() {
		t.Error("Complete() = false")
	}
	got, _ := s.Result()
	if got.ByteOr("b", 0) != -3 || got.Len() != 1 {
		t.Errorf("Result() keys = %v, want [b]", got.Keys())
	}
}

func TestModifiedUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"A", []byte{'A'}},
		{"\x00", []byte{0xC0, 0x80}},
		{"é", []byte{0xC3, 0xA9}},
		{"\U0001F600", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}},
	}
	for _, tt := range tests {
		got := appendModifiedUTF8(nil, tt.in)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("appendModifiedUTF8(%q) = % X, want % X", tt.in, got, tt.want)
		}
		if n := modifiedUTF8Len(tt.in); n != len(tt.want) {
			t.Errorf("modifiedUTF8Len(%q) = %d, want %d", tt.in, n, len(tt.want))
		}
		if back := decodeModifiedUTF8(got); back != tt.in {
			t.Errorf("decodeModifiedUTF8(% X) = %q, want %q", got, back, tt.in)
		}
	}
}

func TestStringTooLong(t *testing.T) {
	long := String(bytes.Repeat([]byte{'x'}, maxStringLen+1))
	if _, err := Marshal(long); err == nil {
		t.Error("Marshal() of an oversized string succeeded")
	}
}

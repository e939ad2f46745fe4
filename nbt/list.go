package nbt

import "slices"

// wrapperKey is the key of the single-entry compound used to carry a
// non-compound element inside a heterogeneous list on the wire.
const wrapperKey = ""

// List is an ordered container of tags. Its contents may be heterogeneous;
// on the wire such a list is written with element type Compound and every
// element wrapped as needed.
type List struct {
	elems []Tag
}

// NewList returns a list holding elems.
func NewList(elems ...Tag) *List {
	l := &List{elems: make([]Tag, 0, len(elems))}
	l.Append(elems...)
	return l
}

func (*List) ID() TypeID { return TypeList }
func (*List) isTag()     {}

func (l *List) SizeInBytes() int {
	n := 36 + 4*len(l.elems)
	for _, e := range l.elems {
		n += e.SizeInBytes()
	}
	return n
}

func (l *List) Copy() Tag {
	elems := make([]Tag, len(l.elems))
	for i, e := range l.elems {
		elems[i] = e.Copy()
	}
	return &List{elems: elems}
}

// ElementType returns TypeEnd for an empty list, the shared element id for a
// homogeneous list, and TypeCompound otherwise.
func (l *List) ElementType() TypeID {
	id := TypeEnd
	for _, e := range l.elems {
		switch {
		case id == TypeEnd:
			id = e.ID()
		case id != e.ID():
			return TypeCompound
		}
	}
	return id
}

func (l *List) Len() int     { return len(l.elems) }
func (l *List) At(i int) Tag { return l.elems[i] }

// Elements returns the backing slice. The caller must not retain it across
// mutations of the list.
func (l *List) Elements() []Tag { return l.elems }

// Set replaces the element at i and returns the previous one.
func (l *List) Set(i int, t Tag) Tag {
	mustTag(t)
	prev := l.elems[i]
	l.elems[i] = t
	return prev
}

// Append adds tags at the end of the list.
func (l *List) Append(tags ...Tag) {
	for _, t := range tags {
		mustTag(t)
	}
	l.elems = append(l.elems, tags...)
}

// Insert adds t before index i.
func (l *List) Insert(i int, t Tag) {
	mustTag(t)
	l.elems = slices.Insert(l.elems, i, t)
}

// Remove deletes and returns the element at i.
func (l *List) Remove(i int) Tag {
	t := l.elems[i]
	l.elems = slices.Delete(l.elems, i, i+1)
	return t
}

func (l *List) Clear() {
	clear(l.elems)
	l.elems = l.elems[:0]
}

// AddUnwrapped appends t, replacing a wrapper compound by its single value.
func (l *List) AddUnwrapped(t Tag) {
	if c, ok := t.(*Compound); ok {
		t = c.unwrap()
	}
	l.Append(t)
}

func (l *List) get(i int) Tag {
	if i < 0 || i >= len(l.elems) {
		return nil
	}
	return l.elems[i]
}

func (l *List) CompoundAt(i int) (*Compound, bool) {
	c, ok := l.get(i).(*Compound)
	return c, ok
}

func (l *List) CompoundAtOrEmpty(i int) *Compound {
	if c, ok := l.CompoundAt(i); ok {
		return c
	}
	return NewCompound()
}

func (l *List) ListAt(i int) (*List, bool) {
	v, ok := l.get(i).(*List)
	return v, ok
}

func (l *List) ListAtOrEmpty(i int) *List {
	if v, ok := l.ListAt(i); ok {
		return v
	}
	return NewList()
}

func (l *List) ShortAt(i int) (int16, bool) {
	n, ok := l.get(i).(Numeric)
	if !ok {
		return 0, false
	}
	return n.Int16(), true
}

func (l *List) IntAt(i int) (int32, bool) {
	n, ok := l.get(i).(Numeric)
	if !ok {
		return 0, false
	}
	return n.Int32(), true
}

func (l *List) IntAtOr(i int, def int32) int32 {
	if v, ok := l.IntAt(i); ok {
		return v
	}
	return def
}

func (l *List) FloatAt(i int) (float32, bool) {
	n, ok := l.get(i).(Numeric)
	if !ok {
		return 0, false
	}
	return n.Float32(), true
}

func (l *List) DoubleAt(i int) (float64, bool) {
	n, ok := l.get(i).(Numeric)
	if !ok {
		return 0, false
	}
	return n.Float64(), true
}

func (l *List) DoubleAtOr(i int, def float64) float64 {
	if v, ok := l.DoubleAt(i); ok {
		return v
	}
	return def
}

func (l *List) StringAt(i int) (string, bool) {
	s, ok := l.get(i).(String)
	return string(s), ok
}

func (l *List) StringAtOr(i int, def string) string {
	if s, ok := l.StringAt(i); ok {
		return s
	}
	return def
}

// IntArrayAt returns a copy of the int array at i.
func (l *List) IntArrayAt(i int) ([]int32, bool) {
	a, ok := l.get(i).(*IntArray)
	if !ok {
		return nil, false
	}
	return a.Values(), true
}

// LongArrayAt returns a copy of the long array at i.
func (l *List) LongArrayAt(i int) ([]int64, bool) {
	a, ok := l.get(i).(*LongArray)
	if !ok {
		return nil, false
	}
	return a.Values(), true
}

// wrapIfNeeded returns the form in which t is written inside a list whose
// wire element type is elem.
func wrapIfNeeded(elem TypeID, t Tag) Tag {
	if elem != TypeCompound {
		return t
	}
	if c, ok := t.(*Compound); ok && !c.isWrapper() {
		return c
	}
	w := NewCompound()
	w.Put(wrapperKey, t)
	return w
}

func mustTag(t Tag) {
	if t == nil {
		panic("nbt: nil tag")
	}
}

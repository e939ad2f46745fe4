package nbt

// ValueResult tells a streaming parse how to continue after a value or a
// container end.
type ValueResult int

const (
	ValueContinue ValueResult = iota
	// ValueBreak stops visiting the enclosing container. Its remaining
	// children are still consumed.
	ValueBreak
	// ValueHalt abandons the decode.
	ValueHalt
)

func (r ValueResult) String() string {
	switch r {
	case ValueContinue:
		return "CONTINUE"
	case ValueBreak:
		return "BREAK"
	case ValueHalt:
		return "HALT"
	}
	return "UNKNOWN"
}

// EntryResult tells a streaming parse what to do with a container child.
type EntryResult int

const (
	EntryEnter EntryResult = iota
	EntrySkip
	EntryBreak
	EntryHalt
)

func (r EntryResult) String() string {
	switch r {
	case EntryEnter:
		return "ENTER"
	case EntrySkip:
		return "SKIP"
	case EntryBreak:
		return "BREAK"
	case EntryHalt:
		return "HALT"
	}
	return "UNKNOWN"
}

// StreamVisitor receives a tag tree as a sequence of events. Slices passed to
// the array callbacks are owned by the visitor.
type StreamVisitor interface {
	VisitEnd() ValueResult
	VisitString(s string) ValueResult
	VisitByte(v int8) ValueResult
	VisitShort(v int16) ValueResult
	VisitInt(v int32) ValueResult
	VisitLong(v int64) ValueResult
	VisitFloat(v float32) ValueResult
	VisitDouble(v float64) ValueResult
	VisitByteArray(v []int8) ValueResult
	VisitIntArray(v []int32) ValueResult
	VisitLongArray(v []int64) ValueResult

	// VisitList starts a list of size elements of type elem.
	VisitList(elem TypeID, size int) ValueResult
	// VisitEntry announces a compound entry before its name is read.
	VisitEntry(t TypeID) EntryResult
	VisitEntryNamed(t TypeID, name string) EntryResult
	VisitElement(t TypeID, index int) EntryResult
	VisitContainerEnd() ValueResult
	VisitRootEntry(t TypeID) ValueResult
}

// Accept streams an in-memory tree through v as if it were being decoded:
// VisitRootEntry first, then the events of t. Compound entries are visited
// in key order.
func Accept(t Tag, v StreamVisitor) ValueResult {
	switch v.VisitRootEntry(t.ID()) {
	case ValueHalt:
		return ValueHalt
	case ValueBreak:
		return ValueBreak
	}
	return accept(t, v)
}

func accept(t Tag, v StreamVisitor) ValueResult {
	switch x := t.(type) {
	case End:
		return v.VisitEnd()
	case Byte:
		return v.VisitByte(int8(x))
	case Short:
		return v.VisitShort(int16(x))
	case Int:
		return v.VisitInt(int32(x))
	case Long:
		return v.VisitLong(int64(x))
	case Float:
		return v.VisitFloat(float32(x))
	case Double:
		return v.VisitDouble(float64(x))
	case String:
		return v.VisitString(string(x))
	case *ByteArray:
		return v.VisitByteArray(x.Values())
	case *IntArray:
		return v.VisitIntArray(x.Values())
	case *LongArray:
		return v.VisitLongArray(x.Values())
	case *List:
		return acceptList(x, v)
	case *Compound:
		return acceptCompound(x, v)
	}
	return ValueHalt
}

func acceptList(l *List, v StreamVisitor) ValueResult {
	switch v.VisitList(l.ElementType(), len(l.elems)) {
	case ValueHalt:
		return ValueHalt
	case ValueBreak:
		return v.VisitContainerEnd()
	}
	for i, e := range l.elems {
		switch v.VisitElement(e.ID(), i) {
		case EntryHalt:
			return ValueHalt
		case EntryBreak:
			return v.VisitContainerEnd()
		case EntrySkip:
			continue
		}
		switch accept(e, v) {
		case ValueHalt:
			return ValueHalt
		case ValueBreak:
			return v.VisitContainerEnd()
		}
	}
	return v.VisitContainerEnd()
}

func acceptCompound(c *Compound, v StreamVisitor) ValueResult {
	for k, t := range c.Sorted() {
		switch v.VisitEntry(t.ID()) {
		case EntryHalt:
			return ValueHalt
		case EntryBreak:
			return v.VisitContainerEnd()
		case EntrySkip:
			continue
		}
		switch v.VisitEntryNamed(t.ID(), k) {
		case EntryHalt:
			return ValueHalt
		case EntryBreak:
			return v.VisitContainerEnd()
		case EntrySkip:
			continue
		}
		switch accept(t, v) {
		case ValueHalt:
			return ValueHalt
		case ValueBreak:
			return v.VisitContainerEnd()
		}
	}
	return v.VisitContainerEnd()
}

package nbt

// TreeBuilder is a StreamVisitor that materializes every event it receives.
// Feeding it a full stream yields the same tree as Decoder.Decode.
type TreeBuilder struct {
	root  Tag
	stack []builderFrame
	name  string
}

type builderFrame struct {
	container Tag
	name      string
}

func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Result returns the root tag once the stream is complete.
func (b *TreeBuilder) Result() (Tag, bool) {
	return b.root, b.root != nil && len(b.stack) == 0
}

// Reset prepares b for another stream.
func (b *TreeBuilder) Reset() {
	b.root = nil
	b.stack = b.stack[:0]
	b.name = ""
}

func (b *TreeBuilder) add(t Tag) ValueResult {
	if len(b.stack) == 0 {
		b.root = t
		return ValueContinue
	}
	switch top := b.stack[len(b.stack)-1].container.(type) {
	case *List:
		top.AddUnwrapped(t)
	case *Compound:
		top.Put(b.name, t)
	}
	return ValueContinue
}

func (b *TreeBuilder) enter(t TypeID) {
	switch t {
	case TypeList:
		b.stack = append(b.stack, builderFrame{container: NewList(), name: b.name})
	case TypeCompound:
		b.stack = append(b.stack, builderFrame{container: NewCompound(), name: b.name})
	}
}

func (b *TreeBuilder) VisitEnd() ValueResult                       { return b.add(End{}) }
func (b *TreeBuilder) VisitString(s string) ValueResult            { return b.add(String(s)) }
func (b *TreeBuilder) VisitByte(v int8) ValueResult                { return b.add(Byte(v)) }
func (b *TreeBuilder) VisitShort(v int16) ValueResult              { return b.add(Short(v)) }
func (b *TreeBuilder) VisitInt(v int32) ValueResult                { return b.add(Int(v)) }
func (b *TreeBuilder) VisitLong(v int64) ValueResult               { return b.add(Long(v)) }
func (b *TreeBuilder) VisitFloat(v float32) ValueResult            { return b.add(Float(v)) }
func (b *TreeBuilder) VisitDouble(v float64) ValueResult           { return b.add(Double(v)) }
func (b *TreeBuilder) VisitByteArray(v []int8) ValueResult         { return b.add(&ByteArray{values: v}) }
func (b *TreeBuilder) VisitIntArray(v []int32) ValueResult         { return b.add(&IntArray{values: v}) }
func (b *TreeBuilder) VisitLongArray(v []int64) ValueResult        { return b.add(&LongArray{values: v}) }
func (b *TreeBuilder) VisitList(elem TypeID, size int) ValueResult { return ValueContinue }
func (b *TreeBuilder) VisitEntry(t TypeID) EntryResult             { return EntryEnter }

func (b *TreeBuilder) VisitEntryNamed(t TypeID, name string) EntryResult {
	b.name = name
	b.enter(t)
	return EntryEnter
}

func (b *TreeBuilder) VisitElement(t TypeID, index int) EntryResult {
	b.enter(t)
	return EntryEnter
}

func (b *TreeBuilder) VisitContainerEnd() ValueResult {
	if len(b.stack) == 0 {
		return ValueContinue
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.name = f.name
	return b.add(f.container)
}

func (b *TreeBuilder) VisitRootEntry(t TypeID) ValueResult {
	b.Reset()
	b.enter(t)
	return ValueContinue
}

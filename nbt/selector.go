package nbt

import "strings"

// FieldSelector is a StreamVisitor that collects only the selected
// dot-separated paths of a compound root. Intermediate path elements must be
// compounds; a selected leaf is collected whole. Once every leaf has been
// found the remaining input is skipped.
type FieldSelector struct {
	builder TreeBuilder
	root    *selectorNode
	nodes   []*selectorNode
	missing int
	// collecting counts open containers inside a selected leaf.
	collecting int
}

type selectorNode struct {
	children map[string]*selectorNode
	leaf     bool
}

func NewFieldSelector(paths ...string) *FieldSelector {
	s := &FieldSelector{root: &selectorNode{}}
	for _, p := range paths {
		s.root.add(strings.Split(p, "."))
	}
	s.missing = s.root.leaves()
	return s
}

func (n *selectorNode) add(path []string) {
	if n.leaf {
		return
	}
	if len(path) == 0 {
		n.leaf = true
		n.children = nil
		return
	}
	if n.children == nil {
		n.children = make(map[string]*selectorNode)
	}
	child, ok := n.children[path[0]]
	if !ok {
		child = &selectorNode{}
		n.children[path[0]] = child
	}
	child.add(path[1:])
}

func (n *selectorNode) leaves() int {
	if n.leaf {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += c.leaves()
	}
	return total
}

// Result returns the collected compound, or false when the root was not a
// compound.
func (s *FieldSelector) Result() (*Compound, bool) {
	t, ok := s.builder.Result()
	if !ok {
		return nil, false
	}
	c, ok := t.(*Compound)
	return c, ok
}

// Complete reports whether every selected path was found.
func (s *FieldSelector) Complete() bool { return s.missing == 0 }

func (s *FieldSelector) done(r ValueResult) ValueResult {
	if r == ValueContinue && s.collecting == 0 && s.missing == 0 {
		return ValueBreak
	}
	return r
}

func (s *FieldSelector) VisitEnd() ValueResult             { return s.done(s.builder.VisitEnd()) }
func (s *FieldSelector) VisitString(v string) ValueResult  { return s.done(s.builder.VisitString(v)) }
func (s *FieldSelector) VisitByte(v int8) ValueResult      { return s.done(s.builder.VisitByte(v)) }
func (s *FieldSelector) VisitShort(v int16) ValueResult    { return s.done(s.builder.VisitShort(v)) }
func (s *FieldSelector) VisitInt(v int32) ValueResult      { return s.done(s.builder.VisitInt(v)) }
func (s *FieldSelector) VisitLong(v int64) ValueResult     { return s.done(s.builder.VisitLong(v)) }
func (s *FieldSelector) VisitFloat(v float32) ValueResult  { return s.done(s.builder.VisitFloat(v)) }
func (s *FieldSelector) VisitDouble(v float64) ValueResult { return s.done(s.builder.VisitDouble(v)) }

func (s *FieldSelector) VisitByteArray(v []int8) ValueResult {
	return s.done(s.builder.VisitByteArray(v))
}

func (s *FieldSelector) VisitIntArray(v []int32) ValueResult {
	return s.done(s.builder.VisitIntArray(v))
}

func (s *FieldSelector) VisitLongArray(v []int64) ValueResult {
	return s.done(s.builder.VisitLongArray(v))
}

func (s *FieldSelector) VisitList(elem TypeID, size int) ValueResult {
	return s.builder.VisitList(elem, size)
}

func (s *FieldSelector) VisitEntry(t TypeID) EntryResult {
	if s.collecting == 0 && len(s.nodes) > 0 {
		top := s.nodes[len(s.nodes)-1]
		if t != TypeCompound && !top.hasLeafChild() {
			return EntrySkip
		}
	}
	return EntryEnter
}

func (n *selectorNode) hasLeafChild() bool {
	for _, c := range n.children {
		if c.leaf {
			return true
		}
	}
	return false
}

func (s *FieldSelector) VisitEntryNamed(t TypeID, name string) EntryResult {
	if s.collecting > 0 {
		s.open(t)
		return s.builder.VisitEntryNamed(t, name)
	}
	top := s.nodes[len(s.nodes)-1]
	child, ok := top.children[name]
	switch {
	case !ok:
		return EntrySkip
	case child.leaf:
		s.missing--
		s.open(t)
		return s.builder.VisitEntryNamed(t, name)
	case t != TypeCompound:
		return EntrySkip
	}
	s.nodes = append(s.nodes, child)
	return s.builder.VisitEntryNamed(t, name)
}

// open records a container started inside a selected leaf.
func (s *FieldSelector) open(t TypeID) {
	if t == TypeList || t == TypeCompound {
		s.collecting++
	}
}

func (s *FieldSelector) VisitElement(t TypeID, index int) EntryResult {
	s.open(t)
	return s.builder.VisitElement(t, index)
}

func (s *FieldSelector) VisitContainerEnd() ValueResult {
	if s.collecting > 0 {
		s.collecting--
	} else if len(s.nodes) > 0 {
		s.nodes = s.nodes[:len(s.nodes)-1]
	}
	return s.done(s.builder.VisitContainerEnd())
}

func (s *FieldSelector) VisitRootEntry(t TypeID) ValueResult {
	if t != TypeCompound {
		return ValueBreak
	}
	s.nodes = append(s.nodes[:0], s.root)
	s.collecting = 0
	s.missing = s.root.leaves()
	return s.builder.VisitRootEntry(t)
}

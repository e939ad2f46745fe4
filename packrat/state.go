package packrat

import (
	"errors"
	"fmt"
)

// ErrMalformedScope reports frames left open after a top rule returned.
var ErrMalformedScope = errors.New("packrat: malformed scope")

// Input is the cursor the engine moves over.
type Input interface {
	Cursor() int
	SetCursor(cursor int)
}

// State carries an input and everything a parse of it needs. A State must
// not be shared between concurrent parses.
type State[S Input] struct {
	*memo[S]
	collector ErrorCollector[S]
	silent    *State[S]
}

// memo is shared between a state and its silent view.
type memo[S Input] struct {
	input    S
	scope    *Scope
	cache    []*positionCache
	controls []*simpleControl
	next     int
}

type positionCache struct {
	slots []cacheSlot
}

type cacheSlot struct {
	key   any
	entry *cacheEntry
}

type cacheEntry struct {
	value     any
	markAfter int
	negative  bool
}

var negativeEntry = &cacheEntry{markAfter: -1, negative: true}

func NewState[S Input](input S, collector ErrorCollector[S]) *State[S] {
	m := &memo[S]{
		input:    input,
		scope:    NewScope(),
		cache:    make([]*positionCache, 256),
		controls: make([]*simpleControl, 16),
	}
	s := &State[S]{memo: m, collector: collector}
	s.silent = &State[S]{memo: m, collector: Nop[S]{}}
	s.silent.silent = s.silent
	return s
}

func (s *State[S]) Input() S                     { return s.input }
func (s *State[S]) Scope() *Scope                { return s.scope }
func (s *State[S]) Collector() ErrorCollector[S] { return s.collector }
func (s *State[S]) Mark() int                    { return s.input.Cursor() }
func (s *State[S]) Restore(cursor int)           { s.input.SetCursor(cursor) }

// Silent returns a view that shares input, scope and cache but reports to a
// no-op collector.
func (s *State[S]) Silent() *State[S] { return s.silent }

// Store reports a failure at cursor without suggestions.
func (s *State[S]) Store(cursor int, reason any) {
	s.collector.Store(cursor, nil, reason)
}

func (s *State[S]) AcquireControl() Control {
	if s.next >= len(s.controls) {
		controls := make([]*simpleControl, growByHalf(len(s.controls), s.next+1))
		copy(controls, s.controls)
		s.controls = controls
	}
	c := s.controls[s.next]
	if c == nil {
		c = &simpleControl{}
		s.controls[s.next] = c
	} else {
		c.cut = false
	}
	s.next++
	return c
}

func (s *State[S]) ReleaseControl() {
	s.next--
}

func (s *State[S]) cacheAt(pos int) *positionCache {
	if pos >= len(s.cache) {
		cache := make([]*positionCache, growByHalf(len(s.cache), pos+1))
		copy(cache, s.cache)
		s.cache = cache
	}
	pc := s.cache[pos]
	if pc == nil {
		pc = &positionCache{}
		s.cache[pos] = pc
	}
	return pc
}

func (pc *positionCache) find(key any) int {
	for i, e := range pc.slots {
		if e.key == key {
			return i
		}
	}
	return -1
}

// Parse runs rule at the current cursor, memoizing the outcome per position.
// A rule re-entered at the same position while still running is run again.
func Parse[S Input, T any](s *State[S], rule *NamedRule[S, T]) (T, bool) {
	var zero T
	mark := s.Mark()
	pc := s.cacheAt(mark)
	i := pc.find(rule.name)
	if i >= 0 {
		if e := pc.slots[i].entry; e != nil {
			if e.negative {
				return zero, false
			}
			s.Restore(e.markAfter)
			return e.value.(T), true
		}
	} else {
		i = len(pc.slots)
		pc.slots = append(pc.slots, cacheSlot{key: rule.name})
	}

	v, ok := rule.Rule().Parse(s)
	if !ok {
		pc.slots[i].entry = negativeEntry
		return zero, false
	}
	pc.slots[i].entry = &cacheEntry{value: v, markAfter: s.Mark()}
	return v, true
}

// ParseTopRule parses rule as the root of a parse. On success the collector
// is finished at the final cursor. An error is returned only when the scope
// was left inconsistent.
func ParseTopRule[S Input, T any](s *State[S], rule *NamedRule[S, T]) (T, bool, error) {
	v, ok := Parse(s, rule)
	if ok {
		s.collector.Finish(s.Mark())
	}
	if !s.scope.HasOnlySingleFrame() {
		var zero T
		return zero, false, fmt.Errorf("%w: %s", ErrMalformedScope, s.scope)
	}
	return v, ok, nil
}

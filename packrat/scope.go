// Package packrat is a backtracking PEG engine with scoped bindings, cut
// commitment and position-keyed memoization. It is generic over the input
// type, which only needs a movable cursor.
package packrat

import (
	"fmt"
	"strings"
)

// Atom is a typed name. Atoms compare by identity, so two atoms with the same
// name are distinct keys.
type Atom[T any] struct {
	name string
}

func NewAtom[T any](name string) *Atom[T] {
	return &Atom[T]{name: name}
}

func (a *Atom[T]) String() string { return "<" + a.name + ">" }
func (a *Atom[T]) Name() string   { return a.name }

// Get returns the value bound to a in the top frame of s.
func (a *Atom[T]) Get(s *Scope) (T, bool) {
	i := s.valueIndex(a)
	if i < 0 || s.stack[i].value == nil {
		var zero T
		return zero, false
	}
	return s.stack[i].value.(T), true
}

func (a *Atom[T]) GetOr(s *Scope, def T) T {
	if v, ok := a.Get(s); ok {
		return v
	}
	return def
}

// MustGet panics when a is unbound; grammar actions use it for bindings their
// term guarantees.
func (a *Atom[T]) MustGet(s *Scope) T {
	v, ok := a.Get(s)
	if !ok {
		panic("packrat: no value for atom " + a.String())
	}
	return v
}

func (a *Atom[T]) Put(s *Scope, v T) {
	s.put(a, v)
}

// GetAny returns the value of the most recently bound atom among atoms.
func GetAny[T any](s *Scope, atoms ...*Atom[T]) (T, bool) {
	for i := s.top(); i > s.marker; i-- {
		for _, a := range atoms {
			if s.stack[i].key == any(a) {
				if v := s.stack[i].value; v != nil {
					return v.(T), true
				}
				var zero T
				return zero, false
			}
		}
	}
	var zero T
	return zero, false
}

func MustGetAny[T any](s *Scope, atoms ...*Atom[T]) T {
	v, ok := GetAny(s, atoms...)
	if !ok {
		panic(fmt.Sprintf("packrat: no value for atoms %v", atoms))
	}
	return v
}

type frameMarker struct{}

func (frameMarker) String() string { return "frame" }

var frameStart any = frameMarker{}

type slot struct {
	key   any
	value any
}

// Scope is a stack of binding frames held in one slot array. A frame starts
// with a marker slot whose value is the index of the previous marker.
// Lookups only see the top frame.
type Scope struct {
	stack  []slot
	marker int
}

func NewScope() *Scope {
	s := &Scope{stack: make([]slot, 1, 128)}
	s.stack[0] = slot{key: frameStart}
	return s
}

func (s *Scope) top() int { return len(s.stack) - 1 }

func (s *Scope) valueIndex(key any) int {
	for i := s.top(); i > s.marker; i-- {
		if s.stack[i].key == key {
			return i
		}
	}
	return -1
}

func (s *Scope) grow(n int) {
	if need := len(s.stack) + n; need > cap(s.stack) {
		stack := make([]slot, len(s.stack), growByHalf(cap(s.stack), need))
		copy(stack, s.stack)
		s.stack = stack
	}
}

func (s *Scope) PushFrame() {
	s.grow(1)
	s.stack = append(s.stack, slot{key: frameStart, value: s.marker})
	s.marker = s.top()
}

func (s *Scope) PopFrame() {
	if s.marker == 0 {
		panic("packrat: pop of the root frame")
	}
	prev := s.stack[s.marker].value.(int)
	s.truncate(s.marker)
	s.marker = prev
}

func (s *Scope) truncate(n int) {
	clear(s.stack[n:])
	s.stack = s.stack[:n]
}

// SplitFrame opens a frame holding the keys of the current one with no
// values, so that an alternative can bind into it and merge back.
func (s *Scope) SplitFrame() {
	start, n := s.marker, s.top()-s.marker
	s.grow(n + 1)
	s.PushFrame()
	for i := 1; i <= n; i++ {
		s.stack = append(s.stack, slot{key: s.stack[start+i].key})
	}
}

func (s *Scope) ClearFrameValues() {
	for i := s.top(); i > s.marker; i-- {
		s.stack[i].value = nil
	}
}

// MergeFrame folds the top frame into its parent. Keys at matching positions
// keep the parent's value unless the top frame bound a new one.
func (s *Scope) MergeFrame() {
	prev := s.stack[s.marker].value.(int)
	j := prev
	for k := s.marker + 1; k <= s.top(); k++ {
		j++
		src := s.stack[k]
		if s.stack[j].key != src.key {
			s.stack[j] = src
		} else if src.value != nil {
			s.stack[j].value = src.value
		}
	}
	s.truncate(j + 1)
	s.marker = prev
}

func (s *Scope) put(key, value any) {
	if i := s.valueIndex(key); i >= 0 {
		s.stack[i].value = value
		return
	}
	s.grow(1)
	s.stack = append(s.stack, slot{key: key, value: value})
}

func (s *Scope) HasOnlySingleFrame() bool {
	for i := s.top(); i > 0; i-- {
		if s.stack[i].key == frameStart {
			return false
		}
	}
	return true
}

func (s *Scope) String() string {
	var b strings.Builder
	first := true
	for _, e := range s.stack {
		if e.key == frameStart {
			b.WriteByte('|')
			first = true
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&b, "%v:%v", e.key, e.value)
	}
	return b.String()
}

const maxArrayLen = 2147483639

func growByHalf(n, atLeast int) int {
	return max(min(n+n>>1, maxArrayLen), atLeast)
}

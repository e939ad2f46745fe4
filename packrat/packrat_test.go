package packrat

import (
	"errors"
	"strings"
	"testing"
)

type testInput struct {
	text string
	pos  int
}

func (in *testInput) Cursor() int     { return in.pos }
func (in *testInput) SetCursor(c int) { in.pos = c }

func char(c byte) Term[*testInput] {
	return TermFunc[*testInput](func(s *State[*testInput], _ *Scope, _ Control) bool {
		in := s.Input()
		if in.pos < len(in.text) && in.text[in.pos] == c {
			in.pos++
			return true
		}
		s.Collector().Store(in.pos, SuggestValues[*testInput]{string(c)}, "expected "+string(c))
		return false
	})
}

func newTestState(text string) (*State[*testInput], *LongestOnly[*testInput]) {
	c := NewLongestOnly[*testInput]()
	return NewState[*testInput](&testInput{text: text}, c), c
}

func TestScopeFrames(t *testing.T) {
	a := NewAtom[int]("a")
	b := NewAtom[string]("b")
	s := NewScope()
	a.Put(s, 1)
	s.PushFrame()
	if _, ok := a.Get(s); ok {
		t.Fatalf("a visible in new frame")
	}
	b.Put(s, "x")
	s.PopFrame()
	if _, ok := b.Get(s); ok {
		t.Fatalf("b survived PopFrame")
	}
	if got := a.MustGet(s); got != 1 {
		t.Errorf("a = %d, want 1", got)
	}
	if !s.HasOnlySingleFrame() {
		t.Errorf("HasOnlySingleFrame() = false, want true")
	}
}

func TestScopeSplitMerge(t *testing.T) {
	a := NewAtom[int]("a")
	b := NewAtom[int]("b")
	s := NewScope()
	a.Put(s, 1)

	s.SplitFrame()
	if _, ok := a.Get(s); ok {
		t.Fatalf("split frame should hold keys without values")
	}
	b.Put(s, 2)
	s.ClearFrameValues()
	if _, ok := b.Get(s); ok {
		t.Fatalf("ClearFrameValues left b bound")
	}
	b.Put(s, 3)
	s.MergeFrame()

	if got := a.MustGet(s); got != 1 {
		t.Errorf("a = %d, want 1", got)
	}
	if got := b.MustGet(s); got != 3 {
		t.Errorf("b = %d, want 3", got)
	}
	if !s.HasOnlySingleFrame() {
		t.Errorf("merge left an open frame: %s", s)
	}
}

func TestScopeGetAny(t *testing.T) {
	a := NewAtom[int]("a")
	b := NewAtom[int]("b")
	s := NewScope()
	a.Put(s, 1)
	b.Put(s, 2)
	if got := MustGetAny(s, a, b); got != 2 {
		t.Errorf("GetAny() = %d, want most recent binding 2", got)
	}
	if got := NewAtom[int]("c").GetOr(s, 7); got != 7 {
		t.Errorf("GetOr() = %d, want 7", got)
	}
}

func TestScopeString(t *testing.T) {
	a := NewAtom[int]("a")
	s := NewScope()
	a.Put(s, 1)
	s.PushFrame()
	if got, want := s.String(), "|<a>:1|"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestAlternativeCut(t *testing.T) {
	d := NewDictionary[*testInput]()
	r := NewAtom[string]("r")
	top := PutTerm(d, r, Alternative(
		Sequence(char('a'), Cut[*testInput](), char('b')),
		Sequence(char('a'), char('c')),
	), func(*Scope) string { return "ok" })

	tests := []struct {
		input string
		want  bool
	}{
		{"ab", true},
		{"ac", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, _ := newTestState(tt.input)
			_, ok, err := ParseTopRule(s, top)
			if err != nil {
				t.Fatalf("ParseTopRule() error = %v", err)
			}
			if ok != tt.want {
				t.Errorf("ParseTopRule(%q) ok = %v, want %v", tt.input, ok, tt.want)
			}
		})
	}
}

func TestAlternativeWithoutCutBacktracks(t *testing.T) {
	d := NewDictionary[*testInput]()
	r := NewAtom[int]("r")
	which := NewAtom[int]("which")
	top := PutTerm(d, r, Alternative(
		Sequence(Marker[*testInput](which, 1), char('a'), char('b')),
		Sequence(char('a'), char('c')),
	), func(s *Scope) int { return which.GetOr(s, 2) })

	s, _ := newTestState("ac")
	got, ok, err := ParseTopRule(s, top)
	if err != nil || !ok {
		t.Fatalf("ParseTopRule() = %v, %v", ok, err)
	}
	if got != 2 {
		t.Errorf("failed branch binding leaked: which = %d, want 2", got)
	}
}

func TestCutDoesNotEscapeRule(t *testing.T) {
	d := NewDictionary[*testInput]()
	inner := NewAtom[int]("inner")
	top := NewAtom[int]("top")
	PutTerm(d, inner, Sequence(char('a'), Cut[*testInput](), char('b')), func(*Scope) int { return 1 })
	rule := PutTerm(d, top, Alternative(
		Named(d, inner),
		Sequence(char('a'), char('c')),
	), func(*Scope) int { return 2 })

	s, _ := newTestState("ac")
	if _, ok, _ := ParseTopRule(s, rule); !ok {
		t.Errorf("cut inside a rule body committed the outer alternative")
	}
}

func TestMemoization(t *testing.T) {
	d := NewDictionary[*testInput]()
	x := NewAtom[int]("x")
	top := NewAtom[int]("top")
	calls := 0
	Put(d, x, RuleFunc[*testInput, int](func(s *State[*testInput]) (int, bool) {
		calls++
		if char('a').Parse(s, s.Scope(), Unbound) {
			return 1, true
		}
		return 0, false
	}))
	rule := PutTerm(d, top, Alternative(
		Sequence(Named(d, x), char('b')),
		Sequence(Named(d, x), char('c')),
	), func(s *Scope) int { return x.MustGet(s) })

	s, _ := newTestState("ac")
	got, ok, err := ParseTopRule(s, rule)
	if err != nil || !ok || got != 1 {
		t.Fatalf("ParseTopRule() = %d, %v, %v", got, ok, err)
	}
	if calls != 1 {
		t.Errorf("rule ran %d times at one position, want 1", calls)
	}
	if s.Mark() != 2 {
		t.Errorf("cursor = %d, want 2", s.Mark())
	}
}

func TestLookahead(t *testing.T) {
	tests := []struct {
		name  string
		term  Term[*testInput]
		input string
		want  bool
	}{
		{"positive match", PositiveLookahead(char('a')), "a", true},
		{"positive miss", PositiveLookahead(char('a')), "b", false},
		{"negative match", NegativeLookahead(char('a')), "a", false},
		{"negative miss", NegativeLookahead(char('a')), "b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newTestState(tt.input)
			got := tt.term.Parse(s, s.Scope(), Unbound)
			if got != tt.want {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
			if s.Mark() != 0 {
				t.Errorf("lookahead consumed input: cursor = %d", s.Mark())
			}
			if len(c.Entries()) != 0 {
				t.Errorf("lookahead reported errors: %v", c.Entries())
			}
		})
	}
}

func TestRepeatedWithSeparator(t *testing.T) {
	elem := NewAtom[byte]("elem")
	list := NewAtom[[]byte]("list")
	tests := []struct {
		input    string
		trailing bool
		want     string
		ok       bool
		cursor   int
	}{
		{"a,a,a", false, "aaa", true, 5},
		{"a,a,", false, "", false, 0},
		{"a,a,", true, "aa", true, 4},
		{"", true, "", true, 0},
		{"a;", false, "a", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := NewDictionary[*testInput]()
			e := PutTerm(d, elem, char('a'), func(*Scope) byte { return 'a' })
			var term Term[*testInput]
			if tt.trailing {
				term = RepeatedWithTrailingSeparator(e, list, char(','), 0)
			} else {
				term = RepeatedWithoutTrailingSeparator(e, list, char(','), 0)
			}
			s, _ := newTestState(tt.input)
			ok := term.Parse(s, s.Scope(), Unbound)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, ok, tt.ok)
			}
			if s.Mark() != tt.cursor {
				t.Errorf("cursor = %d, want %d", s.Mark(), tt.cursor)
			}
			if ok {
				if got := string(list.MustGet(s.Scope())); got != tt.want {
					t.Errorf("list = %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestRepeatedMinimum(t *testing.T) {
	d := NewDictionary[*testInput]()
	elem := NewAtom[byte]("elem")
	list := NewAtom[[]byte]("list")
	e := PutTerm(d, elem, char('a'), func(*Scope) byte { return 'a' })
	term := Repeated(e, list, 2)

	s, _ := newTestState("ab")
	if term.Parse(s, s.Scope(), Unbound) {
		t.Fatalf("Repeated(min 2) matched a single element")
	}
	if s.Mark() != 0 {
		t.Errorf("cursor = %d, want 0", s.Mark())
	}

	s, _ = newTestState("aaab")
	if !term.Parse(s, s.Scope(), Unbound) {
		t.Fatalf("Repeated(min 2) failed on three elements")
	}
	if got := string(list.MustGet(s.Scope())); got != "aaa" {
		t.Errorf("list = %q, want %q", got, "aaa")
	}
}

func TestLongestOnly(t *testing.T) {
	c := NewLongestOnly[*testInput]()
	c.Store(1, nil, "one")
	c.Store(3, nil, "three")
	c.Store(2, nil, "two")
	c.Store(3, nil, "three again")
	if c.Cursor() != 3 {
		t.Fatalf("Cursor() = %d, want 3", c.Cursor())
	}
	if got := len(c.Entries()); got != 2 {
		t.Errorf("len(Entries()) = %d, want 2", got)
	}
	c.Finish(5)
	if got := len(c.Entries()); got != 0 {
		t.Errorf("Finish past errors kept %d entries", got)
	}
}

func TestFailStoresReason(t *testing.T) {
	s, c := newTestState("x")
	if Fail[*testInput]("nope").Parse(s, s.Scope(), Unbound) {
		t.Fatalf("Fail matched")
	}
	entries := c.Entries()
	if len(entries) != 1 || entries[0].Reason != "nope" {
		t.Errorf("Entries() = %v", entries)
	}
}

func TestDictionary(t *testing.T) {
	d := NewDictionary[*testInput]()
	a := NewAtom[int]("a")
	Forward(d, a)
	err := d.CheckAllBound()
	if err == nil || !strings.Contains(err.Error(), "<a>") {
		t.Fatalf("CheckAllBound() = %v, want unbound <a>", err)
	}
	PutTerm(d, a, Empty[*testInput](), func(*Scope) int { return 0 })
	if err := d.CheckAllBound(); err != nil {
		t.Errorf("CheckAllBound() = %v, want nil", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("rebinding a rule did not panic")
		}
	}()
	PutTerm(d, a, Empty[*testInput](), func(*Scope) int { return 1 })
}

func TestMalformedScope(t *testing.T) {
	d := NewDictionary[*testInput]()
	a := NewAtom[int]("a")
	rule := Put(d, a, RuleFunc[*testInput, int](func(s *State[*testInput]) (int, bool) {
		s.Scope().PushFrame()
		return 1, true
	}))
	s, _ := newTestState("")
	_, _, err := ParseTopRule(s, rule)
	if !errors.Is(err, ErrMalformedScope) {
		t.Errorf("ParseTopRule() error = %v, want ErrMalformedScope", err)
	}
}

package packrat

// Term is a grammar expression. It binds values into scope and reports
// whether it matched; on failure the cursor is restored by the caller or by
// the combinator that ran it.
type Term[S Input] interface {
	Parse(state *State[S], scope *Scope, control Control) bool
}

// TermFunc adapts a function to Term.
type TermFunc[S Input] func(state *State[S], scope *Scope, control Control) bool

func (f TermFunc[S]) Parse(state *State[S], scope *Scope, control Control) bool {
	return f(state, scope, control)
}

type sequence[S Input] []Term[S]

// Sequence matches every term in order.
func Sequence[S Input](terms ...Term[S]) Term[S] { return sequence[S](terms) }

func (t sequence[S]) Parse(state *State[S], scope *Scope, control Control) bool {
	mark := state.Mark()
	for _, term := range t {
		if !term.Parse(state, scope, control) {
			state.Restore(mark)
			return false
		}
	}
	return true
}

type alternative[S Input] []Term[S]

// Alternative tries each term in order and keeps the first match. Values
// bound by failed branches are cleared, and a cut reached in a failed branch
// prevents the remaining branches from being tried.
func Alternative[S Input](terms ...Term[S]) Term[S] { return alternative[S](terms) }

func (t alternative[S]) Parse(state *State[S], scope *Scope, _ Control) bool {
	control := state.AcquireControl()
	defer state.ReleaseControl()
	mark := state.Mark()
	scope.SplitFrame()
	for _, term := range t {
		if term.Parse(state, scope, control) {
			scope.MergeFrame()
			return true
		}
		scope.ClearFrameValues()
		state.Restore(mark)
		if control.HasCut() {
			break
		}
	}
	scope.PopFrame()
	return false
}

type optional[S Input] struct {
	term Term[S]
}

// Optional matches term or nothing.
func Optional[S Input](term Term[S]) Term[S] { return optional[S]{term: term} }

func (t optional[S]) Parse(state *State[S], scope *Scope, control Control) bool {
	mark := state.Mark()
	if !t.term.Parse(state, scope, control) {
		state.Restore(mark)
	}
	return true
}

type lookahead[S Input] struct {
	term     Term[S]
	positive bool
}

// PositiveLookahead matches when term would, without consuming input or
// reporting errors.
func PositiveLookahead[S Input](term Term[S]) Term[S] {
	return lookahead[S]{term: term, positive: true}
}

// NegativeLookahead matches when term would not.
func NegativeLookahead[S Input](term Term[S]) Term[S] {
	return lookahead[S]{term: term, positive: false}
}

func (t lookahead[S]) Parse(state *State[S], scope *Scope, control Control) bool {
	mark := state.Mark()
	ok := t.term.Parse(state.Silent(), scope, control)
	state.Restore(mark)
	return ok == t.positive
}

type repeated[S Input, T any] struct {
	element *NamedRule[S, T]
	list    *Atom[[]T]
	min     int
}

// Repeated matches element as often as possible and binds the results to
// list. It fails when fewer than min elements match.
func Repeated[S Input, T any](element *NamedRule[S, T], list *Atom[[]T], min int) Term[S] {
	return repeated[S, T]{element: element, list: list, min: min}
}

func (t repeated[S, T]) Parse(state *State[S], scope *Scope, _ Control) bool {
	start := state.Mark()
	values := make([]T, 0, t.min)
	for {
		mark := state.Mark()
		v, ok := Parse(state, t.element)
		if !ok {
			state.Restore(mark)
			if len(values) < t.min {
				state.Restore(start)
				return false
			}
			t.list.Put(scope, values)
			return true
		}
		values = append(values, v)
	}
}

type repeatedWithSeparator[S Input, T any] struct {
	element   *NamedRule[S, T]
	list      *Atom[[]T]
	separator Term[S]
	min       int
	trailing  bool
}

// RepeatedWithTrailingSeparator matches elements separated by separator,
// allowing a separator after the last element.
func RepeatedWithTrailingSeparator[S Input, T any](element *NamedRule[S, T], list *Atom[[]T], separator Term[S], min int) Term[S] {
	return repeatedWithSeparator[S, T]{element: element, list: list, separator: separator, min: min, trailing: true}
}

// RepeatedWithoutTrailingSeparator fails when a separator is not followed by
// an element.
func RepeatedWithoutTrailingSeparator[S Input, T any](element *NamedRule[S, T], list *Atom[[]T], separator Term[S], min int) Term[S] {
	return repeatedWithSeparator[S, T]{element: element, list: list, separator: separator, min: min}
}

func (t repeatedWithSeparator[S, T]) Parse(state *State[S], scope *Scope, control Control) bool {
	start := state.Mark()
	values := make([]T, 0, t.min)
	first := true
	for {
		mark := state.Mark()
		if !first && !t.separator.Parse(state, scope, control) {
			state.Restore(mark)
			break
		}
		elem := state.Mark()
		v, ok := Parse(state, t.element)
		if !ok {
			if !first && !t.trailing {
				state.Restore(start)
				return false
			}
			state.Restore(elem)
			break
		}
		values = append(values, v)
		first = false
	}
	if len(values) < t.min {
		state.Restore(start)
		return false
	}
	t.list.Put(scope, values)
	return true
}

// Cut commits the enclosing alternative to the current branch.
func Cut[S Input]() Term[S] {
	return TermFunc[S](func(_ *State[S], _ *Scope, control Control) bool {
		control.Cut()
		return true
	})
}

// Empty always matches.
func Empty[S Input]() Term[S] {
	return TermFunc[S](func(*State[S], *Scope, Control) bool { return true })
}

// Fail stores reason at the cursor and never matches.
func Fail[S Input](reason any) Term[S] {
	return TermFunc[S](func(state *State[S], _ *Scope, _ Control) bool {
		state.Store(state.Mark(), reason)
		return false
	})
}

// Marker binds value to name and always matches.
func Marker[S Input, T any](name *Atom[T], value T) Term[S] {
	return TermFunc[S](func(_ *State[S], scope *Scope, _ Control) bool {
		name.Put(scope, value)
		return true
	})
}

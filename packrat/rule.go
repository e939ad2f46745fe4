package packrat

import (
	"fmt"
	"strings"
)

// Rule produces a value from the input, or reports failure.
type Rule[S Input, T any] interface {
	Parse(state *State[S]) (T, bool)
}

// RuleFunc adapts a function to Rule.
type RuleFunc[S Input, T any] func(state *State[S]) (T, bool)

func (f RuleFunc[S, T]) Parse(state *State[S]) (T, bool) { return f(state) }

type wrappedTerm[S Input, T any] struct {
	child  Term[S]
	action func(state *State[S]) (T, bool)
}

// FromTerm builds a rule that runs child in a fresh frame and, when it
// matches, returns the result of action. Cuts inside child do not escape
// the rule.
func FromTerm[S Input, T any](child Term[S], action func(state *State[S]) (T, bool)) Rule[S, T] {
	return wrappedTerm[S, T]{child: child, action: action}
}

// FromTermSimple is FromTerm for actions that only read bindings and cannot
// fail.
func FromTermSimple[S Input, T any](child Term[S], action func(scope *Scope) T) Rule[S, T] {
	return wrappedTerm[S, T]{child: child, action: func(state *State[S]) (T, bool) {
		return action(state.Scope()), true
	}}
}

func (r wrappedTerm[S, T]) Parse(state *State[S]) (T, bool) {
	scope := state.Scope()
	scope.PushFrame()
	defer scope.PopFrame()
	if !r.child.Parse(state, scope, Unbound) {
		var zero T
		return zero, false
	}
	return r.action(state)
}

// NamedRule is a dictionary entry. Its rule may be bound after the entry is
// referenced, which allows recursive grammars.
type NamedRule[S Input, T any] struct {
	name *Atom[T]
	rule Rule[S, T]
}

func (r *NamedRule[S, T]) Name() *Atom[T] { return r.name }

// Rule returns the bound rule and panics when the name is still unbound.
func (r *NamedRule[S, T]) Rule() Rule[S, T] {
	if r.rule == nil {
		panic("packrat: unbound name " + r.name.String())
	}
	return r.rule
}

func (r *NamedRule[S, T]) bound() bool   { return r.rule != nil }
func (r *NamedRule[S, T]) label() string { return r.name.String() }

type entry interface {
	bound() bool
	label() string
}

// Dictionary holds the named rules of a grammar.
type Dictionary[S Input] struct {
	entries map[any]entry
	order   []entry
}

func NewDictionary[S Input]() *Dictionary[S] {
	return &Dictionary[S]{entries: make(map[any]entry)}
}

func lookup[S Input, T any](d *Dictionary[S], name *Atom[T]) *NamedRule[S, T] {
	if e, ok := d.entries[name]; ok {
		return e.(*NamedRule[S, T])
	}
	r := &NamedRule[S, T]{name: name}
	d.entries[name] = r
	d.order = append(d.order, r)
	return r
}

// Put binds rule to name. Binding a name twice panics.
func Put[S Input, T any](d *Dictionary[S], name *Atom[T], rule Rule[S, T]) *NamedRule[S, T] {
	r := lookup(d, name)
	if r.rule != nil {
		panic("packrat: trying to override rule " + name.String())
	}
	r.rule = rule
	return r
}

// PutTerm binds a term with a scope-only action.
func PutTerm[S Input, T any](d *Dictionary[S], name *Atom[T], term Term[S], action func(scope *Scope) T) *NamedRule[S, T] {
	return Put(d, name, FromTermSimple(term, action))
}

// PutComplex binds a term with an action that sees the whole state.
func PutComplex[S Input, T any](d *Dictionary[S], name *Atom[T], term Term[S], action func(state *State[S]) (T, bool)) *NamedRule[S, T] {
	return Put(d, name, FromTerm(term, action))
}

// Forward returns the entry for name without binding it.
func Forward[S Input, T any](d *Dictionary[S], name *Atom[T]) *NamedRule[S, T] {
	return lookup(d, name)
}

// MustGet returns a bound entry and panics for unknown names.
func MustGet[S Input, T any](d *Dictionary[S], name *Atom[T]) *NamedRule[S, T] {
	e, ok := d.entries[name]
	if !ok {
		panic("packrat: no rule called " + name.String())
	}
	return e.(*NamedRule[S, T])
}

// Named is a term that parses the rule called name and binds its result to
// the same atom.
func Named[S Input, T any](d *Dictionary[S], name *Atom[T]) Term[S] {
	return reference[S, T]{rule: lookup(d, name), store: name}
}

// NamedWithAlias parses the rule called parse and binds its result to store.
func NamedWithAlias[S Input, T any](d *Dictionary[S], parse, store *Atom[T]) Term[S] {
	return reference[S, T]{rule: lookup(d, parse), store: store}
}

// CheckAllBound reports every referenced name that has no rule.
func (d *Dictionary[S]) CheckAllBound() error {
	var unbound []string
	for _, e := range d.order {
		if !e.bound() {
			unbound = append(unbound, e.label())
		}
	}
	if len(unbound) > 0 {
		return fmt.Errorf("packrat: unbound names: [%s]", strings.Join(unbound, ", "))
	}
	return nil
}

type reference[S Input, T any] struct {
	rule  *NamedRule[S, T]
	store *Atom[T]
}

func (t reference[S, T]) Parse(state *State[S], scope *Scope, _ Control) bool {
	v, ok := Parse(state, t.rule)
	if !ok {
		return false
	}
	t.store.Put(scope, v)
	return true
}

package grammar

import (
	"regexp"

	"github.com/dhamidi/nbtkit/packrat"
)

type unquotedStringRule struct {
	min int
	err DelayedError
}

// UnquotedStringRule reads an unquoted string of at least min bytes after
// optional whitespace.
func UnquotedStringRule(min int, err DelayedError) packrat.Rule[*Reader, string] {
	return unquotedStringRule{min: min, err: err}
}

func (r unquotedStringRule) Parse(state *State) (string, bool) {
	state.Input().SkipWhitespace()
	mark := state.Mark()
	s := state.Input().ReadUnquotedString()
	if len(s) < r.min {
		state.Store(mark, r.err)
		return "", false
	}
	return s, true
}

type greedyPredicateRule struct {
	min, max int
	accept   func(c rune) bool
	err      DelayedError
}

// GreedyPredicateRule reads between min and max characters accepted by
// accept, without skipping whitespace. A max below zero means unbounded.
func GreedyPredicateRule(min, max int, accept func(c rune) bool, err DelayedError) packrat.Rule[*Reader, string] {
	return greedyPredicateRule{min: min, max: max, accept: accept, err: err}
}

func (r greedyPredicateRule) Parse(state *State) (string, bool) {
	in := state.Input()
	start := in.Cursor()
	n := 0
	for in.CanRead() && (r.max < 0 || n < r.max) && r.accept(in.Peek()) {
		in.Skip()
		n++
	}
	if n < r.min {
		in.SetCursor(start)
		state.Store(start, r.err)
		return "", false
	}
	return in.Input()[start:in.Cursor()], true
}

type greedyPatternRule struct {
	pattern *regexp.Regexp
	err     DelayedError
}

// GreedyPatternRule reads the match of pattern starting at the cursor.
func GreedyPatternRule(pattern *regexp.Regexp, err DelayedError) packrat.Rule[*Reader, string] {
	return greedyPatternRule{pattern: pattern, err: err}
}

func (r greedyPatternRule) Parse(state *State) (string, bool) {
	in := state.Input()
	loc := r.pattern.FindStringIndex(in.Remaining())
	if loc == nil || loc[0] != 0 {
		state.Store(state.Mark(), r.err)
		return "", false
	}
	s := in.Remaining()[:loc[1]]
	in.SetCursor(in.Cursor() + loc[1])
	return s, true
}

type numberRunRule struct {
	accept     func(c rune) bool
	noValue    DelayedError
	underscore DelayedError
}

// NumberRunRule reads a run of digits accepted by accept. An empty run fails
// with noValue and a run starting or ending in '_' fails with underscore.
func NumberRunRule(accept func(c rune) bool, noValue, underscore DelayedError) packrat.Rule[*Reader, string] {
	return numberRunRule{accept: accept, noValue: noValue, underscore: underscore}
}

func (r numberRunRule) Parse(state *State) (string, bool) {
	in := state.Input()
	in.SkipWhitespace()
	start := in.Cursor()
	s := in.Input()
	end := start
	for end < len(s) && r.accept(rune(s[end])) {
		end++
	}
	switch {
	case end == start:
		state.Store(start, r.noValue)
		return "", false
	case s[start] == '_' || s[end-1] == '_':
		state.Store(start, r.underscore)
		return "", false
	}
	in.SetCursor(end)
	return s[start:end], true
}

// IdentifierRule reads a non-empty identifier after optional whitespace. It
// fails without reporting, leaving the error to the caller.
func IdentifierRule() packrat.Rule[*Reader, Identifier] {
	return packrat.RuleFunc[*Reader, Identifier](func(state *State) (Identifier, bool) {
		state.Input().SkipWhitespace()
		id, err := ReadIdentifierNonEmpty(state.Input())
		return id, err == nil
	})
}

// ResourceSuggestion is a suggestion source of identifiers. Completion
// matches them by namespace and path separately.
type ResourceSuggestion interface {
	packrat.SuggestionSupplier[*Reader]
	PossibleResources() []Identifier
}

// ResourceLookupRule resolves an identifier to a value of type V through
// validate, and suggests the identifiers listed by resources.
type ResourceLookupRule[V any] struct {
	id        *packrat.NamedRule[*Reader, Identifier]
	validate  func(r *Reader, id Identifier) (V, error)
	resources func() []Identifier
	err       DelayedError
}

func NewResourceLookupRule[V any](id *packrat.NamedRule[*Reader, Identifier], resources func() []Identifier, validate func(r *Reader, id Identifier) (V, error)) *ResourceLookupRule[V] {
	return &ResourceLookupRule[V]{id: id, validate: validate, resources: resources, err: ErrInvalidID.Delayed()}
}

func (r *ResourceLookupRule[V]) Parse(state *State) (V, bool) {
	var zero V
	state.Input().SkipWhitespace()
	mark := state.Mark()
	id, ok := packrat.Parse(state, r.id)
	if !ok {
		state.Collector().Store(mark, r, r.err)
		return zero, false
	}
	v, err := r.validate(state.Input(), id)
	if err != nil {
		state.Collector().Store(mark, r, err)
		return zero, false
	}
	return v, true
}

func (r *ResourceLookupRule[V]) PossibleResources() []Identifier { return r.resources() }

func (r *ResourceLookupRule[V]) PossibleValues(*State) []string {
	ids := r.resources()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

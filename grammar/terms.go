package grammar

import (
	"strings"

	"github.com/dhamidi/nbtkit/packrat"
)

// State is a packrat state over text.
type State = packrat.State[*Reader]

// Term is a packrat term over text.
type Term = packrat.Term[*Reader]

type terminalCharacters struct {
	accept      func(c rune) bool
	err         DelayedError
	suggestions packrat.SuggestValues[*Reader]
}

// Character matches c after optional whitespace.
func Character(c rune) Term {
	return TerminalCharacters(func(r rune) bool { return r == c }, c)
}

// Characters matches either of a and b, typically two cases of one letter.
func Characters(a, b rune) Term {
	return TerminalCharacters(func(r rune) bool { return r == a || r == b }, a, b)
}

// TerminalCharacters matches one character accepted by accept. The listed
// chars are offered as completions and named in the error.
func TerminalCharacters(accept func(c rune) bool, chars ...rune) Term {
	names := make([]string, len(chars))
	for i, c := range chars {
		names[i] = string(c)
	}
	return terminalCharacters{
		accept:      accept,
		err:         ErrLiteralIncorrect.Delayed(strings.Join(names, "|")),
		suggestions: names,
	}
}

func (t terminalCharacters) Parse(state *State, _ *packrat.Scope, _ packrat.Control) bool {
	in := state.Input()
	in.SkipWhitespace()
	mark := state.Mark()
	if in.CanRead() && t.accept(in.Read()) {
		return true
	}
	state.Collector().Store(mark, t.suggestions, t.err)
	return false
}

type terminalWord struct {
	value string
	err   DelayedError
}

// Word matches value as a whole unquoted string.
func Word(value string) Term {
	return terminalWord{value: value, err: ErrLiteralIncorrect.Delayed(value)}
}

func (t terminalWord) Parse(state *State, _ *packrat.Scope, _ packrat.Control) bool {
	in := state.Input()
	in.SkipWhitespace()
	mark := state.Mark()
	if in.ReadUnquotedString() != t.value {
		state.Collector().Store(mark, packrat.SuggestValues[*Reader]{t.value}, t.err)
		return false
	}
	return true
}

func (t terminalWord) String() string { return "terminal[" + t.value + "]" }

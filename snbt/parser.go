// Package snbt parses the text notation of tag trees.
//
// A literal is a number with an optional type suffix (1b, 2s, 3, 4l, 1.5f,
// 2.5d, 0x1F, 0b101, 1_000), a quoted or unquoted string, a boolean, a
// compound {key:value,...}, a list [a,b,...], a typed array [B;1,2] [I;...]
// [L;...], or a builtin call such as bool(1) or uuid("...").
package snbt

import (
	"github.com/dhamidi/nbtkit/grammar"
	"github.com/dhamidi/nbtkit/nbt"
)

// Parser parses the notation into values of representation T. A Parser is
// safe for concurrent use; every call runs its own parse state.
type Parser[T any] struct {
	ops     nbt.Ops[T]
	grammar *grammar.Grammar[T]
}

// NewParser returns a parser with the default builtins and a private name
// table.
func NewParser[T any](ops nbt.Ops[T]) *Parser[T] {
	p, err := NewParserWith(ops, DefaultBuiltins[T](), NewRuneNames())
	if err != nil {
		panic(err)
	}
	return p
}

// NewParserWith returns a parser calling builtins and resolving \N{...}
// escapes through names.
func NewParserWith[T any](ops nbt.Ops[T], builtins Builtins[T], names *RuneNames) (*Parser[T], error) {
	g, err := newGrammar(ops, builtins, names)
	if err != nil {
		return nil, err
	}
	return &Parser[T]{ops: ops, grammar: g}, nil
}

func (p *Parser[T]) Ops() nbt.Ops[T] { return p.ops }

// ParseFully parses text, which must hold exactly one literal surrounded by
// optional whitespace.
func (p *Parser[T]) ParseFully(text string) (T, error) {
	return p.ParseFullyReader(grammar.NewReader(text))
}

func (p *Parser[T]) ParseFullyReader(r *grammar.Reader) (T, error) {
	v, err := p.grammar.ParseForCommands(r)
	if err != nil {
		return v, err
	}
	r.SkipWhitespace()
	if r.CanRead() {
		var zero T
		return zero, ErrTrailingData.CreateWithContext(r)
	}
	return v, nil
}

// ParseAsArgument parses one literal at the cursor of r and leaves the rest
// of the input unread.
func (p *Parser[T]) ParseAsArgument(r *grammar.Reader) (T, error) {
	return p.grammar.ParseForCommands(r)
}

// Suggest lists completions for input parsed from cursor.
func (p *Parser[T]) Suggest(input string, cursor int) grammar.Suggestions {
	return p.grammar.ParseForSuggestions(input, cursor)
}

// TagParser parses into native tags.
type TagParser struct {
	*Parser[nbt.Tag]
}

func NewTagParser(values *nbt.SmallValues) *TagParser {
	return &TagParser{Parser: NewParser[nbt.Tag](nbt.NewTagOps(values))}
}

// ParseCompoundFully parses text that must be a single compound.
func (p *TagParser) ParseCompoundFully(text string) (*nbt.Compound, error) {
	r := grammar.NewReader(text)
	t, err := p.ParseFullyReader(r)
	if err != nil {
		return nil, err
	}
	return castCompound(r, t)
}

// ParseCompoundAsArgument parses a compound at the cursor of r.
func (p *TagParser) ParseCompoundAsArgument(r *grammar.Reader) (*nbt.Compound, error) {
	t, err := p.ParseAsArgument(r)
	if err != nil {
		return nil, err
	}
	return castCompound(r, t)
}

func castCompound(r *grammar.Reader, t nbt.Tag) (*nbt.Compound, error) {
	c, ok := t.(*nbt.Compound)
	if !ok {
		return nil, ErrExpectedCompound.CreateWithContext(r)
	}
	return c, nil
}

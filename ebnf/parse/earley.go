// Package parse recognizes token streams with the syntax productions of an
// EBNF grammar using Earley's algorithm.
package parse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/nbtkit/ebnflex"
)

type symbolKind int

const (
	symProduction symbolKind = iota
	symKind
	symLiteral
	// symLexical is a lexical production that must derive a whole token.
	symLexical
)

type symbol struct {
	kind symbolKind
	name string
}

func (s symbol) String() string {
	if s.kind == symLiteral {
		return strconv.Quote(s.name)
	}
	return s.name
}

// rule is one alternative of a production, flattened into symbols. Groups,
// options and repetitions become synthetic productions.
type rule struct {
	lhs string
	rhs []symbol
}

// Item is an Earley item: a rule with a dot position and the chart position
// it started at.
type Item struct {
	Rule   int
	Dot    int
	Origin int
}

// ItemSet is the set of items at one chart position.
type ItemSet struct {
	items []Item
	seen  map[Item]bool
}

func newItemSet() *ItemSet {
	return &ItemSet{seen: make(map[Item]bool)}
}

func (s *ItemSet) Add(item Item) bool {
	if s.seen[item] {
		return false
	}
	s.seen[item] = true
	s.items = append(s.items, item)
	return true
}

func (s *ItemSet) Items() []Item { return s.items }

// EarleyParser holds the flattened syntax of a grammar and may be reused
// for any number of inputs.
type EarleyParser struct {
	lexer     *ebnflex.Lexer
	rules     []rule
	byLHS     map[string][]int
	nullable  map[string]bool
	skipKinds map[string]bool
	synthetic int
}

// NewEarleyParser flattens the syntax productions of the lexer's grammar.
// Token kinds of the lexer are terminals; a lexical production used by the
// syntax matches a token whose whole text it derives.
func NewEarleyParser(lexer *ebnflex.Lexer) (*EarleyParser, error) {
	p := &EarleyParser{
		lexer:     lexer,
		byLHS:     make(map[string][]int),
		nullable:  make(map[string]bool),
		skipKinds: map[string]bool{"WhiteSpace": true, "Comment": true},
	}
	g := lexer.Grammar()
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if ebnflex.IsLexical(name) || lexer.IsKind(name) || g[name].Expr == nil {
			continue
		}
		if err := p.addProduction(name, g[name].Expr); err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
	}
	p.computeNullable()
	return p, nil
}

// SetSkipKinds sets which token kinds to skip.
func (p *EarleyParser) SetSkipKinds(kinds ...string) {
	p.skipKinds = make(map[string]bool)
	for _, k := range kinds {
		p.skipKinds[k] = true
	}
}

func (p *EarleyParser) addRule(lhs string, rhs []symbol) {
	p.byLHS[lhs] = append(p.byLHS[lhs], len(p.rules))
	p.rules = append(p.rules, rule{lhs: lhs, rhs: rhs})
}

func (p *EarleyParser) addProduction(name string, expr ebnf.Expression) error {
	for _, alt := range alternatives(expr) {
		rhs, err := p.symbols(name, alt)
		if err != nil {
			return err
		}
		p.addRule(name, rhs)
	}
	return nil
}

func alternatives(expr ebnf.Expression) []ebnf.Expression {
	if alt, ok := expr.(ebnf.Alternative); ok {
		return alt
	}
	return []ebnf.Expression{expr}
}

// newSynthetic names a production standing for part of ctx.
func (p *EarleyParser) newSynthetic(ctx string) string {
	p.synthetic++
	return fmt.Sprintf("%s#%d", ctx, p.synthetic)
}

func (p *EarleyParser) symbols(ctx string, expr ebnf.Expression) ([]symbol, error) {
	switch e := expr.(type) {
	case nil:
		return nil, nil
	case ebnf.Sequence:
		var out []symbol
		for _, x := range e {
			syms, err := p.symbols(ctx, x)
			if err != nil {
				return nil, err
			}
			out = append(out, syms...)
		}
		return out, nil
	case *ebnf.Token:
		return []symbol{{kind: symLiteral, name: e.String}}, nil
	case *ebnf.Name:
		switch {
		case p.lexer.IsKind(e.String):
			return []symbol{{kind: symKind, name: e.String}}, nil
		case ebnflex.IsLexical(e.String):
			return []symbol{{kind: symLexical, name: e.String}}, nil
		}
		if _, ok := p.lexer.Grammar()[e.String]; !ok {
			return nil, fmt.Errorf("undefined production %s", e.String)
		}
		return []symbol{{kind: symProduction, name: e.String}}, nil
	case *ebnf.Group:
		return p.symbols(ctx, e.Body)
	case ebnf.Alternative:
		name := p.newSynthetic(ctx)
		if err := p.addProduction(name, e); err != nil {
			return nil, err
		}
		return []symbol{{kind: symProduction, name: name}}, nil
	case *ebnf.Option:
		name := p.newSynthetic(ctx)
		p.addRule(name, nil)
		if err := p.addProduction(name, e.Body); err != nil {
			return nil, err
		}
		return []symbol{{kind: symProduction, name: name}}, nil
	case *ebnf.Repetition:
		name := p.newSynthetic(ctx)
		self := symbol{kind: symProduction, name: name}
		p.addRule(name, nil)
		for _, alt := range alternatives(e.Body) {
			rhs, err := p.symbols(name, alt)
			if err != nil {
				return nil, err
			}
			p.addRule(name, append(rhs, self))
		}
		return []symbol{self}, nil
	case *ebnf.Range:
		return nil, fmt.Errorf("character range %s … %s outside a lexical production", e.Begin.String, e.End.String)
	}
	return nil, fmt.Errorf("unsupported expression %T", expr)
}

func (p *EarleyParser) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, r := range p.rules {
			if p.nullable[r.lhs] {
				continue
			}
			if !slices.ContainsFunc(r.rhs, func(s symbol) bool {
				return s.kind != symProduction || !p.nullable[s.name]
			}) {
				p.nullable[r.lhs] = true
				changed = true
			}
		}
	}
}

// Error reports the first token no rule could consume. Found is empty at
// the end of input.
type Error struct {
	Position ebnflex.Position
	Found    string
	Expected []string
}

func (e *Error) Error() string {
	found := "end of input"
	if e.Found != "" {
		found = strconv.Quote(e.Found)
	}
	msg := fmt.Sprintf("parse error at %s: unexpected %s", e.Position, found)
	if len(e.Expected) > 0 {
		msg += ", expected " + strings.Join(e.Expected, " or ")
	}
	return msg
}

// Parse recognizes tokens as the start production. Skipped kinds and the
// final EOF are ignored; ERROR tokens fail the parse.
func (p *EarleyParser) Parse(tokens []ebnflex.Token, start string) error {
	if len(p.byLHS[start]) == 0 {
		return fmt.Errorf("production %q not found in grammar", start)
	}

	var filtered []ebnflex.Token
	end := ebnflex.Position{Line: 1, Column: 1}
	for _, tok := range tokens {
		switch {
		case tok.Kind == ebnflex.KindEOF:
			end = tok.Position
		case tok.Kind == ebnflex.KindError:
			return &Error{Position: tok.Position, Found: tok.Literal}
		case !p.skipKinds[tok.Kind]:
			filtered = append(filtered, tok)
		}
	}

	n := len(filtered)
	chart := make([]*ItemSet, n+1)
	for i := range chart {
		chart[i] = newItemSet()
	}
	for _, ri := range p.byLHS[start] {
		chart[0].Add(Item{Rule: ri, Origin: 0})
	}

	for i := 0; i <= n; i++ {
		// chart[i] grows while it is processed.
		for j := 0; j < len(chart[i].items); j++ {
			item := chart[i].items[j]
			r := p.rules[item.Rule]
			if item.Dot == len(r.rhs) {
				p.complete(chart, i, item)
				continue
			}
			next := r.rhs[item.Dot]
			if next.kind == symProduction {
				for _, ri := range p.byLHS[next.name] {
					chart[i].Add(Item{Rule: ri, Origin: i})
				}
				if p.nullable[next.name] {
					chart[i].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
				}
			} else if i < n && p.matches(next, filtered[i]) {
				chart[i+1].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
			}
		}
	}

	for _, item := range chart[n].items {
		r := p.rules[item.Rule]
		if r.lhs == start && item.Origin == 0 && item.Dot == len(r.rhs) {
			return nil
		}
	}

	furthest := n
	for furthest > 0 && len(chart[furthest].items) == 0 {
		furthest--
	}
	err := &Error{Position: end, Expected: p.expected(chart[furthest])}
	if furthest < n {
		err.Position = filtered[furthest].Position
		err.Found = filtered[furthest].Literal
	}
	return err
}

func (p *EarleyParser) complete(chart []*ItemSet, pos int, done Item) {
	lhs := p.rules[done.Rule].lhs
	for _, item := range chart[done.Origin].items {
		r := p.rules[item.Rule]
		if item.Dot < len(r.rhs) && r.rhs[item.Dot].kind == symProduction && r.rhs[item.Dot].name == lhs {
			chart[pos].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
		}
	}
}

func (p *EarleyParser) matches(s symbol, tok ebnflex.Token) bool {
	switch s.kind {
	case symKind:
		return tok.Kind == s.name
	case symLiteral:
		return tok.Literal == s.name
	case symLexical:
		return p.lexer.Matches(s.name, tok.Literal)
	}
	return false
}

// expected lists the terminals the items of set are waiting for.
func (p *EarleyParser) expected(set *ItemSet) []string {
	var out []string
	for _, item := range set.items {
		r := p.rules[item.Rule]
		if item.Dot < len(r.rhs) && r.rhs[item.Dot].kind != symProduction {
			out = append(out, r.rhs[item.Dot].String())
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseString tokenizes input with the parser's lexer and recognizes it as
// the start production.
func (p *EarleyParser) ParseString(filename, input, start string) error {
	return p.Parse(p.lexer.Tokenize(filename, input), start)
}

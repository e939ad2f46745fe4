// Package ebnflex splits text into tokens described by an EBNF grammar.
package ebnflex

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Token kinds not named after a production.
const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

// Position represents a location in the input. Columns count runes.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Lexer tokenizes input with the productions of a grammar. The token kinds
// are the productions named at construction. Literal strings used by the
// other syntax productions, such as punctuation, become tokens whose kind is
// the literal itself. A Lexer holds no input state and may be shared.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	literals []string
}

// New returns a lexer producing tokens of the given kinds. On equal match
// lengths the earlier kind wins, and kinds win over literals.
func New(grammar ebnf.Grammar, kinds ...string) (*Lexer, error) {
	for _, k := range kinds {
		if p, ok := grammar[k]; !ok || p.Expr == nil {
			return nil, fmt.Errorf("token production %q not found", k)
		}
	}
	seen := make(map[string]bool)
	var literals []string
	for name, prod := range grammar {
		if IsLexical(name) || slices.Contains(kinds, name) {
			continue
		}
		walkTokens(prod.Expr, func(t *ebnf.Token) {
			if t.String != "" && !seen[t.String] {
				seen[t.String] = true
				literals = append(literals, t.String)
			}
		})
	}
	slices.Sort(literals)
	return &Lexer{grammar: grammar, kinds: kinds, literals: literals}, nil
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ParseGrammar(filename, f)
}

func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// Literals returns the literal token strings taken from syntax productions.
func (l *Lexer) Literals() []string { return slices.Clone(l.literals) }

// Tokenize reads all tokens of input. A rune no production matches becomes
// an ERROR token; the result always ends with an EOF token.
func (l *Lexer) Tokenize(filename, input string) []Token {
	s := l.newScanner(filename, input)
	var tokens []Token
	for {
		tok := s.next()
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens
		}
	}
}

// Matches reports whether the production name derives all of text.
func (l *Lexer) Matches(name, text string) bool {
	return l.newScanner("", text).matchName(name, 0) == len(text)
}

// IsKind reports whether name is one of the token kinds of l.
func (l *Lexer) IsKind(name string) bool { return slices.Contains(l.kinds, name) }

func (l *Lexer) Grammar() ebnf.Grammar { return l.grammar }

func (l *Lexer) newScanner(filename, input string) *scanner {
	return &scanner{
		Lexer:    l,
		input:    input,
		pos:      Position{Filename: filename, Line: 1, Column: 1},
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// Errors returns the ERROR tokens among tokens.
func Errors(tokens []Token) []Token {
	var out []Token
	for _, t := range tokens {
		if t.Kind == KindError {
			out = append(out, t)
		}
	}
	return out
}

// Without drops tokens of the given kinds, typically whitespace.
func Without(tokens []Token, kinds ...string) []Token {
	return slices.DeleteFunc(slices.Clone(tokens), func(t Token) bool {
		return slices.Contains(kinds, t.Kind)
	})
}

// IsLexical follows golang.org/x/exp/ebnf: lowercase names are lexical.
func IsLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

func walkTokens(expr ebnf.Expression, visit func(*ebnf.Token)) {
	switch e := expr.(type) {
	case *ebnf.Token:
		visit(e)
	case ebnf.Sequence:
		for _, x := range e {
			walkTokens(x, visit)
		}
	case ebnf.Alternative:
		for _, x := range e {
			walkTokens(x, visit)
		}
	case *ebnf.Group:
		walkTokens(e.Body, visit)
	case *ebnf.Option:
		walkTokens(e.Body, visit)
	case *ebnf.Repetition:
		walkTokens(e.Body, visit)
	}
}

// noMatch is distinct from an empty match, which optional and repeated
// expressions produce.
const noMatch = -1

type memoKey struct {
	name   string
	offset int
}

type scanner struct {
	*Lexer
	input    string
	pos      Position
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func (s *scanner) next() Token {
	start := s.pos
	if start.Offset >= len(s.input) {
		return Token{Kind: KindEOF, Position: start}
	}
	kind, n := "", 0
	for _, k := range s.kinds {
		if m := s.matchName(k, start.Offset); m > n {
			kind, n = k, m
		}
	}
	rest := s.input[start.Offset:]
	for _, lit := range s.literals {
		if len(lit) > n && strings.HasPrefix(rest, lit) {
			kind, n = lit, len(lit)
		}
	}
	if n == 0 {
		_, n = utf8.DecodeRuneInString(rest)
		kind = KindError
	}
	text := rest[:n]
	s.advance(text)
	return Token{Kind: kind, Literal: text, Position: start}
}

func (s *scanner) advance(text string) {
	for _, r := range text {
		if r == '\n' {
			s.pos.Line++
			s.pos.Column = 1
		} else {
			s.pos.Column++
		}
	}
	s.pos.Offset += len(text)
}

// match returns the length of the longest text expr derives at offset, or
// noMatch. Sequences and repetitions are greedy and do not backtrack.
func (s *scanner) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0
	case *ebnf.Token:
		if strings.HasPrefix(s.input[offset:], e.String) {
			return len(e.String)
		}
		return noMatch
	case *ebnf.Range:
		r, size := utf8.DecodeRuneInString(s.input[offset:])
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		if size > 0 && r >= lo && r <= hi {
			return size
		}
		return noMatch
	case ebnf.Sequence:
		total := 0
		for _, x := range e {
			n := s.match(x, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total
	case ebnf.Alternative:
		best := noMatch
		for _, x := range e {
			if n := s.match(x, offset); n > best {
				best = n
			}
		}
		return best
	case *ebnf.Repetition:
		total := 0
		for {
			n := s.match(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}
	case *ebnf.Option:
		return max(s.match(e.Body, offset), 0)
	case *ebnf.Group:
		return s.match(e.Body, offset)
	case *ebnf.Name:
		return s.matchName(e.String, offset)
	}
	return noMatch
}

// matchName memoizes per production and offset. A production reentered at
// the same offset is left recursive and fails.
func (s *scanner) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := s.memo[key]; ok {
		return n
	}
	if s.visiting[key] {
		return noMatch
	}
	prod, ok := s.grammar[name]
	if !ok {
		s.memo[key] = noMatch
		return noMatch
	}
	s.visiting[key] = true
	n := s.match(prod.Expr, offset)
	delete(s.visiting, key)
	s.memo[key] = n
	return n
}

package ebnflex

import (
	"slices"
	"strings"
	"testing"
)

const testGrammar = `
Expr   = Term { ( "+" | "-" ) Term } .
Term   = Number | Ident | "(" Expr ")" .
Number = digit { digit } [ "." digit { digit } ] .
Ident  = letter { letter | digit } .
Space  = ( " " | "\n" ) { " " | "\n" } .
digit  = "0" … "9" .
letter = "a" … "z" | "ä" .
`

func newTestLexer(t *testing.T) *Lexer {
	t.Helper()
	g, err := ParseGrammar("test.ebnf", strings.NewReader(testGrammar))
	if err != nil {
		t.Fatalf("ParseGrammar() error = %v", err)
	}
	l, err := New(g, "Space", "Number", "Ident")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func kinds(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

func TestLiterals(t *testing.T) {
	l := newTestLexer(t)
	want := []string{"(", ")", "+", "-"}
	if got := l.Literals(); !slices.Equal(got, want) {
		t.Errorf("Literals() = %q, want %q", got, want)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"1+2", []string{"Number", "+", "Number", "EOF"}},
		{"12.5 - x1", []string{"Number", "Space", "-", "Space", "Ident", "EOF"}},
		{"(ä)", []string{"(", "Ident", ")", "EOF"}},
		{"1.", []string{"Number", "ERROR", "EOF"}},
		{"", []string{"EOF"}},
		{"#", []string{"ERROR", "EOF"}},
	}

	l := newTestLexer(t)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := kinds(l.Tokenize("", tt.input))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	l := newTestLexer(t)
	tokens := Without(l.Tokenize("in", "ab\n ä1"), "Space", KindEOF)
	if len(tokens) != 2 {
		t.Fatalf("Tokenize() = %v, want 2 tokens", tokens)
	}
	if got := tokens[1].Position.String(); got != "in:2:2" {
		t.Errorf("Position = %q, want %q", got, "in:2:2")
	}
	if got := tokens[1].Literal; got != "ä1" {
		t.Errorf("Literal = %q, want %q", got, "ä1")
	}
}

func TestErrors(t *testing.T) {
	l := newTestLexer(t)
	errs := Errors(l.Tokenize("", "a#b$"))
	if len(errs) != 2 || errs[0].Literal != "#" || errs[1].Literal != "$" {
		t.Errorf("Errors() = %v, want # and $", errs)
	}
}

func TestNewUnknownKind(t *testing.T) {
	g, err := ParseGrammar("test.ebnf", strings.NewReader(testGrammar))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(g, "Missing"); err == nil {
		t.Error("New() error = nil, want error for a missing production")
	}
}

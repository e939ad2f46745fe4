package snbt

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/nbtkit/ebnf/parse"
	"github.com/dhamidi/nbtkit/ebnflex"
	"github.com/dhamidi/nbtkit/grammar"
	"github.com/dhamidi/nbtkit/nbt"
)

var testParser = NewTagParser(nil)

func compound(kv ...any) *nbt.Compound {
	c := nbt.NewCompound()
	for i := 0; i < len(kv); i += 2 {
		c.Put(kv[i].(string), kv[i+1].(nbt.Tag))
	}
	return c
}

func TestParseFully(t *testing.T) {
	tests := []struct {
		input string
		want  nbt.Tag
	}{
		{`{a:1b,b:[1,2,3],c:"hi"}`, compound(
			"a", nbt.Byte(1),
			"b", nbt.NewList(nbt.Int(1), nbt.Int(2), nbt.Int(3)),
			"c", nbt.String("hi"),
		)},
		{`[B;1,2,3]`, nbt.NewByteArray(1, 2, 3)},
		{`[I;1b,2s,3]`, nbt.NewIntArray(1, 2, 3)},
		{`[L;1,2i,3L]`, nbt.NewLongArray(1, 2, 3)},
		{`[B;]`, nbt.NewByteArray()},
		{`uuid("00000000-0000-0000-0000-000000000001")`, nbt.NewIntArray(0, 0, 0, 1)},
		{`1_000`, nbt.Int(1000)},
		{`0x1F`, nbt.Int(31)},
		{`0b101`, nbt.Int(5)},
		{`0`, nbt.Int(0)},
		{`0b`, nbt.Byte(0)},
		{`-7s`, nbt.Short(-7)},
		{`9000000000L`, nbt.Long(9000000000)},
		{`255ub`, nbt.Byte(-1)},
		{`0xFFFFFFFF`, nbt.Int(-1)},
		{`0x7Fsb`, nbt.Byte(127)},
		{`1.5f`, nbt.Float(1.5)},
		{`2.5`, nbt.Double(2.5)},
		{`.5d`, nbt.Double(0.5)},
		{`1e3`, nbt.Double(1000)},
		{`-2.E1`, nbt.Double(-20)},
		{`3f`, nbt.Float(3)},
		{`true`, nbt.Byte(1)},
		{`FALSE`, nbt.Byte(0)},
		{`bool(0)`, nbt.Byte(0)},
		{`bool(2.5)`, nbt.Byte(1)},
		{`hello_world`, nbt.String("hello_world")},
		{`"a\"b"`, nbt.String(`a"b`)},
		{`'say "hi"'`, nbt.String(`say "hi"`)},
		{`"it's"`, nbt.String("it's")},
		{`""`, nbt.String("")},
		{`"\x41\s\t"`, nbt.String("A \t")},
		{`"é"`, nbt.String("é")},
		{`"😀"`, nbt.String("\U0001F600")},
		{`"\U0001F600"`, nbt.String("\U0001F600")},
		{`"\ud83d"`, nbt.String("\uFFFD")},
		{`"\N{latin small letter e with acute}"`, nbt.String("é")},
		{` { a : 1 , } `, compound("a", nbt.Int(1))},
		{`{}`, nbt.NewCompound()},
		{`[]`, nbt.NewList()},
		{`[1,2,]`, nbt.NewList(nbt.Int(1), nbt.Int(2))},
		{`{a:1,a:2}`, compound("a", nbt.Int(2))},
		{`{"quoted key":[{}]}`, compound("quoted key", nbt.NewList(nbt.NewCompound()))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := testParser.ParseFully(tt.input)
			if err != nil {
				t.Fatalf("ParseFully(%q) error = %v", tt.input, err)
			}
			if !nbt.Equal(got, tt.want) {
				t.Errorf("ParseFully(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFullyUUID(t *testing.T) {
	got, err := testParser.ParseFully(`uuid("f81d4fae-7dec-11d0-a765-00a0c91e6bf6")`)
	if err != nil {
		t.Fatal(err)
	}
	want := nbt.NewIntArray(-132296786, 2112623056, -1486552928, -920753162)
	if !nbt.Equal(got, want) {
		t.Errorf("uuid() = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		cursor  int
	}{
		{`300b`, `Failed to parse number: "300": value out of range`, 4},
		{`256ub`, `Failed to parse number: "256": value out of range`, 5},
		{`-1ub`, "Expected non-negative number", 4},
		{`1e400f`, "Unexpected trailing data", 1},
		{`foo(1)`, "No such operation: foo/1", 6},
		{`uuid("nope")`, "Expected string representing a valid UUID", 12},
		{`bool("x")`, "Expected a number or a boolean", 9},
		{`{"":1b}`, "Key can't be empty", 6},
		{`[B;1s]`, "Invalid array element type", 6},
		{`"\UFFFFFFFF"`, "Invalid Unicode character value: U+FFFFFFFF", 11},
		{`"\N{NOT A REAL NAME}"`, "Invalid Unicode character name", 20},
		{`1 2`, "Unexpected trailing data", 2},
		{`{a:}`, "", 3},
		{`0123`, "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := testParser.ParseFully(tt.input)
			var syntax *grammar.SyntaxError
			if !errors.As(err, &syntax) {
				t.Fatalf("ParseFully(%q) error = %v, want *grammar.SyntaxError", tt.input, err)
			}
			if tt.message != "" && syntax.Message != tt.message {
				t.Errorf("Message = %q, want %q", syntax.Message, tt.message)
			}
			if syntax.Cursor != tt.cursor {
				t.Errorf("Cursor = %d, want %d", syntax.Cursor, tt.cursor)
			}
		})
	}
}

func TestParseCompound(t *testing.T) {
	c, err := testParser.ParseCompoundFully(`{x:1.5f}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.FloatOr("x", 0); got != 1.5 {
		t.Errorf("FloatOr(x) = %v, want 1.5", got)
	}

	_, err = testParser.ParseCompoundFully(`[1]`)
	var syntax *grammar.SyntaxError
	if !errors.As(err, &syntax) || syntax.Message != "Expected compound tag" {
		t.Errorf("ParseCompoundFully([1]) error = %v, want expected compound", err)
	}
}

func TestParseAsArgument(t *testing.T) {
	r := grammar.NewReader(`{a:1} rest`)
	c, err := testParser.ParseCompoundAsArgument(r)
	if err != nil {
		t.Fatal(err)
	}
	if c.IntOr("a", 0) != 1 {
		t.Errorf("ParseCompoundAsArgument() = %v, want {a:1}", c)
	}
	if got := r.Remaining(); got != " rest" {
		t.Errorf("Remaining() = %q, want %q", got, " rest")
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		input string
		start int
		want  []string
	}{
		{"[B", 2, []string{"(", ",", ";", "]"}},
		{"+x", 2, []string{"(", "bool", "false", "true", "uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := testParser.Suggest(tt.input, 0)
			if got.Start != tt.start || !slices.Equal(got.Values, tt.want) {
				t.Errorf("Suggest(%q) = %v, want {%d %v}", tt.input, got, tt.start, tt.want)
			}
		})
	}
}

func TestCustomBuiltins(t *testing.T) {
	builtins := DefaultBuiltins[nbt.Tag]()
	builtins[BuiltinKey{ID: "pair", Arity: 2}] = func(ops nbt.Ops[nbt.Tag], args []nbt.Tag, _ *grammar.State) (nbt.Tag, bool) {
		return ops.CreateList(args), true
	}
	p, err := NewParserWith[nbt.Tag](nbt.NewTagOps(nil), builtins, NewRuneNames())
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.ParseFully(`pair(1, 2)`)
	if err != nil {
		t.Fatal(err)
	}
	if want := nbt.NewList(nbt.Int(1), nbt.Int(2)); !nbt.Equal(got, want) {
		t.Errorf("pair(1, 2) = %v, want %v", got, want)
	}
}

func TestRuneNames(t *testing.T) {
	tests := []struct {
		name string
		want rune
		ok   bool
	}{
		{"LATIN SMALL LETTER A", 'a', true},
		{"latin small letter a", 'a', true},
		{"SNOWMAN", '☃', true},
		{"CJK UNIFIED IDEOGRAPH-4E00", 0x4E00, true},
		{"CJK UNIFIED IDEOGRAPH-0041", 0, false},
		{"NOT A REAL NAME", 0, false},
	}

	names := NewRuneNames()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := names.Lookup(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Lookup(%q) = %U, %v, want %U, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestUUIDToInts(t *testing.T) {
	id := uuid.MustParse("00000001-0000-0002-8000-0000ffffffff")
	want := []int32{1, 2, -2147483648, -1}
	if got := UUIDToInts(id); !slices.Equal(got, want) {
		t.Errorf("UUIDToInts() = %v, want %v", got, want)
	}
}

func TestEBNF(t *testing.T) {
	g, err := ebnf.Parse("snbt.ebnf", strings.NewReader(EBNF))
	if err != nil {
		t.Fatalf("ebnf.Parse() error = %v", err)
	}
	if err := ebnf.Verify(g, StartProduction); err != nil {
		t.Fatalf("ebnf.Verify() error = %v", err)
	}

	lexer, err := ebnflex.New(g, TokenKinds...)
	if err != nil {
		t.Fatal(err)
	}
	input := `{a:1b, "b":[B;1,2], c:'x\'y', d:-1.5e3f}`
	var kinds []string
	for _, tok := range ebnflex.Without(lexer.Tokenize("", input), "WhiteSpace") {
		kinds = append(kinds, tok.Kind)
	}
	want := []string{
		"{", "Word", ":", "Number", ",", "String", ":", "[", "Word", ";", "Number", ",", "Number", "]", ",",
		"Word", ":", "String", ",", "Word", ":", "Number", "}", "EOF",
	}
	if !slices.Equal(kinds, want) {
		t.Errorf("Tokenize() kinds = %q, want %q", kinds, want)
	}
}

// Every input the parser accepts is also derived by the published grammar.
func TestEBNFCoversAcceptedInputs(t *testing.T) {
	g, err := ebnf.Parse("snbt.ebnf", strings.NewReader(EBNF))
	if err != nil {
		t.Fatal(err)
	}
	lexer, err := ebnflex.New(g, TokenKinds...)
	if err != nil {
		t.Fatal(err)
	}
	syntax, err := parse.NewEarleyParser(lexer)
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{
		`{a:1b,b:[1,2,3],c:"hi"}`,
		`[L;1,2i,3L]`,
		`0x1F`,
		`1_000`,
		`"é\N{SNOWMAN}"`,
		`uuid("00000000-0000-0000-0000-000000000001")`,
	}
	for _, input := range inputs {
		if _, err := testParser.ParseFully(input); err != nil {
			t.Errorf("ParseFully(%q) error = %v", input, err)
		}
		if errs := ebnflex.Errors(lexer.Tokenize("", input)); len(errs) > 0 {
			t.Errorf("Tokenize(%q) errors = %v", input, errs)
		}
		if err := syntax.ParseString("", input, StartProduction); err != nil {
			t.Errorf("EarleyParser.ParseString(%q) error = %v", input, err)
		}
	}
}

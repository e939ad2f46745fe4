package snbt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/nbtkit/grammar"
	"github.com/dhamidi/nbtkit/nbt"
	"github.com/dhamidi/nbtkit/packrat"
)

type reader = *grammar.Reader

func seq(terms ...grammar.Term) grammar.Term { return packrat.Sequence(terms...) }
func alt(terms ...grammar.Term) grammar.Term { return packrat.Alternative(terms...) }
func opt(term grammar.Term) grammar.Term     { return packrat.Optional(term) }
func cut() grammar.Term                      { return packrat.Cut[reader]() }
func char(c rune) grammar.Term               { return grammar.Character(c) }
func chars(a, b rune) grammar.Term           { return grammar.Characters(a, b) }

func marker[T any](name *packrat.Atom[T], value T) grammar.Term {
	return packrat.Marker[reader](name, value)
}

var unicodeName = regexp.MustCompile(`[-a-zA-Z0-9 ]+`)

var numberLookahead = grammar.TerminalCharacters(canStartNumber)

// newGrammar builds the rule set of the text notation, producing values
// through ops.
func newGrammar[T any](ops nbt.Ops[T], builtins Builtins[T], names *RuneNames) (*grammar.Grammar[T], error) {
	d := packrat.NewDictionary[reader]()

	signAtom := packrat.NewAtom[sign]("sign")
	packrat.PutTerm(d, signAtom, alt(
		seq(char('+'), marker(signAtom, plus)),
		seq(char('-'), marker(signAtom, minus)),
	), signAtom.MustGet)

	intSuffix := packrat.NewAtom[integerSuffix]("integer_suffix")
	suffixes := func(s signedness) grammar.Term {
		return alt(
			seq(chars('b', 'B'), marker(intSuffix, integerSuffix{s, suffixByte})),
			seq(chars('s', 'S'), marker(intSuffix, integerSuffix{s, suffixShort})),
			seq(chars('i', 'I'), marker(intSuffix, integerSuffix{s, suffixInt})),
			seq(chars('l', 'L'), marker(intSuffix, integerSuffix{s, suffixLong})),
		)
	}
	packrat.PutTerm(d, intSuffix, alt(
		seq(chars('u', 'U'), suffixes(unsigned)),
		seq(chars('s', 'S'), suffixes(signed)),
		suffixes(signednessDefault),
	), intSuffix.MustGet)

	binary := packrat.NewAtom[string]("binary_numeral")
	packrat.Put(d, binary, grammar.NumberRunRule(isBinaryDigit, expectedBinary, underscoreNotAllowed))
	decimal := packrat.NewAtom[string]("decimal_numeral")
	packrat.Put(d, decimal, grammar.NumberRunRule(isDecimalDigit, expectedDecimal, underscoreNotAllowed))
	hex := packrat.NewAtom[string]("hex_numeral")
	packrat.Put(d, hex, grammar.NumberRunRule(isHexDigit, expectedHex, underscoreNotAllowed))

	intLiteral := packrat.NewAtom[integerLiteral]("integer_literal")
	intLiteralRule := packrat.PutTerm(d, intLiteral, seq(
		opt(packrat.Named(d, signAtom)),
		alt(
			seq(char('0'), cut(), alt(
				seq(chars('x', 'X'), cut(), packrat.Named(d, hex)),
				seq(chars('b', 'B'), packrat.Named(d, binary)),
				seq(packrat.Named(d, decimal), cut(), packrat.Fail[reader](leadingZero)),
				marker(decimal, "0"),
			)),
			packrat.Named(d, decimal),
		),
		opt(packrat.Named(d, intSuffix)),
	), func(s *packrat.Scope) integerLiteral {
		lit := integerLiteral{sign: signAtom.GetOr(s, plus), suffix: intSuffix.GetOr(s, integerSuffix{})}
		if v, ok := decimal.Get(s); ok {
			lit.base, lit.digits = baseDecimal, v
		} else if v, ok := hex.Get(s); ok {
			lit.base, lit.digits = baseHex, v
		} else {
			lit.base, lit.digits = baseBinary, binary.MustGet(s)
		}
		return lit
	})

	floatSuffix := packrat.NewAtom[typeSuffix]("float_type_suffix")
	packrat.PutTerm(d, floatSuffix, alt(
		seq(chars('f', 'F'), marker(floatSuffix, suffixFloat)),
		seq(chars('d', 'D'), marker(floatSuffix, suffixDouble)),
	), floatSuffix.MustGet)

	exponent := packrat.NewAtom[*signedDigits]("float_exponent_part")
	packrat.PutTerm(d, exponent, seq(
		chars('e', 'E'),
		opt(packrat.Named(d, signAtom)),
		packrat.Named(d, decimal),
	), func(s *packrat.Scope) *signedDigits {
		return &signedDigits{sign: signAtom.GetOr(s, plus), digits: decimal.MustGet(s)}
	})

	whole := packrat.NewAtom[string]("float_whole_part")
	fraction := packrat.NewAtom[string]("float_fraction_part")
	floatLiteral := packrat.NewAtom[T]("float_literal")
	packrat.PutComplex(d, floatLiteral, seq(
		opt(packrat.Named(d, signAtom)),
		alt(
			seq(
				packrat.NamedWithAlias(d, decimal, whole),
				char('.'),
				cut(),
				opt(packrat.NamedWithAlias(d, decimal, fraction)),
				opt(packrat.Named(d, exponent)),
				opt(packrat.Named(d, floatSuffix)),
			),
			seq(
				char('.'),
				cut(),
				packrat.NamedWithAlias(d, decimal, fraction),
				opt(packrat.Named(d, exponent)),
				opt(packrat.Named(d, floatSuffix)),
			),
			seq(
				packrat.NamedWithAlias(d, decimal, whole),
				packrat.Named(d, exponent),
				cut(),
				opt(packrat.Named(d, floatSuffix)),
			),
			seq(
				packrat.NamedWithAlias(d, decimal, whole),
				opt(packrat.Named(d, exponent)),
				packrat.Named(d, floatSuffix),
			),
		),
	), func(state *grammar.State) (T, bool) {
		s := state.Scope()
		w, _ := whole.Get(s)
		f, hasFraction := fraction.Get(s)
		e, _ := exponent.Get(s)
		suffix, _ := floatSuffix.Get(s)
		return createFloat(ops, state, signAtom.GetOr(s, plus), w, f, hasFraction, e, suffix)
	})

	hex2 := packrat.NewAtom[string]("string_hex_2")
	packrat.Put(d, hex2, hexEscape(2))
	hex4 := packrat.NewAtom[string]("string_hex_4")
	packrat.Put(d, hex4, hexEscape(4))
	hex8 := packrat.NewAtom[string]("string_hex_8")
	packrat.Put(d, hex8, hexEscape(8))
	runeName := packrat.NewAtom[string]("string_unicode_name")
	packrat.Put(d, runeName, grammar.GreedyPatternRule(unicodeName, invalidCharacterName))

	escape := packrat.NewAtom[string]("string_escape_sequence")
	packrat.PutComplex(d, escape, alt(
		seq(char('b'), marker(escape, "\b")),
		seq(char('s'), marker(escape, " ")),
		seq(char('t'), marker(escape, "\t")),
		seq(char('n'), marker(escape, "\n")),
		seq(char('f'), marker(escape, "\f")),
		seq(char('r'), marker(escape, "\r")),
		seq(char('\\'), marker(escape, "\\")),
		seq(char('\''), marker(escape, "'")),
		seq(char('"'), marker(escape, "\"")),
		seq(char('x'), packrat.Named(d, hex2)),
		seq(char('u'), packrat.Named(d, hex4)),
		seq(char('U'), packrat.Named(d, hex8)),
		seq(char('N'), char('{'), packrat.Named(d, runeName), char('}')),
	), func(state *grammar.State) (string, bool) {
		s := state.Scope()
		if v, ok := escape.Get(s); ok {
			return v, true
		}
		if digits, ok := packrat.GetAny(s, hex2, hex4, hex8); ok {
			v, _ := strconv.ParseUint(digits, 16, 32)
			r := rune(v)
			switch {
			case v > utf8.MaxRune:
				state.Store(state.Mark(), ErrInvalidCodepoint.Delayed(fmt.Sprintf("U+%08X", v)))
				return "", false
			case r >= 0xD800 && r < 0xE000:
				return encodeSurrogate(r), true
			}
			return string(r), true
		}
		r, ok := names.Lookup(runeName.MustGet(s))
		if !ok {
			state.Store(state.Mark(), invalidCharacterName)
			return "", false
		}
		return string(r), true
	})

	plain := packrat.NewAtom[string]("string_plain_contents")
	packrat.Put(d, plain, grammar.GreedyPredicateRule(1, -1, isPlainStringChar, invalidStringContent))

	chunks := packrat.NewAtom[[]string]("string_chunks")
	contents := packrat.NewAtom[string]("string_contents")
	quotedContents := func(name string, other rune) *packrat.Atom[string] {
		chunk := packrat.NewAtom[string](name + "_quoted_string_chunk")
		chunkRule := packrat.PutTerm(d, chunk, alt(
			packrat.NamedWithAlias(d, plain, contents),
			seq(char('\\'), packrat.NamedWithAlias(d, escape, contents)),
			seq(char(other), marker(contents, string(other))),
		), contents.MustGet)
		all := packrat.NewAtom[string](name + "_quoted_string_contents")
		packrat.PutTerm(d, all, packrat.Repeated(chunkRule, chunks, 0), func(s *packrat.Scope) string {
			return joinChunks(chunks.MustGet(s))
		})
		return all
	}
	singleQuoted := quotedContents("single", '"')
	doubleQuoted := quotedContents("double", '\'')

	quoted := packrat.NewAtom[string]("quoted_string_literal")
	packrat.PutTerm(d, quoted, alt(
		seq(char('"'), cut(), opt(packrat.NamedWithAlias(d, doubleQuoted, contents)), char('"')),
		seq(char('\''), opt(packrat.NamedWithAlias(d, singleQuoted, contents)), char('\'')),
	), contents.MustGet)

	unquoted := packrat.NewAtom[string]("unquoted_string")
	packrat.Put(d, unquoted, grammar.UnquotedStringRule(1, expectedUnquoted))

	literal := packrat.NewAtom[T]("literal")
	arguments := packrat.NewAtom[[]T]("arguments")
	packrat.PutTerm(d, arguments, packrat.RepeatedWithTrailingSeparator(packrat.Forward(d, literal), arguments, char(','), 0), arguments.MustGet)

	builtinIDs := builtins.suggestions()
	unquotedOrBuiltin := packrat.NewAtom[T]("unquoted_string_or_builtin")
	packrat.PutComplex(d, unquotedOrBuiltin, seq(
		packrat.Named(d, unquoted),
		opt(seq(char('('), packrat.Named(d, arguments), char(')'))),
	), func(state *grammar.State) (T, bool) {
		var zero T
		s := state.Scope()
		str := unquoted.MustGet(s)
		if str == "" || canStartNumber(rune(str[0])) {
			state.Collector().Store(state.Mark(), builtinIDs, invalidUnquotedStart)
			return zero, false
		}
		if args, ok := arguments.Get(s); ok {
			key := BuiltinKey{ID: str, Arity: len(args)}
			op, ok := builtins[key]
			if !ok {
				state.Store(state.Mark(), ErrNoSuchOperation.Delayed(key.String()))
				return zero, false
			}
			return op(ops, args, state)
		}
		switch {
		case strings.EqualFold(str, "true"):
			return ops.CreateBool(true), true
		case strings.EqualFold(str, "false"):
			return ops.CreateBool(false), true
		}
		return ops.CreateString(str), true
	})

	mapKey := packrat.NewAtom[string]("map_key")
	packrat.PutTerm(d, mapKey, alt(packrat.Named(d, quoted), packrat.Named(d, unquoted)), func(s *packrat.Scope) string {
		return packrat.MustGetAny(s, quoted, unquoted)
	})

	mapEntry := packrat.NewAtom[nbt.Entry[T]]("map_entry")
	mapEntryRule := packrat.PutComplex(d, mapEntry, seq(
		packrat.Named(d, mapKey),
		char(':'),
		packrat.Named(d, literal),
	), func(state *grammar.State) (nbt.Entry[T], bool) {
		s := state.Scope()
		key := mapKey.MustGet(s)
		if key == "" {
			state.Store(state.Mark(), emptyKey)
			return nbt.Entry[T]{}, false
		}
		return nbt.Entry[T]{Key: key, Value: literal.MustGet(s)}, true
	})

	mapEntries := packrat.NewAtom[[]nbt.Entry[T]]("map_entries")
	packrat.PutTerm(d, mapEntries, packrat.RepeatedWithTrailingSeparator(mapEntryRule, mapEntries, char(','), 0), mapEntries.MustGet)

	mapLiteral := packrat.NewAtom[T]("map_literal")
	packrat.PutTerm(d, mapLiteral, seq(char('{'), packrat.Named(d, mapEntries), char('}')), func(s *packrat.Scope) T {
		entries := mapEntries.MustGet(s)
		if len(entries) == 0 {
			return ops.EmptyMap()
		}
		return ops.CreateMap(lastWins(entries))
	})

	listEntries := packrat.NewAtom[[]T]("list_entries")
	packrat.PutTerm(d, listEntries, packrat.RepeatedWithTrailingSeparator(packrat.Forward(d, literal), listEntries, char(','), 0), listEntries.MustGet)

	prefix := packrat.NewAtom[arrayPrefix]("array_prefix")
	packrat.PutTerm(d, prefix, alt(
		seq(char('B'), marker(prefix, arrayByte)),
		seq(char('L'), marker(prefix, arrayLong)),
		seq(char('I'), marker(prefix, arrayInt)),
	), prefix.MustGet)

	arrayEntries := packrat.NewAtom[[]integerLiteral]("int_array_entries")
	packrat.PutTerm(d, arrayEntries, packrat.RepeatedWithTrailingSeparator(intLiteralRule, arrayEntries, char(','), 0), arrayEntries.MustGet)

	listLiteral := packrat.NewAtom[T]("list_literal")
	packrat.PutComplex(d, listLiteral, seq(
		char('['),
		alt(
			seq(packrat.Named(d, prefix), char(';'), packrat.Named(d, arrayEntries)),
			packrat.Named(d, listEntries),
		),
		char(']'),
	), func(state *grammar.State) (T, bool) {
		s := state.Scope()
		if p, ok := prefix.Get(s); ok {
			elems := arrayEntries.MustGet(s)
			if len(elems) == 0 {
				return createEmptyArray(ops, p), true
			}
			return createArray(ops, state, p, elems)
		}
		elems := listEntries.MustGet(s)
		if len(elems) == 0 {
			return ops.EmptyList(), true
		}
		return ops.CreateList(elems), true
	})

	top := packrat.PutComplex(d, literal, alt(
		seq(
			packrat.PositiveLookahead(numberLookahead),
			alt(packrat.NamedWithAlias(d, floatLiteral, literal), packrat.Named(d, intLiteral)),
		),
		seq(packrat.PositiveLookahead(chars('"', '\'')), cut(), packrat.Named(d, quoted)),
		seq(packrat.PositiveLookahead(char('{')), cut(), packrat.NamedWithAlias(d, mapLiteral, literal)),
		seq(packrat.PositiveLookahead(char('[')), cut(), packrat.NamedWithAlias(d, listLiteral, literal)),
		packrat.NamedWithAlias(d, unquotedOrBuiltin, literal),
	), func(state *grammar.State) (T, bool) {
		s := state.Scope()
		if str, ok := quoted.Get(s); ok {
			return ops.CreateString(str), true
		}
		if lit, ok := intLiteral.Get(s); ok {
			return createInteger(ops, state, lit)
		}
		return literal.MustGet(s), true
	})

	return grammar.NewGrammar(d, top)
}

func hexEscape(size int) packrat.Rule[reader, string] {
	return grammar.GreedyPredicateRule(size, size, isHexEscapeDigit, ErrExpectedHexEscape.Delayed(strconv.Itoa(size)))
}

// lastWins keeps the first position of every key with its last value.
func lastWins[T any](entries []nbt.Entry[T]) []nbt.Entry[T] {
	index := make(map[string]int, len(entries))
	out := make([]nbt.Entry[T], 0, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

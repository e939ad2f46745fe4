package snbt

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/nbtkit/grammar"
	"github.com/dhamidi/nbtkit/nbt"
)

type sign int

const (
	plus sign = iota
	minus
)

func (s sign) appendTo(b *strings.Builder) {
	if s == minus {
		b.WriteByte('-')
	}
}

type signedness int

const (
	signednessDefault signedness = iota
	signed
	unsigned
)

type typeSuffix int

const (
	suffixNone typeSuffix = iota
	suffixFloat
	suffixDouble
	suffixByte
	suffixShort
	suffixInt
	suffixLong
)

type integerSuffix struct {
	signedness signedness
	typ        typeSuffix
}

type base int

const (
	baseBinary  base = 2
	baseDecimal base = 10
	baseHex     base = 16
)

type integerLiteral struct {
	sign   sign
	base   base
	digits string
	suffix integerSuffix
}

type signedDigits struct {
	sign   sign
	digits string
}

func canStartNumber(c rune) bool {
	switch c {
	case '+', '-', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return false
}

func isBinaryDigit(c rune) bool  { return c == '0' || c == '1' || c == '_' }
func isDecimalDigit(c rune) bool { return c >= '0' && c <= '9' || c == '_' }
func isHexDigit(c rune) bool     { return isHexEscapeDigit(c) || c == '_' }

func isHexEscapeDigit(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isPlainStringChar(c rune) bool { return c != '"' && c != '\'' && c != '\\' }

func appendDigits(b *strings.Builder, digits string) {
	for i := range len(digits) {
		if digits[i] != '_' {
			b.WriteByte(digits[i])
		}
	}
}

func (l integerLiteral) isSigned() bool {
	switch l.suffix.signedness {
	case signed:
		return true
	case unsigned:
		return false
	}
	return l.base == baseDecimal
}

func (l integerLiteral) cleanDigits() string {
	if l.sign != minus && !strings.Contains(l.digits, "_") {
		return l.digits
	}
	var b strings.Builder
	l.sign.appendTo(&b)
	appendDigits(&b, l.digits)
	return b.String()
}

var bitSizes = map[typeSuffix]int{
	suffixByte:  8,
	suffixShort: 16,
	suffixInt:   32,
	suffixLong:  64,
}

// value parses the literal as typ and reports failures at the cursor. The
// result is the two's complement value widened to int64.
func (l integerLiteral) value(state *grammar.State, typ typeSuffix) (int64, bool) {
	isSigned := l.isSigned()
	if !isSigned && l.sign == minus {
		state.Store(state.Mark(), expectedNonNegative)
		return 0, false
	}
	bits, ok := bitSizes[typ]
	if !ok {
		state.Store(state.Mark(), expectedIntegerType)
		return 0, false
	}
	s := l.cleanDigits()
	if isSigned {
		v, err := strconv.ParseInt(s, int(l.base), bits)
		if err != nil {
			state.Store(state.Mark(), numberParseFailure(err))
			return 0, false
		}
		return v, true
	}
	u, err := strconv.ParseUint(s, int(l.base), bits)
	if err != nil {
		state.Store(state.Mark(), numberParseFailure(err))
		return 0, false
	}
	switch typ {
	case suffixByte:
		return int64(int8(u)), true
	case suffixShort:
		return int64(int16(u)), true
	case suffixInt:
		return int64(int32(u)), true
	}
	return int64(u), true
}

func createInteger[T any](ops nbt.Ops[T], state *grammar.State, l integerLiteral) (T, bool) {
	var zero T
	typ := l.suffix.typ
	if typ == suffixNone {
		typ = suffixInt
	}
	v, ok := l.value(state, typ)
	if !ok {
		return zero, false
	}
	switch typ {
	case suffixByte:
		return ops.CreateByte(int8(v)), true
	case suffixShort:
		return ops.CreateShort(int16(v)), true
	case suffixInt:
		return ops.CreateInt(int32(v)), true
	}
	return ops.CreateLong(v), true
}

func createFloat[T any](ops nbt.Ops[T], state *grammar.State, sg sign, whole, fraction string, hasFraction bool, exponent *signedDigits, suffix typeSuffix) (T, bool) {
	var zero T
	var b strings.Builder
	sg.appendTo(&b)
	appendDigits(&b, whole)
	if hasFraction {
		b.WriteByte('.')
		appendDigits(&b, fraction)
	}
	if exponent != nil {
		b.WriteByte('e')
		exponent.sign.appendTo(&b)
		appendDigits(&b, exponent.digits)
	}

	bits := 64
	switch suffix {
	case suffixNone, suffixDouble:
	case suffixFloat:
		bits = 32
	default:
		state.Store(state.Mark(), expectedFloatType)
		return zero, false
	}
	f, err := strconv.ParseFloat(b.String(), bits)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		state.Store(state.Mark(), numberParseFailure(err))
		return zero, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		state.Store(state.Mark(), infinityNotAllowed)
		return zero, false
	}
	if bits == 32 {
		return ops.CreateFloat(float32(f)), true
	}
	return ops.CreateDouble(f), true
}

type arrayPrefix int

const (
	arrayByte arrayPrefix = iota
	arrayInt
	arrayLong
)

// elementType resolves the type of an array element: an unsuffixed element
// takes the array's type, a suffixed one must fit it.
func (p arrayPrefix) elementType(s typeSuffix) (typeSuffix, bool) {
	switch p {
	case arrayByte:
		return suffixByte, s == suffixNone || s == suffixByte
	case arrayInt:
		switch s {
		case suffixNone, suffixInt:
			return suffixInt, true
		case suffixByte, suffixShort:
			return s, true
		}
	case arrayLong:
		switch s {
		case suffixNone, suffixLong:
			return suffixLong, true
		case suffixByte, suffixShort, suffixInt:
			return s, true
		}
	}
	return suffixNone, false
}

func createEmptyArray[T any](ops nbt.Ops[T], p arrayPrefix) T {
	switch p {
	case arrayByte:
		return ops.CreateByteList(nil)
	case arrayInt:
		return ops.CreateIntList(nil)
	}
	return ops.CreateLongList(nil)
}

func createArray[T any](ops nbt.Ops[T], state *grammar.State, p arrayPrefix, elems []integerLiteral) (T, bool) {
	var zero T
	values := make([]int64, len(elems))
	for i, e := range elems {
		typ, ok := p.elementType(e.suffix.typ)
		if !ok {
			state.Store(state.Mark(), invalidArrayElement)
			return zero, false
		}
		if values[i], ok = e.value(state, typ); !ok {
			return zero, false
		}
	}
	switch p {
	case arrayByte:
		out := make([]int8, len(values))
		for i, v := range values {
			out[i] = int8(v)
		}
		return ops.CreateByteList(out), true
	case arrayInt:
		out := make([]int32, len(values))
		for i, v := range values {
			out[i] = int32(v)
		}
		return ops.CreateIntList(out), true
	}
	return ops.CreateLongList(values), true
}

// Lone surrogates from \u escapes are carried through string chunks in their
// generalized UTF-8 form and paired up when the chunks are joined.
func encodeSurrogate(r rune) string {
	return string([]byte{0xED, byte(0x80 | (r>>6)&0x3F), byte(0x80 | r&0x3F)})
}

func decodeSurrogate(s string) (rune, bool) {
	if len(s) < 3 || s[0] != 0xED || s[1] < 0xA0 {
		return 0, false
	}
	return 0xD000 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F), true
}

func joinChunks(chunks []string) string {
	s := strings.Join(chunks, "")
	if !strings.Contains(s, "\xED") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if hi, ok := decodeSurrogate(s[i:]); ok {
			if lo, ok := decodeSurrogate(s[i+3:]); ok && utf16.IsSurrogate(hi) && hi < 0xDC00 && lo >= 0xDC00 {
				b.WriteRune(utf16.DecodeRune(hi, lo))
				i += 6
				continue
			}
			b.WriteRune(utf8.RuneError)
			i += 3
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

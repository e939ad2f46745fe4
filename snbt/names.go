package snbt

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// RuneNames resolves Unicode character names for \N{...} escapes. The table
// is built on first use; one instance can be shared between parsers.
type RuneNames struct {
	once  sync.Once
	names map[string]rune
}

func NewRuneNames() *RuneNames {
	return &RuneNames{}
}

func (n *RuneNames) build() {
	n.names = make(map[string]rune, 1<<16)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if r >= 0xD800 && r < 0xE000 || r >= 0xE000 && r < 0xF900 || r >= 0xF0000 {
			continue
		}
		name := runenames.Name(r)
		if name == "" || name[0] == '<' {
			continue
		}
		if _, dup := n.names[name]; !dup {
			n.names[name] = r
		}
	}
}

const ideographPrefix = "CJK UNIFIED IDEOGRAPH-"

// Lookup matches name case-insensitively. Ideographs, which have no
// individual names, are accepted in their CJK UNIFIED IDEOGRAPH-XXXX form.
func (n *RuneNames) Lookup(name string) (rune, bool) {
	name = strings.ToUpper(name)
	if hex, ok := strings.CutPrefix(name, ideographPrefix); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !unicode.Is(unicode.Ideographic, rune(v)) {
			return 0, false
		}
		return rune(v), true
	}
	n.once.Do(n.build)
	r, ok := n.names[name]
	return r, ok
}

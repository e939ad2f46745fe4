package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNamespace is used for identifiers written without one.
const DefaultNamespace = "minecraft"

var ErrIdentifier = errors.New("invalid identifier")

// Identifier is a namespaced resource name, written namespace:path.
type Identifier struct {
	Namespace string
	Path      string
}

func (id Identifier) String() string { return id.Namespace + ":" + id.Path }

// ParseIdentifier splits s at the first colon. An empty or missing namespace
// means DefaultNamespace.
func ParseIdentifier(s string) (Identifier, error) {
	ns, path, found := strings.Cut(s, ":")
	if !found || ns == "" {
		if !found {
			path = s
		}
		ns = DefaultNamespace
	}
	if !IsValidNamespace(ns) {
		return Identifier{}, fmt.Errorf("%w: non [a-z0-9_.-] character in namespace of location: %s:%s", ErrIdentifier, ns, path)
	}
	if !IsValidPath(path) {
		return Identifier{}, fmt.Errorf("%w: non [a-z0-9/._-] character in path of location: %s:%s", ErrIdentifier, ns, path)
	}
	return Identifier{Namespace: ns, Path: path}, nil
}

func TryParseIdentifier(s string) (Identifier, bool) {
	id, err := ParseIdentifier(s)
	return id, err == nil
}

func IsValidNamespace(s string) bool {
	for i := range len(s) {
		if !validNamespaceChar(s[i]) {
			return false
		}
	}
	return true
}

func IsValidPath(s string) bool {
	for i := range len(s) {
		if !validNamespaceChar(s[i]) && s[i] != '/' {
			return false
		}
	}
	return true
}

func validNamespaceChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		c >= 'a' && c <= 'z' ||
		c >= '0' && c <= '9'
}

func IsAllowedInIdentifier(c rune) bool {
	return c < 0x80 && validNamespaceChar(byte(c)) || c == ':' || c == '/'
}

func readGreedyIdentifier(r *Reader) string {
	start := r.Cursor()
	for r.CanRead() && IsAllowedInIdentifier(r.Peek()) {
		r.Skip()
	}
	return r.Input()[start:r.Cursor()]
}

// ReadIdentifier reads an identifier at the cursor. On failure the cursor is
// left at the start of the identifier.
func ReadIdentifier(r *Reader) (Identifier, error) {
	start := r.Cursor()
	id, err := ParseIdentifier(readGreedyIdentifier(r))
	if err != nil {
		r.SetCursor(start)
		return Identifier{}, ErrInvalidID.CreateWithContext(r)
	}
	return id, nil
}

// ReadIdentifierNonEmpty is ReadIdentifier that rejects an empty name.
func ReadIdentifierNonEmpty(r *Reader) (Identifier, error) {
	start := r.Cursor()
	s := readGreedyIdentifier(r)
	if s == "" {
		return Identifier{}, ErrInvalidID.CreateWithContext(r)
	}
	id, err := ParseIdentifier(s)
	if err != nil {
		r.SetCursor(start)
		return Identifier{}, ErrInvalidID.CreateWithContext(r)
	}
	return id, nil
}

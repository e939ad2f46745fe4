package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

type Document struct {
	URI     protocol.DocumentUri
	Version protocol.Integer
	Text    string
}

// Store holds the open documents by URI. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	docs map[protocol.DocumentUri]*Document
}

func NewStore() *Store {
	return &Store{docs: make(map[protocol.DocumentUri]*Document)}
}

// Update replaces the text of a document, opening it when needed.
func (s *Store) Update(uri protocol.DocumentUri, version protocol.Integer, text string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := &Document{URI: uri, Version: version, Text: text}
	s.docs[uri] = doc
	return doc
}

func (s *Store) Get(uri protocol.DocumentUri) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *Store) Close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// OffsetToPosition converts a byte offset into a line and a UTF-16
// character index. Offsets past the end map to the end of the text.
func OffsetToPosition(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	var line, char protocol.UInteger
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			char = 0
			continue
		}
		char += protocol.UInteger(utf16.RuneLen(r))
	}
	return protocol.Position{Line: line, Character: char}
}

// PositionToOffset converts a line and UTF-16 character index into a byte
// offset. Characters past the end of a line map to its end.
func PositionToOffset(text string, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}
	for char := protocol.UInteger(0); char < pos.Character && offset < len(text); {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		char += protocol.UInteger(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

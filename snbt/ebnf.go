package snbt

import _ "embed"

// EBNF describes the text notation in the syntax read by
// golang.org/x/exp/ebnf.
//
//go:embed snbt.ebnf
var EBNF string

// StartProduction is the production of EBNF that derives a whole document.
const StartProduction = "Document"

// TokenKinds lists the lexical productions of EBNF, in order of preference
// when two of them match the same text.
var TokenKinds = []string{"WhiteSpace", "Number", "String", "Word"}

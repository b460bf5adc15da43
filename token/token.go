/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package token provides the lexical tokens of the atpkg file format.
package token

import "fmt"

// Type identifies the lexical class of a token.
type Type int

const (
	// Unknown is any single character the lexer does not recognize.
	Unknown Type = iota

	// Identifier is a bare word such as a declaration name, key, or boolean.
	Identifier

	// OpenParen is "(".
	OpenParen

	// CloseParen is ")".
	CloseParen

	// OpenBracket is "[".
	OpenBracket

	// CloseBracket is "]".
	CloseBracket

	// OpenBrace is "{".
	OpenBrace

	// CloseBrace is "}".
	CloseBrace

	// StringLiteral is a double-quoted string with escapes already processed.
	StringLiteral

	// Terminal is a newline.
	Terminal

	// Colon is ":", which introduces a key.
	Colon

	// Comment is a ";" line comment. The value excludes the leading semicolons.
	Comment

	// EOF marks the end of input.
	EOF
)

var typeNames = map[Type]string{
	Unknown:       "Unknown",
	Identifier:    "Identifier",
	OpenParen:     "OpenParen",
	CloseParen:    "CloseParen",
	OpenBracket:   "OpenBracket",
	CloseBracket:  "CloseBracket",
	OpenBrace:     "OpenBrace",
	CloseBrace:    "CloseBrace",
	StringLiteral: "StringLiteral",
	Terminal:      "Terminal",
	Colon:         "Colon",
	Comment:       "Comment",
	EOF:           "EOF",
}

// String returns the name of the token type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Token is a single lexical token with its source position.
// Tokens compare structurally with ==.
type Token struct {
	// Type is the lexical class.
	Type Type `json:"type"`

	// Value is the token text. For string literals this is the unescaped content.
	Value string `json:"value"`

	// Line is the 1-based line of the token's first character.
	// It is 0 for EOF.
	Line int `json:"line"`

	// Column is the 1-based column of the token's first character.
	// It is 0 for EOF.
	Column int `json:"column"`
}

// New creates a token.
func New(typ Type, value string, line, column int) Token {
	return Token{Type: typ, Value: value, Line: line, Column: column}
}

// Position returns "line:column" for diagnostics.
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// String returns a readable form such as `Identifier("package")@3:2`.
func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Value, t.Position())
}

// IsTrivia reports whether the token is skipped by the parser.
func (t Token) IsTrivia() bool {
	return t.Type == Terminal || t.Type == Comment
}

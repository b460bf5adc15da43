/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"strings"
	"unicode"

	"bennypowers.dev/atpkg/token"
)

// Lexer turns a Scanner's characters into tokens.
// Like the Scanner it supports a single slot of pushback through Stall.
type Lexer struct {
	scanner *Scanner

	current token.Token
	started bool
	stalled bool
}

// NewLexer creates a lexer reading from scanner.
func NewLexer(scanner *Scanner) *Lexer {
	return &Lexer{scanner: scanner}
}

// Next returns the next token. Once EOF has been produced every further
// call returns EOF again.
func (l *Lexer) Next() (token.Token, error) {
	if l.stalled {
		l.stalled = false
		return l.current, nil
	}

	if l.started && l.current.Type == token.EOF {
		return l.current, nil
	}

	tok, err := l.scan()
	if err != nil {
		return token.Token{}, err
	}

	l.current = tok
	l.started = true
	return tok, nil
}

// Peek returns the most recently produced token without advancing.
func (l *Lexer) Peek() token.Token {
	return l.current
}

// Stall makes the next call to Next return the current token again.
func (l *Lexer) Stall() {
	l.stalled = true
}

// Tokenize consumes the remaining input and returns every token up to and
// including EOF.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

var punctuation = map[rune]token.Type{
	'(': token.OpenParen,
	')': token.CloseParen,
	'[': token.OpenBracket,
	']': token.CloseBracket,
	'{': token.OpenBrace,
	'}': token.CloseBrace,
	':': token.Colon,
}

func (l *Lexer) scan() (token.Token, error) {
	var c Char
	for {
		next, ok := l.scanner.Next()
		if !ok {
			return token.Token{Type: token.EOF}, nil
		}
		if !isWhitespace(next.Rune) {
			c = next
			break
		}
	}

	if c.Rune == '\n' {
		return token.New(token.Terminal, "\n", c.Line, c.Column), nil
	}

	if isIdentifierStart(c.Rune) {
		return l.scanIdentifier(c), nil
	}

	if typ, ok := punctuation[c.Rune]; ok {
		return token.New(typ, string(c.Rune), c.Line, c.Column), nil
	}

	switch c.Rune {
	case ';':
		return l.scanComment(c), nil
	case '"':
		return l.scanString(c)
	}

	return token.New(token.Unknown, string(c.Rune), c.Line, c.Column), nil
}

func (l *Lexer) scanIdentifier(start Char) token.Token {
	var sb strings.Builder
	sb.WriteRune(start.Rune)
	for {
		next, ok := l.scanner.Next()
		if !ok || !isIdentifierChar(next.Rune) {
			break
		}
		sb.WriteRune(next.Rune)
	}
	l.scanner.Stall()

	return token.New(token.Identifier, sb.String(), start.Line, start.Column)
}

// scanComment skips any run of semicolons and collects the rest of the line.
// The terminating newline belongs to the comment.
func (l *Lexer) scanComment(start Char) token.Token {
	for {
		next, ok := l.scanner.Next()
		if !ok || next.Rune != ';' {
			break
		}
	}
	l.scanner.Stall()

	var sb strings.Builder
	for {
		next, ok := l.scanner.Next()
		if !ok || next.Rune == '\n' {
			break
		}
		sb.WriteRune(next.Rune)
	}

	return token.New(token.Comment, sb.String(), start.Line, start.Column)
}

var escapes = map[rune]string{
	't':  "\t",
	'n':  "\n",
	'r':  "\r",
	'\'': "'",
	'"':  "\"",
	'\\': "\\",
	// kept escaped so substitution sees a literal dollar
	'$': `\$`,
}

func (l *Lexer) scanString(start Char) (token.Token, error) {
	var sb strings.Builder
	for {
		next, ok := l.scanner.Next()
		if !ok || next.Rune == '"' {
			break
		}

		if next.Rune != '\\' {
			sb.WriteRune(next.Rune)
			continue
		}

		escaped, ok := l.scanner.Next()
		var seq string
		if ok {
			seq = string(escaped.Rune)
		}
		replacement, known := escapes[escaped.Rune]
		if !ok || !known {
			return token.Token{}, &Error{
				Err:   ErrUnsupportedEscape,
				Token: token.New(token.StringLiteral, seq, next.Line, next.Column),
			}
		}
		sb.WriteString(replacement)
	}

	return token.New(token.StringLiteral, sb.String(), start.Line, start.Column), nil
}

func isWhitespace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdentifierChar(r rune) bool {
	return isIdentifierStart(r) || r == '-' || r == '.' || r == '/'
}

/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser reads atpkg files into declarations.
//
// The pipeline is Scanner (characters) → Lexer (tokens) → Parser
// (a Declaration holding value.Map properties).
package parser

import (
	"errors"
	"fmt"

	"bennypowers.dev/atpkg/fs"
	"bennypowers.dev/atpkg/token"
	"bennypowers.dev/atpkg/value"
)

// Declaration is the single top-level form of a file, e.g. (package ...).
type Declaration struct {
	// Name is the declaration kind; only "package" is meaningful downstream.
	Name string

	// Properties holds the declaration's key/value pairs.
	Properties value.Map
}

// Parser is a recursive-descent parser over a Lexer.
type Parser struct {
	lexer *Lexer
	file  string
}

// New creates a parser reading tokens from lexer.
func New(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseString parses src as a complete file.
func ParseString(src string) (*Declaration, error) {
	return New(NewLexer(NewScanner(src))).Parse()
}

// ParseFile reads and parses the file at path.
func ParseFile(filesystem fs.FileSystem, path string) (*Declaration, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	p := New(NewLexer(NewScanner(string(data))))
	p.file = path
	return p.Parse()
}

// Parse parses the file's declaration.
func (p *Parser) Parse() (*Declaration, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	if tok.Type == token.EOF {
		return nil, p.fail(ErrInvalidPackageFile, tok)
	}
	if tok.Type != token.OpenParen {
		return nil, p.expected(token.OpenParen, tok)
	}

	return p.parseDeclaration()
}

// next returns the next token that is not a newline or comment.
func (p *Parser) next() (token.Token, error) {
	for {
		tok, err := p.lexer.Next()
		if err != nil {
			var perr *Error
			if errors.As(err, &perr) && perr.File == "" {
				perr.File = p.file
			}
			return token.Token{}, err
		}
		if !tok.IsTrivia() {
			return tok, nil
		}
	}
}

func (p *Parser) parseDeclaration() (*Declaration, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	props, err := p.parseKeyValuePairs()
	if err != nil {
		return nil, err
	}

	return &Declaration{Name: name, Properties: props}, nil
}

// parseKeyValuePairs reads ":key value" pairs up to, but not including,
// a closing paren or brace.
func (p *Parser) parseKeyValuePairs() (value.Map, error) {
	pairs := value.Map{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		p.lexer.Stall()

		if tok.Type == token.CloseParen || tok.Type == token.CloseBrace {
			return pairs, nil
		}

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		pairs[key] = val
	}
}

func (p *Parser) parseKey() (string, error) {
	colon, err := p.next()
	if err != nil {
		return "", err
	}
	if colon.Type != token.Colon {
		return "", p.expected(token.Colon, colon)
	}

	return p.parseIdentifier()
}

func (p *Parser) parseIdentifier() (string, error) {
	tok, err := p.next()
	if err != nil {
		return "", err
	}
	if tok.Type != token.Identifier {
		return "", p.expected(token.Identifier, tok)
	}
	return tok.Value, nil
}

func (p *Parser) parseValue() (value.Value, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Type == token.OpenBrace:
		p.lexer.Stall()
		return p.parseMap()
	case tok.Type == token.OpenBracket:
		p.lexer.Stall()
		return p.parseArray()
	case tok.Type == token.StringLiteral:
		return value.StringLiteral(tok.Value), nil
	case tok.Type == token.Identifier && tok.Value == "true":
		return value.BoolLiteral(true), nil
	case tok.Type == token.Identifier && tok.Value == "false":
		return value.BoolLiteral(false), nil
	default:
		return nil, p.fail(ErrInvalidValueToken, tok)
	}
}

func (p *Parser) parseArray() (value.Value, error) {
	if err := p.expect(token.OpenBracket); err != nil {
		return nil, err
	}

	items := value.Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.CloseBracket {
			return items, nil
		}
		p.lexer.Stall()

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (p *Parser) parseMap() (value.Value, error) {
	if err := p.expect(token.OpenBrace); err != nil {
		return nil, err
	}

	items, err := p.parseKeyValuePairs()
	if err != nil {
		return nil, err
	}

	if err := p.expect(token.CloseBrace); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *Parser) expect(typ token.Type) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.Type != typ {
		return p.expected(typ, tok)
	}
	return nil
}

func (p *Parser) expected(typ token.Type, tok token.Token) error {
	return &Error{Err: ErrExpectedToken, Expected: typ, Token: tok, File: p.file}
}

func (p *Parser) fail(err error, tok token.Token) error {
	return &Error{Err: err, Token: tok, File: p.file}
}

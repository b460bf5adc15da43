/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/atpkg/token"
)

// Sentinel errors for parsing.
var (
	// ErrInvalidPackageFile indicates the input held no tokens at all.
	ErrInvalidPackageFile = errors.New("invalid package file")

	// ErrExpectedToken indicates a specific token type was required.
	ErrExpectedToken = errors.New("unexpected token")

	// ErrInvalidValueToken indicates a token that cannot start a value.
	ErrInvalidValueToken = errors.New("invalid token for value")

	// ErrUnsupportedEscape indicates an unknown string escape sequence.
	ErrUnsupportedEscape = errors.New("unsupported escape sequence")
)

// Error is a positioned lexing or parsing error.
type Error struct {
	// Err is one of the sentinel errors above.
	Err error

	// Token is the offending token.
	Token token.Token

	// Expected is the required token type when Err is ErrExpectedToken.
	Expected token.Type

	// File is the path of the file being parsed, if known.
	File string
}

// Line returns the line of the offending token.
func (e *Error) Line() int { return e.Token.Line }

// Column returns the column of the offending token.
func (e *Error) Column() int { return e.Token.Column }

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	fmt.Fprintf(&sb, "%d:%d: %s", e.Token.Line, e.Token.Column, e.Err)

	switch {
	case errors.Is(e.Err, ErrExpectedToken):
		fmt.Fprintf(&sb, ": expected %s, got %s", e.Expected, describe(e.Token))
	case errors.Is(e.Err, ErrUnsupportedEscape):
		fmt.Fprintf(&sb, ` \%s`, e.Token.Value)
	default:
		fmt.Fprintf(&sb, ": %s", describe(e.Token))
	}
	return sb.String()
}

// Unwrap returns the sentinel error.
func (e *Error) Unwrap() error { return e.Err }

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Value)
}

/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package substitution expands ${name} placeholders in option strings.
package substitution

import (
	"errors"
	"strings"
)

// ErrUnknownSubstitution indicates a placeholder no resolver recognizes.
var ErrUnknownSubstitution = errors.New("unknown substitution")

// Resolver supplies the text for a placeholder name.
type Resolver interface {
	Resolve(name string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(name string) (string, error) { return f(name) }

type state int

const (
	initial state = iota
	escaped
	dollar
	substitutionName
)

// Evaluate expands every ${name} in input using r.
//
// A backslash emits the next character literally, so \${x} yields ${x}.
// A $ not followed by { is literal. Incomplete constructs at the end of
// input (a lone \ or $, or an unclosed ${) produce no output.
func Evaluate(input string, r Resolver) (string, error) {
	var out, name strings.Builder
	st := initial

	for _, c := range input {
		switch st {
		case initial:
			switch c {
			case '$':
				st = dollar
			case '\\':
				st = escaped
			default:
				out.WriteRune(c)
			}

		case escaped:
			out.WriteRune(c)
			st = initial

		case dollar:
			switch c {
			case '{':
				st = substitutionName
			case '\\':
				out.WriteByte('$')
				st = escaped
			default:
				out.WriteByte('$')
				out.WriteRune(c)
				st = initial
			}

		case substitutionName:
			if c != '}' {
				name.WriteRune(c)
				continue
			}
			text, err := r.Resolve(name.String())
			if err != nil {
				return "", err
			}
			out.WriteString(text)
			name.Reset()
			st = initial
		}
	}

	return out.String(), nil
}

// Names returns the placeholder names in input, in order, without
// resolving them.
func Names(input string) []string {
	var names []string
	_, _ = Evaluate(input, ResolverFunc(func(name string) (string, error) {
		names = append(names, name)
		return "", nil
	}))
	return names
}

/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

// Char is one character of input with its 1-based position.
type Char struct {
	Rune   rune
	Line   int
	Column int
}

// Scanner turns text into a stream of positioned characters.
// It supports a single slot of pushback through Stall.
type Scanner struct {
	content []rune
	index   int
	line    int
	column  int

	current Char
	valid   bool
	stalled bool
}

// NewScanner creates a scanner over content.
func NewScanner(content string) *Scanner {
	return &Scanner{
		content: []rune(content),
		line:    1,
		column:  1,
	}
}

// Next advances and returns the next character. ok is false at end of input.
// After Stall, Next returns the current character again without advancing.
func (s *Scanner) Next() (Char, bool) {
	if s.stalled {
		s.stalled = false
		return s.current, s.valid
	}

	if s.index >= len(s.content) {
		s.current = Char{}
		s.valid = false
		return s.current, false
	}

	r := s.content[s.index]
	s.current = Char{Rune: r, Line: s.line, Column: s.column}
	s.valid = true
	s.index++

	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}

	return s.current, true
}

// Peek returns the most recently produced character without advancing.
func (s *Scanner) Peek() (Char, bool) {
	return s.current, s.valid
}

// Stall makes the next call to Next return the current character again.
func (s *Scanner) Stall() {
	s.stalled = true
}

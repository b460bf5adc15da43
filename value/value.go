/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package value provides the semi-structured values of atpkg files
// and their merge semantics.
package value

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the concrete type of a Value.
type Kind int

const (
	// KindString is a StringLiteral.
	KindString Kind = iota + 1

	// KindInteger is an IntegerLiteral.
	KindInteger

	// KindFloat is a FloatLiteral.
	KindFloat

	// KindBool is a BoolLiteral.
	KindBool

	// KindArray is an Array.
	KindArray

	// KindMap is a Map.
	KindMap
)

// String returns the type name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is one of StringLiteral, IntegerLiteral, FloatLiteral, BoolLiteral,
// Array or Map.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// StringLiteral is a string value.
type StringLiteral string

// IntegerLiteral is an integer value.
type IntegerLiteral int64

// FloatLiteral is a floating point value.
type FloatLiteral float64

// BoolLiteral is a boolean value.
type BoolLiteral bool

// Array is an ordered sequence of values.
type Array []Value

// Map maps unique string keys to values. It is the config map that
// overlays merge into.
type Map map[string]Value

func (StringLiteral) Kind() Kind  { return KindString }
func (IntegerLiteral) Kind() Kind { return KindInteger }
func (FloatLiteral) Kind() Kind   { return KindFloat }
func (BoolLiteral) Kind() Kind    { return KindBool }
func (Array) Kind() Kind          { return KindArray }
func (Map) Kind() Kind            { return KindMap }

func (StringLiteral) isValue()  {}
func (IntegerLiteral) isValue() {}
func (FloatLiteral) isValue()   {}
func (BoolLiteral) isValue()    {}
func (Array) isValue()          {}
func (Map) isValue()            {}

func (s StringLiteral) String() string  { return strconv.Quote(string(s)) }
func (i IntegerLiteral) String() string { return strconv.FormatInt(int64(i), 10) }
func (f FloatLiteral) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (b BoolLiteral) String() string    { return strconv.FormatBool(bool(b)) }

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// String renders the map in atpkg syntax with keys sorted.
func (m Map) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, ":%s %s", k, m[k])
	}
	sb.WriteString("}")
	return sb.String()
}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Clone returns a deep copy of the map.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of v. Scalars are returned as-is.
func Clone(v Value) Value {
	switch x := v.(type) {
	case Array:
		out := make(Array, len(x))
		for i, item := range x {
			out[i] = Clone(item)
		}
		return out
	case Map:
		return x.Clone()
	default:
		return v
	}
}

// Equal reports whether two values are deeply equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Array:
		y := b.(Array)
		return slices.EqualFunc(x, y, Equal)
	case Map:
		y := b.(Map)
		return maps.EqualFunc(x, y, Equal)
	default:
		return a == b
	}
}

/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

// GetString returns the string held under key.
func (m Map) GetString(key string) (string, bool) {
	s, ok := m[key].(StringLiteral)
	return string(s), ok
}

// GetBool returns the boolean held under key.
func (m Map) GetBool(key string) (bool, bool) {
	b, ok := m[key].(BoolLiteral)
	return bool(b), ok
}

// GetArray returns the array held under key.
func (m Map) GetArray(key string) (Array, bool) {
	a, ok := m[key].(Array)
	return a, ok
}

// GetMap returns the map held under key.
func (m Map) GetMap(key string) (Map, bool) {
	sub, ok := m[key].(Map)
	return sub, ok
}

// GetStrings returns the array held under key as strings.
// It fails if the value is not an array or holds a non-string element.
func (m Map) GetStrings(key string) ([]string, bool) {
	a, ok := m.GetArray(key)
	if !ok {
		return nil, false
	}
	return Strings(a)
}

// Strings converts an array of string literals to a []string.
func Strings(a Array) ([]string, bool) {
	out := make([]string, 0, len(a))
	for _, item := range a {
		s, ok := item.(StringLiteral)
		if !ok {
			return nil, false
		}
		out = append(out, string(s))
	}
	return out, true
}

// StringArray builds an Array of string literals.
func StringArray(items ...string) Array {
	out := make(Array, len(items))
	for i, s := range items {
		out[i] = StringLiteral(s)
	}
	return out
}

/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

// Merge folds maps left to right into a new map.
//
// For each key of a later map: an absent key takes the new value; scalars
// replace an existing value of the same kind; arrays are concatenated with
// the existing elements first; maps merge recursively. Any kind mismatch is
// a *TypeError. The inputs are not modified.
func Merge(configs ...Map) (Map, error) {
	out := Map{}
	for _, m := range configs {
		if err := mergeInto(out, m, ""); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func mergeInto(dst, src Map, prefix string) error {
	for _, key := range src.Keys() {
		incoming := src[key]
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		existing, present := dst[key]
		if present && existing.Kind() != incoming.Kind() {
			return &TypeError{Key: path, Value: incoming, Expected: existing.Kind()}
		}

		switch v := incoming.(type) {
		case Array:
			var items Array
			if present {
				items = append(items, existing.(Array)...)
			}
			for _, item := range v {
				items = append(items, Clone(item))
			}
			dst[key] = items
		case Map:
			merged := Map{}
			if present {
				merged = existing.(Map)
			}
			if err := mergeInto(merged, v, path); err != nil {
				return err
			}
			dst[key] = merged
		default:
			dst[key] = incoming
		}
	}
	return nil
}

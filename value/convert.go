/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import "fmt"

// FromAny converts decoded YAML or JSON data into a Value.
// Map keys of any type are formatted as strings, the way YAML numeric keys are.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return StringLiteral(x), nil
	case bool:
		return BoolLiteral(x), nil
	case int:
		return IntegerLiteral(x), nil
	case int64:
		return IntegerLiteral(x), nil
	case int32:
		return IntegerLiteral(x), nil
	case uint64:
		return IntegerLiteral(int64(x)), nil
	case float64:
		return FloatLiteral(x), nil
	case float32:
		return FloatLiteral(x), nil
	case []any:
		out := make(Array, 0, len(x))
		for i, item := range x {
			converted, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, converted)
		}
		return out, nil
	case []string:
		return StringArray(x...), nil
	case map[string]any:
		return MapFromAny(x)
	case map[any]any:
		normalized := make(map[string]any, len(x))
		for k, val := range x {
			normalized[fmt.Sprintf("%v", k)] = val
		}
		return MapFromAny(normalized)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// MapFromAny converts a decoded object into a Map.
func MapFromAny(m map[string]any) (Map, error) {
	out := make(Map, len(m))
	for k, val := range m {
		converted, err := FromAny(val)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = converted
	}
	return out, nil
}

// ToAny converts a Value into plain Go data suitable for YAML or JSON encoding.
func ToAny(v Value) any {
	switch x := v.(type) {
	case StringLiteral:
		return string(x)
	case IntegerLiteral:
		return int64(x)
	case FloatLiteral:
		return float64(x)
	case BoolLiteral:
		return bool(x)
	case Array:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ToAny(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = ToAny(item)
		}
		return out
	default:
		return nil
	}
}

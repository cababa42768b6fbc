// Package params provides typed, default-aware reads over raw request
// parameter bags (query strings and parsed bodies).
//
// A single Bag type serves both sources. The only difference between a
// query bag and a body bag is whether the "array" type tag is supported,
// which is controlled by a capability flag set at construction.
package params

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
)

// Type is a canonical type tag understood by [Bag.Get].
type Type string

const (
	TypeString   Type = "string"
	TypeInteger  Type = "integer"
	TypeDouble   Type = "double"
	TypeBoolean  Type = "boolean"
	TypeArray    Type = "array"
	TypeDatetime Type = "datetime"
)

var typeAliases = map[string]Type{
	"string":   TypeString,
	"int":      TypeInteger,
	"integer":  TypeInteger,
	"float":    TypeDouble,
	"double":   TypeDouble,
	"bool":     TypeBoolean,
	"boolean":  TypeBoolean,
	"date":     TypeDatetime,
	"datetime": TypeDatetime,
	"array":    TypeArray,
}

// Bag is a read-only view over a raw key→value map. Values are scalars
// (string, bool, numbers), []any lists, or nil.
type Bag struct {
	values map[string]any
	arrays bool
}

// NewBody returns a bag over a parsed request body. Body bags support the
// "array" type tag.
func NewBody(values map[string]any) *Bag {
	return newBag(values, true)
}

// NewQuery returns a bag over query-string parameters. Query bags reject
// the "array" type tag.
func NewQuery(values map[string]any) *Bag {
	return newBag(values, false)
}

// FromValues converts url.Values into a bag. Keys ending in "[]" become
// lists under the key without the suffix; any other repeated key keeps its
// last value.
func FromValues(values url.Values, arrays bool) *Bag {
	raw := make(map[string]any, len(values))
	for key, vs := range values {
		if name, ok := strings.CutSuffix(key, "[]"); ok && name != "" {
			list := make([]any, 0, len(vs))
			for _, v := range vs {
				list = append(list, v)
			}
			raw[name] = list
			continue
		}
		if len(vs) == 0 {
			raw[key] = ""
			continue
		}
		raw[key] = vs[len(vs)-1]
	}
	return &Bag{values: raw, arrays: arrays}
}

func newBag(values map[string]any, arrays bool) *Bag {
	raw := make(map[string]any, len(values))
	maps.Copy(raw, values)
	return &Bag{values: raw, arrays: arrays}
}

// IsSet reports whether name is present in the bag, regardless of its value.
func (b *Bag) IsSet(name string) bool {
	_, ok := b.values[name]
	return ok
}

// Len returns the number of keys in the bag.
func (b *Bag) Len() int {
	return len(b.values)
}

// IsEmpty reports whether the bag holds no keys.
func (b *Bag) IsEmpty() bool {
	return len(b.values) == 0
}

// SupportsArrays reports whether the bag accepts the "array" type tag.
func (b *Bag) SupportsArrays() bool {
	return b.arrays
}

// Values returns a shallow copy of the raw map.
func (b *Bag) Values() map[string]any {
	return maps.Clone(b.values)
}

// Get reads name converted to the type identified by tag.
//
// Resolution order:
//  1. tag is resolved to its canonical Type; unknown tags fail.
//  2. def must be compatible with the canonical Type (nil is always allowed).
//  3. the raw value is taken when present, def otherwise.
//  4. unless allowEmpty is set, an empty value (nil, "", 0, "0", false,
//     empty list) is replaced with def.
//  5. a nil value is returned as nil without conversion.
//  6. the value is converted; scalar targets fall back to def when the value
//     is not a scalar or cannot be coerced, "array" falls back to def when
//     the value is not a list, "datetime" tries def when the value does not
//     parse and fails when neither does.
//
// Every failure wraps [ErrInvalidArgument].
func (b *Bag) Get(name string, def any, tag string, allowEmpty bool) (any, error) {
	typ, err := b.resolve(tag)
	if err != nil {
		return nil, err
	}
	if err := checkDefault(typ, def); err != nil {
		return nil, err
	}

	candidate, ok := b.values[name]
	if !ok {
		candidate = def
	}
	if !allowEmpty && isEmpty(candidate) {
		candidate = def
	}
	if candidate == nil {
		return nil, nil
	}

	switch typ {
	case TypeArray:
		if list, ok := candidate.([]any); ok {
			return list, nil
		}
		return def, nil
	case TypeDatetime:
		if t, ok := parseTime(candidate); ok {
			return t, nil
		}
		if t, ok := parseTime(def); ok {
			return t, nil
		}
		return nil, fmt.Errorf("%w: %q holds no valid datetime", ErrInvalidArgument, name)
	}

	if !isScalar(candidate) {
		return def, nil
	}
	converted, err := coerce(typ, candidate)
	if err != nil {
		return def, nil
	}
	return converted, nil
}

func (b *Bag) resolve(tag string) (Type, error) {
	typ, ok := typeAliases[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidArgument, tag)
	}
	if typ == TypeArray && !b.arrays {
		return "", fmt.Errorf("%w: type %q is not supported by query parameters", ErrInvalidArgument, tag)
	}
	return typ, nil
}

func checkDefault(typ Type, def any) error {
	if def == nil {
		return nil
	}

	var ok bool
	switch typ {
	case TypeString:
		_, ok = def.(string)
	case TypeInteger:
		ok = isInteger(def)
	case TypeDouble:
		ok = isInteger(def) || isFloat(def)
	case TypeBoolean:
		_, ok = def.(bool)
	case TypeArray:
		_, ok = def.([]any)
	case TypeDatetime:
		_, ok = parseTime(def)
	}
	if !ok {
		return fmt.Errorf("%w: default %T(%v) is not compatible with %s", ErrInvalidArgument, def, def, typ)
	}
	return nil
}

package params

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// isEmpty mirrors the loose emptiness rule callers rely on: zero numbers,
// "0" and false count as empty alongside nil, "" and empty collections.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "0"
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isInteger(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number:
		return true
	}
	return isInteger(v) || isFloat(v)
}

func coerce(typ Type, v any) (any, error) {
	s, isString := v.(string)
	if isString {
		s = strings.TrimSpace(s)
	}

	switch typ {
	case TypeInteger:
		if isString {
			return parseIntString(s)
		}
		if isFloat(v) {
			return floatToInt(reflect.ValueOf(v).Float())
		}
		if n, ok := v.(json.Number); ok {
			return parseIntString(n.String())
		}
		return cast.ToInt64E(v)
	case TypeDouble:
		var (
			f   float64
			err error
		)
		if isString {
			f, err = strconv.ParseFloat(s, 64)
		} else {
			f, err = cast.ToFloat64E(v)
		}
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errNotFinite
		}
		return f, nil
	case TypeBoolean:
		if isString {
			return parseBoolString(s)
		}
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return !isEmpty(v), nil
	default:
		return cast.ToStringE(v)
	}
}

// parseIntString accepts decimal integers and truncates decimal fractions
// ("3.7" → 3). Leading zeros are decimal, never octal.
func parseIntString(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, err
	}
	return floatToInt(f)
}

var (
	errNotFinite  = errors.New("value is not a finite number")
	errOutOfRange = errors.New("value does not fit in int64")
)

// floatToInt truncates f toward zero. 2^63 itself is out of range: it is
// the first float64 above math.MaxInt64.
func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(f), nil
}

func parseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n", "":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// parseTime turns a string or a time.Time into a time. Strings are parsed
// with cast's layout list (RFC 3339, ISO dates, "2006-01-02 15:04:05", ...)
// in UTC when no zone is given.
func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		parsed, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

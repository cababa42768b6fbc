package params

import (
	"time"

	"github.com/spf13/cast"
)

type options struct {
	def        any
	allowEmpty bool
}

// Option overrides the default value or the allowEmpty flag of a typed
// wrapper such as [Bag.GetInt].
type Option func(*options)

// WithDefault sets the value returned when the parameter is missing,
// empty (unless allowed) or not convertible.
func WithDefault(def any) Option {
	return func(o *options) {
		o.def = def
	}
}

// AllowEmpty controls whether empty values ("", 0, "0", false, empty list)
// are returned as-is instead of being replaced by the default.
func AllowEmpty(allow bool) Option {
	return func(o *options) {
		o.allowEmpty = allow
	}
}

func apply(base options, opts []Option) options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// GetString reads a string. Defaults: "" and empty values allowed.
func (b *Bag) GetString(name string, opts ...Option) (string, error) {
	o := apply(options{def: "", allowEmpty: true}, opts)
	v, err := b.Get(name, o.def, string(TypeString), o.allowEmpty)
	if err != nil || v == nil {
		return "", err
	}
	return cast.ToStringE(v)
}

// GetInt reads an integer. Defaults: nil and empty values replaced, so a
// missing, "", "0" or 0 parameter yields nil.
func (b *Bag) GetInt(name string, opts ...Option) (*int64, error) {
	o := apply(options{def: nil, allowEmpty: false}, opts)
	v, err := b.Get(name, o.def, string(TypeInteger), o.allowEmpty)
	if err != nil || v == nil {
		return nil, err
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetFloat reads a floating point number. Defaults: nil and empty values
// replaced.
func (b *Bag) GetFloat(name string, opts ...Option) (*float64, error) {
	o := apply(options{def: nil, allowEmpty: false}, opts)
	v, err := b.Get(name, o.def, string(TypeDouble), o.allowEmpty)
	if err != nil || v == nil {
		return nil, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetBool reads a boolean. Defaults: false and empty values allowed.
func (b *Bag) GetBool(name string, opts ...Option) (bool, error) {
	o := apply(options{def: false, allowEmpty: true}, opts)
	v, err := b.Get(name, o.def, string(TypeBoolean), o.allowEmpty)
	if err != nil || v == nil {
		return false, err
	}
	flag, _ := v.(bool)
	return flag, nil
}

// GetArray reads a list. Only body bags support it. Defaults: nil and
// empty lists allowed.
func (b *Bag) GetArray(name string, opts ...Option) ([]any, error) {
	o := apply(options{def: nil, allowEmpty: true}, opts)
	v, err := b.Get(name, o.def, string(TypeArray), o.allowEmpty)
	if err != nil || v == nil {
		return nil, err
	}
	list, _ := v.([]any)
	return list, nil
}

// GetDatetime reads a point in time. Defaults: nil and empty values
// replaced.
func (b *Bag) GetDatetime(name string, opts ...Option) (*time.Time, error) {
	o := apply(options{def: nil, allowEmpty: false}, opts)
	v, err := b.Get(name, o.def, string(TypeDatetime), o.allowEmpty)
	if err != nil || v == nil {
		return nil, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

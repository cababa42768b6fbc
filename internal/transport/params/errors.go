package params

import "errors"

// ErrInvalidArgument is returned when a typed read is requested with an
// unknown or unsupported type tag, with a default that does not match the
// requested type, or when a datetime value and its default both fail to
// parse. It signals a programmer or bad-input error and is never recovered
// inside this package.
var ErrInvalidArgument = errors.New("invalid parameter argument")

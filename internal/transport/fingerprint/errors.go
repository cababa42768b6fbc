package fingerprint

import "errors"

// ErrSerializing is returned by Compute when the value cannot be encoded
// to JSON (channels, functions, cyclic structures).
var ErrSerializing = errors.New("fingerprint: value is not serializable")

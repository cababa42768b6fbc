package response

import "errors"

var (
	// ErrJSONEncoding is returned by Builder.SetJSON when the value cannot
	// be serialized. It is a server error.
	ErrJSONEncoding = errors.New("failed to encode response as JSON")

	// ErrNotEncoded is returned by Builder.SetJSON when alreadyEncoded is set
	// but the value is not a string, []byte or json.RawMessage.
	ErrNotEncoded = errors.New("pre-encoded JSON must be a string or bytes")

	// ErrWrite wraps failures writing the body to the client.
	ErrWrite = errors.New("failed to write response body")
)

package request

import "errors"

var (
	// ErrEmptyBody is returned by Snapshot.Body when a body is required but
	// the request carried no parameters. It is a client error.
	ErrEmptyBody = errors.New("body is empty")

	// ErrBodyTooLarge is returned by FromHTTP when the payload exceeds the
	// configured limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrReadBody wraps transport failures while reading the payload.
	ErrReadBody = errors.New("failed to read request body")
)

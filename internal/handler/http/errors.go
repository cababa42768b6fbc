// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced by the transport layer itself, before the request
// reaches the service layer. Callers can match against them with [errors.Is].
var (
	// ErrInvalidID is returned when the {id} path segment is not a positive
	// integer.
	ErrInvalidID = errors.New("invalid appointment id")

	// ErrInvalidQuery is returned when a listing query parameter is out of
	// range, such as a negative page.
	ErrInvalidQuery = errors.New("invalid query parameter")

	// ErrInvalidRequestEncoding is returned when a compressed request body
	// cannot be decoded.
	ErrInvalidRequestEncoding = errors.New("invalid request body encoding")

	// ErrUnsupportedRequestEncoding is returned for a Content-Encoding the
	// server cannot decode.
	ErrUnsupportedRequestEncoding = errors.New("unsupported request body encoding")

	// ErrRouteNotFound is returned when no route matches the path.
	ErrRouteNotFound = errors.New("route not found")

	// ErrMethodNotAllowed is returned when the path exists but not for the
	// request method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

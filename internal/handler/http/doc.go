// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Every handler reads its request through a request.Snapshot and answers
// through a response.Builder, so content negotiation, CORS and status lines
// are applied uniformly. Cross-cutting concerns such as request tracing,
// access logging and request-body decompression are handled by middleware
// before requests are delegated to the service layer.
package http

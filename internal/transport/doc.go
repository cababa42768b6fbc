// Package transport groups the HTTP transport core of the service.
//
// The subpackages are layered leaves first:
//   - fingerprint computes ETag validators from canonical payloads;
//   - params provides typed, default-aware reads over raw query/body bags;
//   - request builds an immutable snapshot of one inbound request;
//   - response accumulates a response and materializes it exactly once,
//     applying the status catalog, CORS policy and content negotiation.
//
// Nothing in these packages routes requests, authenticates callers or
// validates business rules; the handler layer does that and uses the core
// only through its exported API.
package transport

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or a negative cache TTL).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid listener settings
	// (for example, a missing address or a negative timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidTransportConfigs indicates invalid response policy settings.
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
)

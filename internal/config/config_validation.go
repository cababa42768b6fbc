// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.DB.MaxOpenConns < 0 || cfg.Storage.Cache.TTL < 0 || cfg.Storage.Cache.DB < 0 {
		return fmt.Errorf("%w: negative pool size, cache ttl or cache db", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: listen address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.RequestTimeout < 0 || cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidServerConfigs)
	}

	if cfg.Transport.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: negative body limit", ErrInvalidTransportConfigs)
	}

	return nil
}

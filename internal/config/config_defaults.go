package config

import "time"

const (
	defaultHTTPAddress      = "localhost:8080"
	defaultRequestTimeout   = 30 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLogLevel         = "info"
	defaultCacheTTL         = 5 * time.Minute
	defaultMaxBodyBytes     = 1 << 20
	defaultPreflightMethods = "OPTIONS, HEAD, GET, POST, PUT, DELETE"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: defaultLogLevel,
		},
		Server: Server{
			HTTPAddress:     defaultHTTPAddress,
			RequestTimeout:  defaultRequestTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Storage: Storage{
			Cache: Cache{
				TTL: defaultCacheTTL,
			},
		},
		Transport: Transport{
			MaxBodyBytes:     defaultMaxBodyBytes,
			PreflightMethods: defaultPreflightMethods,
		},
	}
}

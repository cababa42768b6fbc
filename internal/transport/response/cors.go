package response

import (
	"net/http"
	"strings"
)

const (
	// DefaultPreflightMethods is advertised by SendCorsPreflight when the
	// caller passes no method list.
	DefaultPreflightMethods = "OPTIONS, HEAD, GET"

	preflightAllowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization, If-None-Match, X-Trace-ID"
	preflightMaxAge       = "3600"
)

var localOrigins = []string{"https://localhost", "http://localhost"}

// allowOrigin echoes origin when it starts with a local origin, the
// request's own scheme://host or one of extra; otherwise it returns "*".
func allowOrigin(origin, scheme, hostname string, extra []string) string {
	if origin == "" {
		return "*"
	}

	prefixes := make([]string, 0, len(localOrigins)+1+len(extra))
	prefixes = append(prefixes, localOrigins...)
	if hostname != "" {
		prefixes = append(prefixes, scheme+"://"+hostname)
	}
	prefixes = append(prefixes, extra...)

	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(origin, prefix) {
			return origin
		}
	}
	return "*"
}

func (b *Builder) applyCORS(h http.Header) {
	var origin, scheme, hostname string
	if b.req != nil {
		origin, scheme, hostname = b.req.Origin(), b.req.Scheme(), b.req.Hostname()
	}
	h.Set("Access-Control-Allow-Origin", allowOrigin(origin, scheme, hostname, b.allowedOrigins))
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Add("Vary", "Origin")
}

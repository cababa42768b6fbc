// Package response accumulates an outbound HTTP response and materializes
// it exactly once.
//
// A Builder collects the status code, ordered header entries, body and MIME
// type, then Send applies, in order: content negotiation of the body, the
// status line from a static catalog, Cache-Control, CORS headers,
// Content-Length, Content-Type and finally the caller's headers. Every call
// after the first Send is a no-op, so an error handler may safely call Send
// again after a normal path already did.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/transport/request"
)

const (
	// DefaultType is the MIME type used until SetType or SetJSON is called.
	DefaultType = "text/plain; charset=utf-8"
	// JSONType is set by SetJSON.
	JSONType = "application/json"

	defaultProto = "HTTP/1.1"
)

// headerEntry is one caller header. An empty name marks a raw line that is
// interpreted verbatim: either a status line ("HTTP/1.1 404 Not Found") or
// a "Name: value" pair.
type headerEntry struct {
	name  string
	value string
}

// Builder is the per-request response state machine. It is not safe for
// concurrent use.
type Builder struct {
	w   http.ResponseWriter
	req *request.Snapshot
	log *logger.Logger

	code        int
	headers     []headerEntry
	body        []byte
	mimeType    string
	compress    bool
	corsApplied bool
	sent        bool
	statusLine  string

	allowedOrigins []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for non-fatal failures such as a
// compression error.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithAllowedOrigins adds origin prefixes echoed back by the CORS policy.
func WithAllowedOrigins(origins ...string) Option {
	return func(b *Builder) {
		b.allowedOrigins = append(b.allowedOrigins, origins...)
	}
}

// WithCompression sets the initial compression flag (default true).
func WithCompression(enabled bool) Option {
	return func(b *Builder) {
		b.compress = enabled
	}
}

// New returns a Builder writing to w for the request described by req.
// The initial state is 200 OK, no body, text/plain, compression enabled.
func New(w http.ResponseWriter, req *request.Snapshot, opts ...Option) *Builder {
	b := &Builder{
		w:        w,
		req:      req,
		log:      logger.Nop(),
		code:     http.StatusOK,
		mimeType: DefaultType,
		compress: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetCode sets the status code.
func (b *Builder) SetCode(code int) *Builder {
	if !b.sent {
		b.code = code
	}
	return b
}

// Code returns the status code set so far.
func (b *Builder) Code() int {
	return b.code
}

// AddHeader appends a named header. Headers are applied in insertion order
// after the built-in ones, replacing earlier values of the same name.
func (b *Builder) AddHeader(name, value string) *Builder {
	if !b.sent && name != "" {
		b.headers = append(b.headers, headerEntry{name: name, value: value})
	}
	return b
}

// AddRawHeader appends a raw header line. A line starting with "HTTP/"
// overrides the status code; any other line must have the form
// "Name: value".
func (b *Builder) AddRawHeader(line string) *Builder {
	if !b.sent {
		b.headers = append(b.headers, headerEntry{value: line})
	}
	return b
}

// SetETag adds an ETag header.
func (b *Builder) SetETag(tag string) *Builder {
	return b.AddHeader("ETag", tag)
}

// SetBody sets the raw body bytes.
func (b *Builder) SetBody(body []byte) *Builder {
	if !b.sent {
		b.body = body
	}
	return b
}

// SetType sets the Content-Type sent with a non-empty body.
func (b *Builder) SetType(mimeType string) *Builder {
	if !b.sent {
		b.mimeType = mimeType
	}
	return b
}

// SetCompression enables or disables content negotiation for this response.
func (b *Builder) SetCompression(enabled bool) *Builder {
	if !b.sent {
		b.compress = enabled
	}
	return b
}

// SetJSON serializes data as the body and switches the MIME type to JSON.
// When alreadyEncoded is true data must be a string, []byte or
// json.RawMessage and is used verbatim.
func (b *Builder) SetJSON(data any, alreadyEncoded bool) error {
	if b.sent {
		return nil
	}

	var payload []byte
	if alreadyEncoded {
		switch v := data.(type) {
		case string:
			payload = []byte(v)
		case []byte:
			payload = v
		case json.RawMessage:
			payload = v
		default:
			return fmt.Errorf("%w: got %T", ErrNotEncoded, data)
		}
	} else {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrJSONEncoding, err)
		}
		payload = encoded
	}

	b.body = payload
	b.mimeType = JSONType
	return nil
}

// Body returns the body as it stands; after Send it is the bytes that were
// (or, for HEAD, would have been) written.
func (b *Builder) Body() []byte {
	return b.body
}

// Sent reports whether the response has been materialized.
func (b *Builder) Sent() bool {
	return b.sent
}

// StatusLine returns the status line that Send emitted, or the one it would
// emit for the current code when nothing has been sent yet.
func (b *Builder) StatusLine() string {
	if b.sent {
		return b.statusLine
	}
	_, line := resolveStatus(b.proto(), b.code)
	return line
}

// Send materializes the response. Only the first call writes anything.
func (b *Builder) Send() error {
	if b.sent {
		return nil
	}

	if b.compress && len(b.body) > 0 {
		if acceptEncoding, ok := b.acceptEncoding(); ok {
			body, method, err := negotiate(acceptEncoding, b.body)
			if err != nil {
				b.log.Warn().Err(err).Str("accept_encoding", acceptEncoding).
					Msg("compression failed, sending identity")
			}
			b.body = body
			b.headers = append(b.headers, headerEntry{name: "Content-Encoding", value: method})
			b.w.Header().Add("Vary", "Accept-Encoding")
		}
	}

	code, line := resolveStatus(b.proto(), b.code)

	h := b.w.Header()
	h.Set("Cache-Control", "no-cache")
	if !b.corsApplied {
		b.applyCORS(h)
	}
	if code >= 200 && code != http.StatusNoContent && code != http.StatusNotModified {
		h.Set("Content-Length", strconv.Itoa(len(b.body)))
	}
	if len(b.body) > 0 {
		h.Set("Content-Type", b.mimeType)
	}
	if override, overrideLine, ok := b.applyHeaders(h); ok {
		code, line = override, overrideLine
		if !bodyAllowed(code) {
			h.Del("Content-Length")
		}
	}

	return b.finish(code, line, !b.isHead() && bodyAllowed(code))
}

// SendCorsPreflight answers a CORS preflight with 204 and no body. methods
// is the Access-Control-Allow-Methods value; empty means
// DefaultPreflightMethods.
func (b *Builder) SendCorsPreflight(methods string) error {
	if b.sent {
		return nil
	}
	if strings.TrimSpace(methods) == "" {
		methods = DefaultPreflightMethods
	}

	b.code = http.StatusNoContent
	code, line := resolveStatus(b.proto(), b.code)

	h := b.w.Header()
	h.Set("Access-Control-Allow-Methods", methods)
	h.Set("Access-Control-Allow-Headers", preflightAllowHeaders)
	h.Set("Access-Control-Max-Age", preflightMaxAge)
	b.applyCORS(h)
	b.corsApplied = true

	if override, overrideLine, ok := b.applyHeaders(h); ok {
		code, line = override, overrideLine
	}

	return b.finish(code, line, false)
}

func (b *Builder) finish(code int, line string, writeBody bool) error {
	b.sent = true
	b.statusLine = line
	b.w.WriteHeader(code)

	if !writeBody || len(b.body) == 0 {
		return nil
	}
	if _, err := b.w.Write(b.body); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// applyHeaders writes caller headers into h in insertion order. A raw
// status line overrides the code; the last one wins.
func (b *Builder) applyHeaders(h http.Header) (int, string, bool) {
	var (
		code       int
		line       string
		overridden bool
	)
	for _, e := range b.headers {
		if e.name != "" {
			h.Set(e.name, e.value)
			continue
		}

		raw := strings.TrimSpace(e.value)
		if c, l, ok := b.parseStatusLine(raw); ok {
			code, line, overridden = c, l, true
			continue
		}
		name, value, ok := strings.Cut(raw, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			b.log.Debug().Str("header", raw).Msg("ignoring malformed raw header")
			continue
		}
		h.Set(name, strings.TrimSpace(value))
	}
	return code, line, overridden
}

func (b *Builder) parseStatusLine(raw string) (int, string, bool) {
	if !strings.HasPrefix(raw, "HTTP/") {
		return 0, "", false
	}
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return 0, "", false
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, "", false
	}
	resolved, line := resolveStatus(b.proto(), code)
	return resolved, line, true
}

func (b *Builder) proto() string {
	if b.req == nil || b.req.Proto() == "" {
		return defaultProto
	}
	return b.req.Proto()
}

func (b *Builder) acceptEncoding() (string, bool) {
	if b.req == nil {
		return "", false
	}
	return b.req.AcceptEncoding()
}

func (b *Builder) isHead() bool {
	return b.req != nil && b.req.IsHead()
}

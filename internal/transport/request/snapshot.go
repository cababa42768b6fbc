// Package request builds an immutable snapshot of one inbound HTTP request:
// method, path, typed query and body bags, the conditional ETag and the
// transport facts the response builder needs (protocol, scheme, host,
// Origin, Accept-Encoding).
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-stevedore/internal/transport/fingerprint"
	"github.com/MKhiriev/go-stevedore/internal/transport/params"
)

const defaultProto = "HTTP/1.1"

// Inputs are the raw transport facts a Snapshot is built from.
type Inputs struct {
	Method string
	Header http.Header
	URL    *url.URL
	// Body is the raw payload. It is ignored when Form is non-empty.
	Body []byte
	// Form holds already decoded form fields.
	Form   url.Values
	Proto  string
	Scheme string
	Host   string
}

// Snapshot is a read-only view of one inbound request.
type Snapshot struct {
	method    string
	path      string
	header    http.Header
	query     *params.Bag
	body      *params.Bag
	preflight bool
	proto     string
	scheme    string
	host      string
}

// Build creates a snapshot from transport inputs. Header names are matched
// case-insensitively. A payload that is not a JSON object yields an empty
// body bag.
func Build(in Inputs) *Snapshot {
	header := make(http.Header, len(in.Header))
	for name, values := range in.Header {
		for _, v := range values {
			header.Add(name, v)
		}
	}

	s := &Snapshot{
		method: strings.ToUpper(strings.TrimSpace(in.Method)),
		path:   "/",
		header: header,
		proto:  in.Proto,
		scheme: strings.ToLower(in.Scheme),
		host:   in.Host,
	}
	if s.proto == "" {
		s.proto = defaultProto
	}
	if s.scheme == "" {
		s.scheme = "http"
	}

	var query url.Values
	if in.URL != nil {
		if in.URL.Path != "" {
			s.path = in.URL.Path
		}
		query = in.URL.Query()
		if s.host == "" {
			s.host = in.URL.Host
		}
	}
	s.query = params.FromValues(query, false)

	if len(in.Form) > 0 {
		s.body = params.FromValues(in.Form, true)
	} else {
		s.body = params.NewBody(decodeObject(in.Body))
	}

	s.preflight = s.method == http.MethodOptions &&
		s.has("Access-Control-Request-Method") &&
		s.has("Origin")

	return s
}

// FromHTTP reads r into a snapshot. Form-encoded requests use the parsed
// POST form as body; any other payload is read up to maxBody bytes
// (unlimited when maxBody <= 0) and decoded as JSON.
func FromHTTP(r *http.Request, maxBody int64) (*Snapshot, error) {
	in := inputsOf(r)

	if isForm(r.Header.Get("Content-Type")) {
		if maxBody > 0 {
			r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
		}
		if err := r.ParseForm(); err != nil {
			return nil, classifyReadError(err)
		}
		in.Form = r.PostForm
		return Build(in), nil
	}

	if r.Body != nil && r.Body != http.NoBody {
		reader := io.Reader(r.Body)
		if maxBody > 0 {
			reader = io.LimitReader(r.Body, maxBody+1)
		}
		payload, err := io.ReadAll(reader)
		if err != nil {
			return nil, classifyReadError(err)
		}
		if maxBody > 0 && int64(len(payload)) > maxBody {
			return nil, ErrBodyTooLarge
		}
		in.Body = payload
	}

	return Build(in), nil
}

// Method returns the upper-cased request method.
func (s *Snapshot) Method() string { return s.method }

// Path returns the URL path, "/" when none was given.
func (s *Snapshot) Path() string { return s.path }

// Query returns the query-string bag. It does not support arrays.
func (s *Snapshot) Query() *params.Bag { return s.query }

// Body returns the body bag, or ErrEmptyBody when it holds no keys and
// allowEmpty is false.
func (s *Snapshot) Body(allowEmpty bool) (*params.Bag, error) {
	if !allowEmpty && s.body.IsEmpty() {
		return nil, ErrEmptyBody
	}
	return s.body, nil
}

// ConditionalETag returns the raw If-None-Match header value.
func (s *Snapshot) ConditionalETag() (string, bool) {
	if !s.has("If-None-Match") {
		return "", false
	}
	return s.header.Get("If-None-Match"), true
}

// NotModified reports whether etag matches the If-None-Match list using
// weak comparison. "*" matches any current representation.
func (s *Snapshot) NotModified(etag string) bool {
	raw, ok := s.ConditionalETag()
	if !ok || etag == "" {
		return false
	}
	want := fingerprint.Opaque(etag)
	for _, candidate := range strings.Split(raw, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || (candidate != "" && fingerprint.Opaque(candidate) == want) {
			return true
		}
	}
	return false
}

// IsPreflight reports whether the request is a CORS preflight: an OPTIONS
// request carrying both Access-Control-Request-Method and Origin.
func (s *Snapshot) IsPreflight() bool { return s.preflight }

// IsHead reports whether the response must omit its body.
func (s *Snapshot) IsHead() bool { return s.method == http.MethodHead }

// Header returns the first value of the named header.
func (s *Snapshot) Header(name string) string { return s.header.Get(name) }

// Headers returns a copy of all request headers.
func (s *Snapshot) Headers() http.Header { return s.header.Clone() }

// Origin returns the Origin header.
func (s *Snapshot) Origin() string { return s.header.Get("Origin") }

// AcceptEncoding returns the Accept-Encoding header and whether it was sent
// at all; an empty header still counts as sent.
func (s *Snapshot) AcceptEncoding() (string, bool) {
	if !s.has("Accept-Encoding") {
		return "", false
	}
	return strings.Join(s.header.Values("Accept-Encoding"), ","), true
}

// Proto returns the protocol version string, e.g. "HTTP/1.1".
func (s *Snapshot) Proto() string { return s.proto }

// Scheme returns "http" or "https".
func (s *Snapshot) Scheme() string { return s.scheme }

// Host returns the Host header including any port.
func (s *Snapshot) Host() string { return s.host }

// Hostname returns Host without its port.
func (s *Snapshot) Hostname() string {
	if host, _, err := net.SplitHostPort(s.host); err == nil {
		return host
	}
	return s.host
}

func (s *Snapshot) has(name string) bool {
	return len(s.header.Values(name)) > 0
}

func decodeObject(payload []byte) map[string]any {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil
	}
	return values
}

func isForm(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

// WithoutBody snapshots everything of r except its payload. It is meant for
// answering a request whose body could not be read.
func WithoutBody(r *http.Request) *Snapshot {
	return Build(inputsOf(r))
}

func inputsOf(r *http.Request) Inputs {
	return Inputs{
		Method: r.Method,
		Header: r.Header,
		URL:    r.URL,
		Proto:  r.Proto,
		Scheme: schemeOf(r),
		Host:   r.Host,
	}
}

func schemeOf(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.URL != nil && r.URL.Scheme != "" {
		return r.URL.Scheme
	}
	return "http"
}

func classifyReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrBodyTooLarge
	}
	return fmt.Errorf("%w: %w", ErrReadBody, err)
}

package http

import (
	"net/http"

	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/internal/transport/fingerprint"
	"github.com/MKhiriev/go-stevedore/internal/transport/request"
	"github.com/MKhiriev/go-stevedore/internal/transport/response"
	"github.com/MKhiriev/go-stevedore/internal/utils"
	"github.com/MKhiriev/go-stevedore/models"
)

// exchange pairs the request snapshot with the response builder of one
// request.
type exchange struct {
	req *request.Snapshot
	res *response.Builder
	log *logger.Logger
	r   *http.Request
}

// begin snapshots r and prepares a builder for w. A body read failure is
// returned alongside a body-less snapshot so the error can still be answered
// with the usual headers.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (*exchange, error) {
	snap, err := request.FromHTTP(r, h.transport.MaxBodyBytes)
	if err != nil {
		snap = request.WithoutBody(r)
	}

	log := logger.FromRequest(r)
	return &exchange{
		req: snap,
		res: response.New(w, snap,
			response.WithLogger(log),
			response.WithAllowedOrigins(h.transport.AllowedOrigins...),
			response.WithCompression(!h.transport.DisableCompression),
		),
		log: log,
		r:   r,
	}, err
}

// json answers with code and v encoded as JSON.
func (e *exchange) json(code int, v any) {
	if err := e.res.SetCode(code).SetJSON(v, false); err != nil {
		e.fail(err)
		return
	}
	e.send()
}

// cacheable answers 200 with v and a weak ETag, or 304 when the client
// already holds that representation.
func (e *exchange) cacheable(v any) {
	if err := e.res.SetJSON(v, false); err != nil {
		e.fail(err)
		return
	}

	tag := fingerprint.ComputeBytes(e.res.Body(), true)
	e.res.SetETag(tag)
	if e.req.NotModified(tag) {
		e.res.SetCode(http.StatusNotModified).SetBody(nil)
	}
	e.send()
}

// fail answers with the status mapped from err and an ErrorResponse body.
// Details of server-side failures are logged, not returned.
func (e *exchange) fail(err error) {
	status := statusFromError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		e.log.Err(err).Str("func", "exchange.fail").Str("path", e.req.Path()).Msg("request failed")
		message = http.StatusText(status)
	}

	traceID, _ := utils.GetTraceIDFromContext(e.r.Context())
	body := models.ErrorResponse{Error: message, TraceID: traceID}

	e.res.SetCode(status)
	if jsonErr := e.res.SetJSON(body, false); jsonErr != nil {
		e.res.SetType(response.DefaultType).SetBody([]byte(message))
	}
	e.send()
}

func (e *exchange) send() {
	if err := e.res.Send(); err != nil {
		e.log.Warn().Err(err).Str("func", "exchange.send").Msg("failed to write response")
	}
}

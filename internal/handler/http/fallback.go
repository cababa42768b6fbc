package http

import (
	"net/http"
)

// withOptions answers every OPTIONS request before routing, so preflights
// succeed for any path.
func (h *Handler) withOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h.options(w, r)
	})
}

// options answers CORS preflights, and plain OPTIONS requests with the
// advertised method list.
func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	ex, _ := h.begin(w, r)

	if ex.req.IsPreflight() {
		if err := ex.res.SendCorsPreflight(h.transport.PreflightMethods); err != nil {
			ex.log.Warn().Err(err).Str("func", "Handler.options").Msg("failed to write preflight response")
		}
		return
	}

	allow := h.transport.PreflightMethods
	if allow == "" {
		allow = defaultAllow
	}
	ex.res.SetCode(http.StatusNoContent).AddHeader("Allow", allow)
	ex.send()
}

const defaultAllow = "OPTIONS, HEAD, GET, POST, PUT, DELETE"

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	ex, _ := h.begin(w, r)
	ex.fail(ErrRouteNotFound)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	ex, _ := h.begin(w, r)
	ex.fail(ErrMethodNotAllowed)
}

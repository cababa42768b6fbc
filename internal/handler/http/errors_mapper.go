package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-stevedore/internal/service"
	"github.com/MKhiriev/go-stevedore/internal/store"
	"github.com/MKhiriev/go-stevedore/internal/transport/params"
	"github.com/MKhiriev/go-stevedore/internal/transport/request"
	"github.com/MKhiriev/go-stevedore/internal/transport/response"
)

// errorStatuses is matched in order, so an error wrapping several
// sentinels gets the status of the first one listed.
var errorStatuses = []struct {
	err    error
	status int
}{
	{request.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
	{ErrUnsupportedRequestEncoding, http.StatusUnsupportedMediaType},
	{ErrInvalidRequestEncoding, http.StatusBadRequest},
	{ErrInvalidID, http.StatusBadRequest},
	{ErrInvalidQuery, http.StatusBadRequest},
	{request.ErrEmptyBody, http.StatusBadRequest},
	{request.ErrReadBody, http.StatusBadRequest},
	{params.ErrInvalidArgument, http.StatusBadRequest},
	{ErrRouteNotFound, http.StatusNotFound},
	{ErrMethodNotAllowed, http.StatusMethodNotAllowed},

	{store.ErrVersionConflict, http.StatusConflict},
	{store.ErrSlotTaken, http.StatusConflict},
	{store.ErrAppointmentNotFound, http.StatusNotFound},
	{service.ErrValidation, http.StatusUnprocessableEntity},

	{service.ErrVersionIsNotSpecified, http.StatusInternalServerError},
	{response.ErrJSONEncoding, http.StatusInternalServerError},
	{response.ErrNotEncoded, http.StatusInternalServerError},
	{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
	{store.ErrExecutingQuery, http.StatusInternalServerError},
	{store.ErrExecutingStatement, http.StatusInternalServerError},
	{store.ErrScanningRow, http.StatusInternalServerError},
	{store.ErrScanningRows, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

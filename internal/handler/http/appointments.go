package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-stevedore/internal/transport/params"
	"github.com/MKhiriev/go-stevedore/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	ex, err := h.begin(w, r)
	if err != nil {
		ex.fail(err)
		return
	}

	filter, err := filterFromQuery(ex.req.Query())
	if err != nil {
		ex.fail(err)
		return
	}

	page, err := h.services.AppointmentService.List(r.Context(), filter)
	if err != nil {
		ex.fail(err)
		return
	}
	ex.cacheable(page)
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	ex, err := h.begin(w, r)
	if err != nil {
		ex.fail(err)
		return
	}

	id, err := appointmentID(r)
	if err != nil {
		ex.fail(err)
		return
	}

	a, err := h.services.AppointmentService.Get(r.Context(), id)
	if err != nil {
		ex.fail(err)
		return
	}
	ex.cacheable(a)
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	ex, err := h.begin(w, r)
	if err != nil {
		ex.fail(err)
		return
	}

	body, err := ex.req.Body(false)
	if err != nil {
		ex.fail(err)
		return
	}
	a, err := appointmentFromBody(body)
	if err != nil {
		ex.fail(err)
		return
	}

	created, err := h.services.AppointmentService.Create(r.Context(), a)
	if err != nil {
		ex.fail(err)
		return
	}

	ex.res.AddHeader("Location", "/api/appointments/"+strconv.FormatInt(created.ID, 10))
	ex.json(http.StatusCreated, created)
}

func (h *Handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	ex, err := h.begin(w, r)
	if err != nil {
		ex.fail(err)
		return
	}

	id, err := appointmentID(r)
	if err != nil {
		ex.fail(err)
		return
	}
	body, err := ex.req.Body(false)
	if err != nil {
		ex.fail(err)
		return
	}
	a, err := appointmentFromBody(body)
	if err != nil {
		ex.fail(err)
		return
	}
	a.ID = id

	version, err := body.GetInt("version")
	if err != nil {
		ex.fail(err)
		return
	}
	if version != nil {
		a.Version = *version
	}

	updated, err := h.services.AppointmentService.Update(r.Context(), a)
	if err != nil {
		ex.fail(err)
		return
	}
	ex.json(http.StatusOK, updated)
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	ex, err := h.begin(w, r)
	if err != nil {
		ex.fail(err)
		return
	}

	id, err := appointmentID(r)
	if err != nil {
		ex.fail(err)
		return
	}

	if err = h.services.AppointmentService.Delete(r.Context(), id); err != nil {
		ex.fail(err)
		return
	}
	ex.res.SetCode(http.StatusNoContent)
	ex.send()
}

func appointmentID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// appointmentFromBody reads the writable fields. Missing or unconvertible
// values come back as zero values and are rejected by validation.
func appointmentFromBody(body *params.Bag) (models.Appointment, error) {
	var a models.Appointment

	kind, err := body.GetString("kind")
	if err != nil {
		return a, err
	}
	if a.Vessel, err = body.GetString("vessel"); err != nil {
		return a, err
	}
	if a.Berth, err = body.GetString("berth"); err != nil {
		return a, err
	}
	if a.Notes, err = body.GetString("notes"); err != nil {
		return a, err
	}
	scheduledAt, err := body.GetDatetime("scheduled_at")
	if err != nil {
		return a, err
	}
	duration, err := body.GetInt("duration_minutes")
	if err != nil {
		return a, err
	}

	a.Kind = models.AppointmentKind(kind)
	if scheduledAt != nil {
		a.ScheduledAt = *scheduledAt
	}
	if duration != nil {
		a.DurationMinutes = int(*duration)
	}
	return a, nil
}

func filterFromQuery(query *params.Bag) (models.AppointmentFilter, error) {
	var f models.AppointmentFilter

	kind, err := query.GetString("kind")
	if err != nil {
		return f, err
	}
	f.Kind = models.AppointmentKind(kind)
	if f.Berth, err = query.GetString("berth"); err != nil {
		return f, err
	}
	if f.From, err = query.GetDatetime("from"); err != nil {
		return f, err
	}
	if f.To, err = query.GetDatetime("to"); err != nil {
		return f, err
	}

	if f.Page, err = positive(query, "page"); err != nil {
		return f, err
	}
	if f.PerPage, err = positive(query, "per_page"); err != nil {
		return f, err
	}
	return f, nil
}

// positive reads an optional non-negative integer query parameter. Absent
// values yield zero so the service applies its defaults.
func positive(query *params.Bag, name string) (uint64, error) {
	n, err := query.GetInt(name)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	if *n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidQuery, name)
	}
	return uint64(*n), nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-stevedore/models"
)

const (
	maxVesselLength = 128
	maxBerthLength  = 32
	maxNotesLength  = 2048
	maxDuration     = 7 * 24 * 60

	// DefaultPerPage applies when a listing does not ask for a page size.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a listing may ask for.
	MaxPerPage = 100
)

// AppointmentValidationService checks and normalizes input before handing
// it to the wrapped service.
type AppointmentValidationService struct {
	inner AppointmentService
}

func NewAppointmentValidationService() AppointmentServiceWrapper {
	return &AppointmentValidationService{}
}

func (v *AppointmentValidationService) Wrap(inner AppointmentService) AppointmentService {
	v.inner = inner
	return v
}

func (v *AppointmentValidationService) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	a, err := normalizeAppointment(a)
	if err != nil {
		return models.Appointment{}, err
	}
	a.ID, a.Version = 0, 0
	return v.inner.Create(ctx, a)
}

func (v *AppointmentValidationService) Get(ctx context.Context, id int64) (models.Appointment, error) {
	if id <= 0 {
		return models.Appointment{}, invalid(ErrValidationInvalidID)
	}
	return v.inner.Get(ctx, id)
}

func (v *AppointmentValidationService) List(ctx context.Context, filter models.AppointmentFilter) (models.AppointmentPage, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return models.AppointmentPage{}, invalid(ErrValidationInvalidKind)
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return models.AppointmentPage{}, invalid(ErrValidationInvalidRange)
	}
	if filter.PerPage > MaxPerPage {
		return models.AppointmentPage{}, invalid(ErrValidationInvalidPaging)
	}

	filter.Berth = strings.TrimSpace(filter.Berth)
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PerPage == 0 {
		filter.PerPage = DefaultPerPage
	}
	return v.inner.List(ctx, filter)
}

func (v *AppointmentValidationService) Update(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if a.ID <= 0 {
		return models.Appointment{}, invalid(ErrValidationInvalidID)
	}
	if a.Version <= 0 {
		return models.Appointment{}, invalid(ErrValidationNoVersion)
	}
	a, err := normalizeAppointment(a)
	if err != nil {
		return models.Appointment{}, err
	}
	return v.inner.Update(ctx, a)
}

func (v *AppointmentValidationService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid(ErrValidationInvalidID)
	}
	return v.inner.Delete(ctx, id)
}

// normalizeAppointment trims text fields, moves the schedule to UTC and
// rejects values the schema would refuse.
func normalizeAppointment(a models.Appointment) (models.Appointment, error) {
	a.Kind = models.AppointmentKind(strings.ToLower(strings.TrimSpace(string(a.Kind))))
	a.Vessel = strings.TrimSpace(a.Vessel)
	a.Berth = strings.TrimSpace(a.Berth)
	a.Notes = strings.TrimSpace(a.Notes)

	switch {
	case !a.Kind.Valid():
		return a, invalid(ErrValidationInvalidKind)
	case a.Vessel == "" || utf8.RuneCountInString(a.Vessel) > maxVesselLength:
		return a, invalid(ErrValidationInvalidVessel)
	case a.Berth == "" || utf8.RuneCountInString(a.Berth) > maxBerthLength:
		return a, invalid(ErrValidationInvalidBerth)
	case a.ScheduledAt.IsZero():
		return a, invalid(ErrValidationNoSchedule)
	case a.DurationMinutes <= 0 || a.DurationMinutes > maxDuration:
		return a, invalid(ErrValidationInvalidDuration)
	case utf8.RuneCountInString(a.Notes) > maxNotesLength:
		return a, invalid(ErrValidationNotesTooLong)
	}

	a.ScheduledAt = a.ScheduledAt.UTC().Truncate(time.Second)
	return a, nil
}

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrValidation, reason)
}

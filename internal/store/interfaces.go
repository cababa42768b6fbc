package store

import (
	"context"

	"github.com/MKhiriev/go-stevedore/models"
)

// AppointmentRepository persists appointments.
//
//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock
type AppointmentRepository interface {
	// Create inserts a and returns the stored row with ID, Version and
	// timestamps filled in.
	Create(ctx context.Context, a models.Appointment) (models.Appointment, error)
	// Get returns the appointment with the given id or ErrAppointmentNotFound.
	Get(ctx context.Context, id int64) (models.Appointment, error)
	// List returns one page of appointments matching filter, ordered by
	// scheduled time.
	List(ctx context.Context, filter models.AppointmentFilter) (models.AppointmentPage, error)
	// Update overwrites the mutable fields of a if a.Version still matches
	// the stored version. It returns ErrVersionConflict otherwise.
	Update(ctx context.Context, a models.Appointment) (models.Appointment, error)
	// Delete removes the appointment with the given id.
	Delete(ctx context.Context, id int64) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

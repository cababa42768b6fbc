package service

import (
	"context"

	"github.com/MKhiriev/go-stevedore/models"
)

// AppointmentService is the use-case layer behind the appointment endpoints.
type AppointmentService interface {
	Create(ctx context.Context, a models.Appointment) (models.Appointment, error)
	Get(ctx context.Context, id int64) (models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) (models.AppointmentPage, error)
	Update(ctx context.Context, a models.Appointment) (models.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// AppInfoService reports what build is running.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// AppointmentServiceWrapper defines middleware composition for
// AppointmentService. Implementations wrap an existing AppointmentService to
// add behavior such as validation.
type AppointmentServiceWrapper interface {
	Wrap(AppointmentService) AppointmentService // returns a decorated AppointmentService applying additional behavior
}

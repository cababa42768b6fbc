package store

import "github.com/MKhiriev/go-stevedore/internal/logger"

// Storages groups every repository the service layer depends on.
type Storages struct {
	AppointmentRepository AppointmentRepository
}

// NewStorages builds the postgres-backed repositories on top of db.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		AppointmentRepository: NewAppointmentRepository(db, log),
	}
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/models"
	"github.com/jackc/pgerrcode"
)

// appointmentRepository is the PostgreSQL-backed implementation of
// [AppointmentRepository] over the "appointments" table.
//
// Reads go through [DB.withRetry] so that transient connection failures and
// serialization errors are retried; writes are executed once.
type appointmentRepository struct {
	*DB
	logger *logger.Logger
}

// NewAppointmentRepository constructs an [AppointmentRepository] backed by
// the provided database connection and logger.
func NewAppointmentRepository(db *DB, logger *logger.Logger) AppointmentRepository {
	return &appointmentRepository{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (models.Appointment, error) {
	var (
		a    models.Appointment
		kind string
	)
	err := row.Scan(
		&a.ID,
		&kind,
		&a.Vessel,
		&a.Berth,
		&a.ScheduledAt,
		&a.DurationMinutes,
		&a.Notes,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	a.Kind = models.AppointmentKind(kind)
	a.ScheduledAt = a.ScheduledAt.UTC()
	return a, err
}

// Create inserts a new appointment. A clash on (berth, scheduled_at) is
// reported as ErrSlotTaken.
func (r *appointmentRepository) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertAppointmentQuery(a)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.Create").Msg("failed to build query")
		return models.Appointment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanAppointment(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			log.Debug().Str("func", "appointmentRepository.Create").
				Str("berth", a.Berth).
				Time("scheduled_at", a.ScheduledAt).
				Msg("berth slot already booked")
			return models.Appointment{}, ErrSlotTaken
		}
		log.Err(err).Str("func", "appointmentRepository.Create").Msg("failed to insert appointment")
		return models.Appointment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return created, nil
}

// Get returns a single appointment by id.
func (r *appointmentRepository) Get(ctx context.Context, id int64) (models.Appointment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetAppointmentQuery(id)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.Get").Msg("failed to build query")
		return models.Appointment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.Appointment
	err = r.withRetry(ctx, func() error {
		var scanErr error
		found, scanErr = scanAppointment(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Appointment{}, ErrAppointmentNotFound
	case err != nil:
		log.Err(err).Str("func", "appointmentRepository.Get").Int64("id", id).Msg("failed to get appointment")
		return models.Appointment{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return found, nil
}

// List returns one page of appointments and the total number of matches.
func (r *appointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) (models.AppointmentPage, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountAppointmentsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.List").Msg("failed to build count query")
		return models.AppointmentPage{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	listQuery, listArgs, err := buildListAppointmentsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.List").Msg("failed to build list query")
		return models.AppointmentPage{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	page := models.AppointmentPage{
		Items:   make([]models.Appointment, 0),
		Page:    max(filter.Page, 1),
		PerPage: filter.PerPage,
	}

	err = r.withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&page.Total)
	})
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.List").Msg("failed to count appointments")
		return models.AppointmentPage{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if page.Total == 0 {
		return page, nil
	}

	var rows *sql.Rows
	err = r.withRetry(ctx, func() error {
		var queryErr error
		rows, queryErr = r.DB.QueryContext(ctx, listQuery, listArgs...)
		return queryErr
	})
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.List").Msg("failed to execute list query")
		return models.AppointmentPage{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		a, scanErr := scanAppointment(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "appointmentRepository.List").Msg("failed to scan appointment row")
			return models.AppointmentPage{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		page.Items = append(page.Items, a)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "appointmentRepository.List").Msg("error occurred during rows iteration")
		return models.AppointmentPage{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return page, nil
}

// Update applies a with an optimistic version check. When no row matches it
// tells a missing appointment apart from a stale version.
func (r *appointmentRepository) Update(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateAppointmentQuery(a)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.Update").Msg("failed to build query")
		return models.Appointment{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanAppointment(r.DB.QueryRowContext(ctx, query, args...))
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.Appointment{}, r.explainMissedUpdate(ctx, a)
	case postgresError(err) == pgerrcode.UniqueViolation:
		return models.Appointment{}, ErrSlotTaken
	default:
		log.Err(err).Str("func", "appointmentRepository.Update").Int64("id", a.ID).Msg("failed to update appointment")
		return models.Appointment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
}

func (r *appointmentRepository) explainMissedUpdate(ctx context.Context, a models.Appointment) error {
	log := logger.FromContext(ctx)

	query, args, err := buildAppointmentVersionQuery(a.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var current int64
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrAppointmentNotFound
	case err != nil:
		log.Err(err).Str("func", "appointmentRepository.Update").Int64("id", a.ID).Msg("failed to read current version")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	log.Debug().Str("func", "appointmentRepository.Update").
		Int64("id", a.ID).
		Int64("expected_version", a.Version).
		Int64("current_version", current).
		Msg("version conflict")
	return ErrVersionConflict
}

// Delete removes an appointment by id.
func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteAppointmentQuery(id)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.Delete").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "appointmentRepository.Delete").Int64("id", id).Msg("failed to delete appointment")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

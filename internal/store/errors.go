package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAppointmentNotFound is returned when no appointment has the
	// requested id.
	ErrAppointmentNotFound = errors.New("appointment was not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the version supplied with an update does not match the stored one,
	// meaning someone else modified the appointment in the meantime.
	ErrVersionConflict = errors.New("appointment version conflict occurred")

	// ErrSlotTaken is returned when another appointment is already booked on
	// the same berth at the same start time.
	ErrSlotTaken = errors.New("berth slot is already taken")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan appointment row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan appointment rows")

	// ErrConnecting is returned when the database cannot be opened or pinged.
	ErrConnecting = errors.New("error connecting database")
)

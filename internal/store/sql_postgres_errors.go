package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells withRetry whether a failed read may be repeated.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// transientCodes are retried on top of the whole of class 08.
var transientCodes = map[string]struct{}{
	pgerrcode.TransactionRollback:  {},
	pgerrcode.SerializationFailure: {},
	pgerrcode.DeadlockDetected:     {},
	pgerrcode.LockNotAvailable:     {},
	pgerrcode.AdminShutdown:        {},
	pgerrcode.CannotConnectNow:     {},
}

// PostgresErrorClassifier classifies pgx driver errors by SQLSTATE.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify reports Retryable for connection loss, serialization and lock
// failures. Constraint violations, bad queries and anything that is not a
// *pgconn.PgError are NonRetryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return NonRetryable
	}

	if pgerrcode.IsConnectionException(pgErr.Code) {
		return Retryable
	}
	if _, ok := transientCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/MKhiriev/go-stevedore/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 100 * time.Millisecond
)

// DB wraps the connection pool together with the error classifier that
// drives retries of transient failures.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	maxAttempts int
	retryDelay  time.Duration
}

// NewConnectPostgres opens a pgx-backed pool for cfg.DSN and pings it.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occurred during database connection")
		return nil, fmt.Errorf("%w: %w", ErrConnecting, err)
	}

	// setup connections
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnecting, err)
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return newDB(conn, log), nil
}

func newDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
		maxAttempts:        defaultMaxAttempts,
		retryDelay:         defaultRetryDelay,
	}
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate() error {
	if err := migrations.Migrate(db.DB); err != nil {
		db.logger.Err(err).Str("func", "DB.Migrate").Msg("failed to apply migrations")
		return err
	}
	db.logger.Info().Str("func", "DB.Migrate").Msg("migrations applied")
	return nil
}

// withRetry runs fn until it succeeds, returns a non-retryable error, the
// attempts are exhausted or ctx is done.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	attempts := max(db.maxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable || attempt == attempts {
			return err
		}

		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "DB.withRetry").
			Int("attempt", attempt).
			Msg("retrying transient database error")

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(db.retryDelay * time.Duration(attempt)):
		}
	}
	return err
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrValidation wraps every input validation failure below.
	ErrValidation = errors.New("validation failed")

	ErrValidationInvalidID       = errors.New("appointment id must be positive")
	ErrValidationInvalidKind     = errors.New("unknown appointment kind")
	ErrValidationInvalidVessel   = errors.New("vessel name is empty or too long")
	ErrValidationInvalidBerth    = errors.New("berth is empty or too long")
	ErrValidationNoSchedule      = errors.New("scheduled time is not set")
	ErrValidationInvalidDuration = errors.New("duration is out of range")
	ErrValidationNotesTooLong    = errors.New("notes are too long")
	ErrValidationNoVersion       = errors.New("version is required for update")
	ErrValidationInvalidRange    = errors.New("time range start must precede its end")
	ErrValidationInvalidPaging   = errors.New("page size is out of range")
)

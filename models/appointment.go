package models

import "time"

// AppointmentKind is the category of port work an appointment books.
type AppointmentKind string

const (
	KindShipping    AppointmentKind = "shipping"
	KindTimber      AppointmentKind = "timber"
	KindBulk        AppointmentKind = "bulk"
	KindStevedoring AppointmentKind = "stevedoring"
)

// Valid reports whether k is one of the known kinds.
func (k AppointmentKind) Valid() bool {
	switch k {
	case KindShipping, KindTimber, KindBulk, KindStevedoring:
		return true
	}
	return false
}

// Appointment is a booked berth slot for a vessel.
type Appointment struct {
	// ID is assigned by the database on insert.
	ID int64 `json:"id"`

	Kind   AppointmentKind `json:"kind"`
	Vessel string          `json:"vessel"`
	Berth  string          `json:"berth"`

	// ScheduledAt is the slot start, stored in UTC.
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`

	Notes string `json:"notes,omitempty"`

	// Version is incremented on every update and used for optimistic
	// locking: an update must carry the version it was based on.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndsAt returns the end of the booked slot.
func (a Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// AppointmentFilter narrows a listing. Zero fields do not filter.
type AppointmentFilter struct {
	Kind  AppointmentKind
	Berth string
	From  *time.Time
	To    *time.Time

	// Page is 1-based.
	Page    uint64
	PerPage uint64
}

// Offset returns the number of rows to skip for the requested page.
func (f AppointmentFilter) Offset() uint64 {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// AppointmentPage is one page of a listing.
type AppointmentPage struct {
	Items   []Appointment `json:"items"`
	Page    uint64        `json:"page"`
	PerPage uint64        `json:"per_page"`
	Total   uint64        `json:"total"`
}

package store

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-stevedore/models"
)

const appointmentsTable = "appointments"

var appointmentColumns = []string{
	"id",
	"kind",
	"vessel",
	"berth",
	"scheduled_at",
	"duration_minutes",
	"notes",
	"version",
	"created_at",
	"updated_at",
}

// psql builds postgres statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func returningAppointment() string {
	return "RETURNING " + strings.Join(appointmentColumns, ", ")
}

func buildInsertAppointmentQuery(a models.Appointment) (string, []any, error) {
	return psql.Insert(appointmentsTable).
		Columns("kind", "vessel", "berth", "scheduled_at", "duration_minutes", "notes").
		Values(string(a.Kind), a.Vessel, a.Berth, a.ScheduledAt.UTC(), a.DurationMinutes, a.Notes).
		Suffix(returningAppointment()).
		ToSql()
}

func buildGetAppointmentQuery(id int64) (string, []any, error) {
	return psql.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

func appointmentFilterConditions(f models.AppointmentFilter) squirrel.And {
	conds := squirrel.And{}
	if f.Kind != "" {
		conds = append(conds, squirrel.Eq{"kind": string(f.Kind)})
	}
	if f.Berth != "" {
		conds = append(conds, squirrel.Eq{"berth": f.Berth})
	}
	if f.From != nil {
		conds = append(conds, squirrel.GtOrEq{"scheduled_at": f.From.UTC()})
	}
	if f.To != nil {
		conds = append(conds, squirrel.Lt{"scheduled_at": f.To.UTC()})
	}
	return conds
}

func buildListAppointmentsQuery(f models.AppointmentFilter) (string, []any, error) {
	q := psql.Select(appointmentColumns...).
		From(appointmentsTable).
		OrderBy("scheduled_at ASC", "id ASC")
	if conds := appointmentFilterConditions(f); len(conds) > 0 {
		q = q.Where(conds)
	}
	if f.PerPage > 0 {
		q = q.Limit(f.PerPage).Offset(f.Offset())
	}
	return q.ToSql()
}

func buildCountAppointmentsQuery(f models.AppointmentFilter) (string, []any, error) {
	q := psql.Select("COUNT(*)").From(appointmentsTable)
	if conds := appointmentFilterConditions(f); len(conds) > 0 {
		q = q.Where(conds)
	}
	return q.ToSql()
}

// buildUpdateAppointmentQuery matches on id and the caller's version, so a
// stale version updates nothing.
func buildUpdateAppointmentQuery(a models.Appointment) (string, []any, error) {
	return psql.Update(appointmentsTable).
		Set("kind", string(a.Kind)).
		Set("vessel", a.Vessel).
		Set("berth", a.Berth).
		Set("scheduled_at", a.ScheduledAt.UTC()).
		Set("duration_minutes", a.DurationMinutes).
		Set("notes", a.Notes).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Where(squirrel.Eq{"version": a.Version}).
		Suffix(returningAppointment()).
		ToSql()
}

func buildAppointmentVersionQuery(id int64) (string, []any, error) {
	return psql.Select("version").
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

func buildDeleteAppointmentQuery(id int64) (string, []any, error) {
	return psql.Delete(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

package repositories

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Postgres TIME columns scan into pgtype.Time, not time.Time. These helpers
// convert to and from the zero-date clock representation used by the models.

func clockFromPg(t pgtype.Time) time.Time {
	base := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	if !t.Valid {
		return base
	}
	return base.Add(time.Duration(t.Microseconds) * time.Microsecond)
}

func pgFromClock(t time.Time) pgtype.Time {
	micros := int64(t.Hour())*3600_000_000 +
		int64(t.Minute())*60_000_000 +
		int64(t.Second())*1_000_000
	return pgtype.Time{Microseconds: micros, Valid: true}
}

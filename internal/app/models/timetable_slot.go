package models

import (
	"time"

	"github.com/google/uuid"
)

// TimetableSlot is a recurring weekly schedule template. Slots never record
// attendance directly; sessions are materialized from them.
type TimetableSlot struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CourseID    uuid.UUID  `json:"course_id" db:"course_id"`
	ClassroomID uuid.UUID  `json:"classroom_id" db:"classroom_id"`
	LecturerID  *uuid.UUID `json:"lecturer_id,omitempty" db:"lecturer_id"`

	// DayOfWeek uses 0=Monday .. 6=Sunday.
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	EffectiveFrom  *time.Time `json:"effective_from,omitempty" db:"effective_from"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty" db:"effective_until"`
	IsActive       bool       `json:"is_active" db:"is_active"`

	// Relations (populated when needed)
	CourseCode   string `json:"course_code,omitempty"`
	CourseName   string `json:"course_name,omitempty"`
	RoomCode     string `json:"room_code,omitempty"`
	RoomName     string `json:"room_name,omitempty"`
	LecturerName string `json:"lecturer_name,omitempty"`
}

// Overlaps reports whether two time-of-day windows intersect. Both slots are
// assumed to be on the same weekday and in the same room.
func (s *TimetableSlot) Overlaps(start, end time.Time) bool {
	return clockOf(start).Before(clockOf(s.EndTime)) && clockOf(s.StartTime).Before(clockOf(end))
}

// clockOf strips a timestamp down to its time-of-day component.
func clockOf(t time.Time) time.Time {
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

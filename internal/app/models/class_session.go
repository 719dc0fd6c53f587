package models

import (
	"time"

	"github.com/google/uuid"
)

// ClassSession is one concrete occurrence of a course meeting. It is created
// either explicitly by a lecturer starting a live session, or implicitly when
// the session resolver materializes one from a timetable slot.
//
// StartTime and EndTime carry only a time of day; SessionDate carries the day.
type ClassSession struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	CourseID        uuid.UUID  `json:"course_id" db:"course_id"`
	TimetableSlotID *uuid.UUID `json:"timetable_slot_id,omitempty" db:"timetable_slot_id"`

	SessionDate time.Time `json:"session_date" db:"session_date"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`

	ClassroomID *uuid.UUID `json:"classroom_id,omitempty" db:"classroom_id"`
	LecturerID  *uuid.UUID `json:"lecturer_id,omitempty" db:"lecturer_id"`

	// QRCode is the single-use token students scan in the live-session flow.
	QRCode         string `json:"qr_code,omitempty" db:"qr_code"`
	RoomUniqueCode string `json:"room_unique_code,omitempty" db:"room_unique_code"`

	Status SessionStatus `json:"status" db:"status"`
	Active bool          `json:"active" db:"active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WindowContains reports whether the session window covers the given instant
// on the session's date.
func (s *ClassSession) WindowContains(at time.Time) bool {
	y1, m1, d1 := s.SessionDate.Date()
	y2, m2, d2 := at.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return false
	}
	clock := time.Date(0, 1, 1, at.Hour(), at.Minute(), at.Second(), 0, time.UTC)
	start := time.Date(0, 1, 1, s.StartTime.Hour(), s.StartTime.Minute(), s.StartTime.Second(), 0, time.UTC)
	end := time.Date(0, 1, 1, s.EndTime.Hour(), s.EndTime.Minute(), s.EndTime.Second(), 0, time.UTC)
	return !clock.Before(start) && !clock.After(end)
}

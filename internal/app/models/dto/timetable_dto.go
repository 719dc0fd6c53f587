package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// CreateSlotRequest represents timetable slot creation data. Times are
// clock times in "HH:MM" form; DayOfWeek uses 0=Monday through 6=Sunday.
type CreateSlotRequest struct {
	CourseID       uuid.UUID `json:"courseId" binding:"required"`
	ClassroomID    uuid.UUID `json:"classroomId" binding:"required"`
	DayOfWeek      int       `json:"dayOfWeek" binding:"min=0,max=6"`
	StartTime      string    `json:"startTime" binding:"required"`
	EndTime        string    `json:"endTime" binding:"required"`
	EffectiveFrom  string    `json:"effectiveFrom,omitempty"`
	EffectiveUntil string    `json:"effectiveUntil,omitempty"`
}

// UpdateSlotRequest represents timetable slot update data.
type UpdateSlotRequest struct {
	DayOfWeek int    `json:"dayOfWeek" binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// SlotResponse represents a timetable slot with its course and room.
type SlotResponse struct {
	ID           uuid.UUID `json:"id"`
	CourseID     uuid.UUID `json:"courseId"`
	CourseCode   string    `json:"courseCode,omitempty"`
	CourseName   string    `json:"courseName,omitempty"`
	ClassroomID  uuid.UUID `json:"classroomId"`
	RoomCode     string    `json:"roomCode,omitempty"`
	RoomName     string    `json:"roomName,omitempty"`
	LecturerName string    `json:"lecturerName,omitempty"`
	DayOfWeek    int       `json:"dayOfWeek"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	IsActive     bool      `json:"isActive"`
}

// WeeklyTimetableResponse groups slots by weekday, Monday first.
type WeeklyTimetableResponse struct {
	Days [7][]SlotResponse `json:"days"`
}

// NewSlotResponse maps a timetable slot model to its response form.
func NewSlotResponse(s *models.TimetableSlot) SlotResponse {
	return SlotResponse{
		ID:           s.ID,
		CourseID:     s.CourseID,
		CourseCode:   s.CourseCode,
		CourseName:   s.CourseName,
		ClassroomID:  s.ClassroomID,
		RoomCode:     s.RoomCode,
		RoomName:     s.RoomName,
		LecturerName: s.LecturerName,
		DayOfWeek:    s.DayOfWeek,
		StartTime:    s.StartTime.Format("15:04"),
		EndTime:      s.EndTime.Format("15:04"),
		IsActive:     s.IsActive,
	}
}

// ParseClock parses an "HH:MM" clock value into a time-of-day anchored at
// the zero date, matching how slot times are stored.
func ParseClock(v string) (time.Time, error) {
	return time.Parse("15:04", v)
}

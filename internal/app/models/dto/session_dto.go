package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// StartSessionRequest represents a lecturer starting an ad-hoc class session.
type StartSessionRequest struct {
	CourseID        uuid.UUID `json:"courseId" binding:"required"`
	ClassroomID     uuid.UUID `json:"classroomId" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,gt=0,lte=480"`
}

// SessionResponse represents a class session.
type SessionResponse struct {
	ID              uuid.UUID            `json:"id"`
	CourseID        uuid.UUID            `json:"courseId"`
	TimetableSlotID *uuid.UUID           `json:"timetableSlotId,omitempty"`
	SessionDate     string               `json:"sessionDate"`
	StartTime       string               `json:"startTime"`
	EndTime         string               `json:"endTime"`
	ClassroomID     *uuid.UUID           `json:"classroomId,omitempty"`
	LecturerID      *uuid.UUID           `json:"lecturerId,omitempty"`
	QRCode          string               `json:"qrCode"`
	RoomUniqueCode  string               `json:"roomUniqueCode"`
	Status          models.SessionStatus `json:"status"`
	Active          bool                 `json:"active"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// SessionListResponse represents a list of sessions.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	PaginationInfo
}

// ResolveSessionResponse reports whether a session is currently running for
// a room. Resolved=false with a nil session is a normal answer, not an error.
type ResolveSessionResponse struct {
	Resolved  bool             `json:"resolved"`
	SessionID *uuid.UUID       `json:"session_id,omitempty"`
	Session   *SessionResponse `json:"session,omitempty"`
}

// NewSessionResponse maps a session model to its response form.
func NewSessionResponse(s *models.ClassSession) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		CourseID:        s.CourseID,
		TimetableSlotID: s.TimetableSlotID,
		SessionDate:     s.SessionDate.Format("2006-01-02"),
		StartTime:       s.StartTime.Format("15:04"),
		EndTime:         s.EndTime.Format("15:04"),
		ClassroomID:     s.ClassroomID,
		LecturerID:      s.LecturerID,
		QRCode:          s.QRCode,
		RoomUniqueCode:  s.RoomUniqueCode,
		Status:          s.Status,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
	}
}

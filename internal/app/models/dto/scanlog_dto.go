package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// ScanLogFilterRequest represents scan log query parameters.
type ScanLogFilterRequest struct {
	StudentID  string `form:"studentId"`
	RoomCode   string `form:"roomCode"`
	Successful *bool  `form:"successful"`
	Since      string `form:"since"`
	Until      string `form:"until"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"pageSize,default=50"`
}

// ScanLogResponse represents one audit log entry.
type ScanLogResponse struct {
	ID               uuid.UUID  `json:"id"`
	Timestamp        time.Time  `json:"timestamp"`
	StudentID        uuid.UUID  `json:"studentId"`
	StudentName      string     `json:"studentName,omitempty"`
	AdmissionNumber  string     `json:"admissionNumber,omitempty"`
	RoomCode         string     `json:"roomCode"`
	IsSuccessful     bool       `json:"isSuccessful"`
	StatusMessage    string     `json:"statusMessage"`
	SessionID        *uuid.UUID `json:"sessionId,omitempty"`
	DetectedLocation *string    `json:"detectedLocation,omitempty"`
}

// ScanLogListResponse represents a page of audit log entries.
type ScanLogListResponse struct {
	Logs []ScanLogResponse `json:"logs"`
	PaginationInfo
}

// NewScanLogResponse maps a scan log model to its response form.
func NewScanLogResponse(l *models.ScanLog) ScanLogResponse {
	return ScanLogResponse{
		ID:               l.ID,
		Timestamp:        l.Timestamp,
		StudentID:        l.StudentID,
		StudentName:      l.StudentName,
		AdmissionNumber:  l.AdmissionNumber,
		RoomCode:         l.RoomCode,
		IsSuccessful:     l.IsSuccessful,
		StatusMessage:    l.StatusMessage,
		SessionID:        l.SessionID,
		DetectedLocation: l.DetectedLocation,
	}
}

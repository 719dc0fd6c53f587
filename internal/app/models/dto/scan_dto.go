package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// VerifyScanRequest represents the multipart form submitted by the mobile
// client when a student scans a room QR code. The evidence photo travels as
// the "evidence" file part and is handled separately by the controller.
type VerifyScanRequest struct {
	RoomCode       string `form:"roomCode" binding:"required"`
	ConnectionType string `form:"connectionType"`
	LocationStatus string `form:"locationStatus"`
	Latitude       string `form:"latitude"`
	Longitude      string `form:"longitude"`
}

// ScanResultResponse reports the outcome of a scan attempt. Rejections such
// as an unknown room code are reported here with Success=false rather than as
// HTTP errors, so the client can always render the message verbatim. Field
// names are frozen for compatibility with the deployed mobile client.
type ScanResultResponse struct {
	Success       bool                    `json:"success"`
	AlreadyMarked bool                    `json:"already_marked,omitempty"`
	Message       string                  `json:"message"`
	Status        models.AttendanceStatus `json:"status,omitempty"`
	SessionID     *uuid.UUID              `json:"session_id,omitempty"`
	AttendanceID  *uuid.UUID              `json:"attendance_id,omitempty"`
	CourseName    string                  `json:"course_name,omitempty"`
	RoomName      string                  `json:"room_name,omitempty"`
}

// AttendanceRecordResponse represents one attendance record with its student
// and any integrity flags attached during review.
type AttendanceRecordResponse struct {
	ID              uuid.UUID               `json:"id"`
	SessionID       uuid.UUID               `json:"sessionId"`
	StudentID       uuid.UUID               `json:"studentId"`
	StudentName     string                  `json:"studentName,omitempty"`
	AdmissionNumber string                  `json:"admissionNumber,omitempty"`
	ScanTime        time.Time               `json:"scanTime"`
	Status          models.AttendanceStatus `json:"status"`
	ConnectionType  *string                 `json:"connectionType,omitempty"`
	IPAddress       *string                 `json:"ipAddress,omitempty"`
	EvidencePath    *string                 `json:"evidencePath,omitempty"`
	Flags           []CheatingFlagResponse  `json:"flags,omitempty"`
}

// CheatingFlagResponse represents an integrity flag raised against a record.
type CheatingFlagResponse struct {
	ID              uuid.UUID `json:"id"`
	Reason          string    `json:"reason"`
	SimilarityScore float64   `json:"similarityScore"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewAttendanceRecordResponse maps a model to its response form.
func NewAttendanceRecordResponse(rec *models.AttendanceRecord) AttendanceRecordResponse {
	resp := AttendanceRecordResponse{
		ID:              rec.ID,
		SessionID:       rec.SessionID,
		StudentID:       rec.StudentID,
		StudentName:     rec.StudentName,
		AdmissionNumber: rec.AdmissionNumber,
		ScanTime:        rec.ScanTime,
		Status:          rec.Status,
		ConnectionType:  rec.ConnectionType,
		IPAddress:       rec.IPAddress,
		EvidencePath:    rec.EvidencePath,
	}
	for _, f := range rec.Flags {
		resp.Flags = append(resp.Flags, CheatingFlagResponse{
			ID:              f.ID,
			Reason:          f.Reason,
			SimilarityScore: f.SimilarityScore,
			CreatedAt:       f.CreatedAt,
		})
	}
	return resp
}

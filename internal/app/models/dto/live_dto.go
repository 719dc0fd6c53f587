package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// Delivery mode labels produced by the live cohort analysis.
const (
	CohortModePhysical = "Physical Class"
	CohortModeOnline   = "Online / Distributed"
	CohortModeUnknown  = "Unknown"
)

// LiveAttendeeView is one attendee row in the live session view. Status is
// the displayed status and may differ from the stored record when the cohort
// analysis marks the scan as a network outlier; the stored record is never
// rewritten, and AIFlag carries the reason for the downgrade.
type LiveAttendeeView struct {
	AttendanceID    uuid.UUID               `json:"attendance_id"`
	StudentID       uuid.UUID               `json:"student_id"`
	Student         string                  `json:"student"`
	AdmissionNumber string                  `json:"admission_number,omitempty"`
	ScanTime        time.Time               `json:"time"`
	Status          models.AttendanceStatus `json:"status"`
	Connection      string                  `json:"connection"`
	IP              string                  `json:"ip"`
	EvidenceURL     string                  `json:"evidence_url,omitempty"`
	AIFlag          string                  `json:"ai_flag,omitempty"`
}

// LiveSessionResponse is the lecturer's live view of a running session.
type LiveSessionResponse struct {
	SessionID       uuid.UUID          `json:"session_id"`
	Mode            string             `json:"mode"`
	AttendeeCount   int                `json:"attendee_count"`
	RegisteredCount int64              `json:"registered_count"`
	DominantIP      string             `json:"dominant_ip,omitempty"`
	DominantRatio   float64            `json:"dominant_ratio"`
	Attendees       []LiveAttendeeView `json:"attendees"`
}

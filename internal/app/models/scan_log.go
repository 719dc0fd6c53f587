package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanLog is the append-only audit record of a single scan attempt. One row
// is written for every attempt, including scans that never resolve to a room
// or session. Rows are never deleted; the only post-insert mutation allowed
// is finalizing the outcome and filling in the session reference found
// mid-flow.
type ScanLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	StudentID uuid.UUID `json:"student_id" db:"student_id"`
	RoomCode  string    `json:"room_code" db:"room_code"`

	IsSuccessful  bool   `json:"is_successful" db:"is_successful"`
	StatusMessage string `json:"status_message" db:"status_message"`

	SessionID        *uuid.UUID `json:"session_id,omitempty" db:"session_id"`
	DetectedLocation *string    `json:"detected_location,omitempty" db:"detected_location"`

	// Relations (populated when needed)
	StudentName     string `json:"student_name,omitempty"`
	AdmissionNumber string `json:"admission_number,omitempty"`
}

// Scan log status messages. The verifier finalizes every log with one of
// these; dashboards group on them.
const (
	ScanMsgInitializing  = "Initializing"
	ScanMsgInvalidRoom   = "Invalid Room Code"
	ScanMsgNoClass       = "No Class Scheduled"
	ScanMsgNotRegistered = "Flagged (Not Registered)"
	ScanMsgDuplicate     = "Duplicate Scan (Already Marked)"
	ScanMsgPresent       = "Marked Present"
)

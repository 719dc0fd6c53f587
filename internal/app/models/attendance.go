package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is the persisted outcome of an accepted scan. At most one
// record exists per (session, student); duplicates are absorbed upstream and
// backstopped by a unique constraint. ScanTime and identity never change once
// written; only cheating flags may be attached afterwards.
type AttendanceRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID uuid.UUID `json:"session_id" db:"session_id"`
	StudentID uuid.UUID `json:"student_id" db:"student_id"`
	ScanTime  time.Time `json:"scan_time" db:"scan_time"`

	Status AttendanceStatus `json:"status" db:"status"`

	// EvidencePath points at the stored evidence photo, set even when the
	// evidence was flagged. Rejected evidence is retained for audit.
	EvidencePath   *string `json:"evidence_path,omitempty" db:"evidence_path"`
	ConnectionType *string `json:"connection_type,omitempty" db:"connection_type"`
	IPAddress      *string `json:"ip_address,omitempty" db:"ip_address"`

	// Metadata is the enriched client/evidence metadata as a JSON document.
	Metadata []byte `json:"-" db:"metadata"`

	// Relations (populated when needed)
	StudentName     string         `json:"student_name,omitempty"`
	AdmissionNumber string         `json:"admission_number,omitempty"`
	Flags           []CheatingFlag `json:"flags,omitempty"`
}

// CheatingFlag is an additive annotation attached to an attendance record by
// the evidence review pass. It never overwrites the base record.
type CheatingFlag struct {
	ID              uuid.UUID `json:"id" db:"id"`
	AttendanceID    uuid.UUID `json:"attendance_id" db:"attendance_id"`
	Reason          string    `json:"reason" db:"reason"`
	SimilarityScore float64   `json:"similarity_score" db:"similarity_score"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent  RoleType = "STUDENT"
	RoleLecturer RoleType = "LECTURER"
	RoleAdmin    RoleType = "ADMIN"
)

// ClassroomStatus is the administrative state of a room.
type ClassroomStatus string

const (
	ClassroomAvailable   ClassroomStatus = "available"
	ClassroomMaintenance ClassroomStatus = "maintenance"
	ClassroomReserved    ClassroomStatus = "reserved"
)

// SessionStatus is the lifecycle state of a class session.
// Completed and cancelled are terminal.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// AttendanceStatus is the trust verdict stored on an attendance record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	// AttendanceFlagged marks a scan by a student not registered for the course.
	AttendanceFlagged AttendanceStatus = "flagged"
	// Evidence verdicts, one per failed check of the evidence pipeline.
	AttendanceFlaggedNoMetadata   AttendanceStatus = "flagged_no_metadata"
	AttendanceFlaggedCorruptImage AttendanceStatus = "flagged_corrupt_image"
	AttendanceFlaggedNoLocation   AttendanceStatus = "flagged_no_location"
	AttendanceFlaggedMobileData   AttendanceStatus = "flagged_mobile_data"
	// AttendanceFlaggedIPMismatch is a display-only downgrade produced by the
	// cohort analyzer; it is never written to storage.
	AttendanceFlaggedIPMismatch AttendanceStatus = "flagged_ip_mismatch"
)

// Flagged reports whether the status is anything other than a clean present.
func (s AttendanceStatus) Flagged() bool {
	return s != AttendancePresent
}

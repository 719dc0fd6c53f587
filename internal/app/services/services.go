package services

// Services defined in this package:
// - SessionResolver: Maps a room code and an instant to the running session
// - ScanVerifier: Runs the full verification pipeline for scan attempts
// - EvidenceAnalyzer: Checks evidence photos for authenticity signals
// - CohortAnalyzer: Infers the delivery mode of a live session
// - SessionService: Lecturer session lifecycle, live view and CSV reports
// - TimetableService: Weekly slot administration with overlap rejection
// - ClassroomService: Classroom administration
// - AuditService: Scan audit log queries
// - ReviewService: Deferred evidence review worker

package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
	"github.com/jkarani/campusgate/internal/pkg/filestorage"
	"github.com/jkarani/campusgate/internal/pkg/logger"
	"github.com/jkarani/campusgate/internal/pkg/metrics"
	"github.com/jkarani/campusgate/internal/pkg/queue"
)

// ScanInput is one scan attempt as received from the client.
type ScanInput struct {
	StudentID      uuid.UUID
	RoomCode       string
	ConnectionType string
	LocationStatus string
	Latitude       string
	Longitude      string
	IPAddress      string
	Evidence       []byte
	EvidenceExt    string
	At             time.Time
}

// ReviewJob is the payload queued for the deferred evidence review worker.
type ReviewJob struct {
	AttendanceID uuid.UUID `json:"attendance_id"`
	StudentID    uuid.UUID `json:"student_id"`
}

// ReviewJobType labels review messages on the queue.
const ReviewJobType = "review"

// ScanVerifier runs the full verification pipeline for a scan attempt. Every
// attempt leaves an audit log row no matter how early it is rejected, and
// every rejection short of an internal error is a soft answer the client can
// display, not an HTTP error.
type ScanVerifier interface {
	VerifyScan(ctx context.Context, input ScanInput) (*dto.ScanResultResponse, error)
}

// scanVerifierImpl implements the ScanVerifier interface
type scanVerifierImpl struct {
	resolver      SessionResolver
	analyzer      EvidenceAnalyzer
	classrooms    classroomStore
	attendance    attendanceStore
	scanLogs      scanLogStore
	registrations registrationStore
	courses       courseStore
	storage       filestorage.FileStorage
	reviewQueue   queue.Queue
}

// NewScanVerifier creates a new scan verifier
func NewScanVerifier(
	resolver SessionResolver,
	analyzer EvidenceAnalyzer,
	classrooms classroomStore,
	attendance attendanceStore,
	scanLogs scanLogStore,
	registrations registrationStore,
	courses courseStore,
	storage filestorage.FileStorage,
	reviewQueue queue.Queue,
) ScanVerifier {
	return &scanVerifierImpl{
		resolver:      resolver,
		analyzer:      analyzer,
		classrooms:    classrooms,
		attendance:    attendance,
		scanLogs:      scanLogs,
		registrations: registrations,
		courses:       courses,
		storage:       storage,
		reviewQueue:   reviewQueue,
	}
}

// VerifyScan verifies a scan attempt end to end.
func (s *scanVerifierImpl) VerifyScan(ctx context.Context, input ScanInput) (*dto.ScanResultResponse, error) {
	start := time.Now()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	if input.At.IsZero() {
		input.At = time.Now()
	}

	// The audit row is written before anything that can fail, as its own
	// auto-commit statement, so the trail survives whatever comes next.
	scanLog := &models.ScanLog{
		StudentID:     input.StudentID,
		RoomCode:      input.RoomCode,
		StatusMessage: models.ScanMsgInitializing,
	}
	if input.IPAddress != "" {
		ip := input.IPAddress
		scanLog.DetectedLocation = &ip
	}
	if err := s.scanLogs.Insert(ctx, scanLog); err != nil {
		return nil, err
	}

	session, err := s.resolver.Resolve(ctx, input.RoomCode, input.At)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrClassroomNotFound):
			return s.reject(ctx, scanLog, models.ScanMsgInvalidRoom)
		case errors.Is(err, apperrors.ErrSessionNotFound):
			return s.noActiveSession(ctx, scanLog, input.RoomCode)
		default:
			return nil, err
		}
	}

	exists, err := s.attendance.Exists(ctx, session.ID, input.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.duplicate(ctx, scanLog, session)
	}

	registration, err := s.registrations.Find(ctx, input.StudentID, session.CourseID)
	if err != nil {
		return nil, err
	}
	registered := registration != nil

	report := s.analyzer.Analyze(EvidenceInput{
		Image:          input.Evidence,
		LocationStatus: input.LocationStatus,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		ConnectionType: input.ConnectionType,
	})

	status := report.Status
	if !registered {
		status = models.AttendanceFlagged
	}

	// Evidence is persisted for audit even when it failed a check.
	var evidencePath *string
	if len(input.Evidence) > 0 {
		path, err := s.storage.SaveBytesWithPath(input.Evidence, input.EvidenceExt, "evidence")
		if err != nil {
			logger.Error().Err(err).Str("scan_log_id", scanLog.ID.String()).Msg("Failed to store evidence")
		} else if path != "" {
			evidencePath = &path
		}
	}

	rec := &models.AttendanceRecord{
		SessionID:    session.ID,
		StudentID:    input.StudentID,
		ScanTime:     input.At,
		Status:       status,
		EvidencePath: evidencePath,
		Metadata:     s.encodeMetadata(input, report, registration),
	}
	if input.ConnectionType != "" {
		ct := input.ConnectionType
		rec.ConnectionType = &ct
	}
	if input.IPAddress != "" {
		ip := input.IPAddress
		rec.IPAddress = &ip
	}

	if err := s.attendance.Insert(ctx, rec); err != nil {
		if errors.Is(err, apperrors.ErrAttendanceExists) {
			return s.duplicate(ctx, scanLog, session)
		}
		return nil, err
	}

	metrics.AttendanceMarked.WithLabelValues(string(status)).Inc()

	message := models.ScanMsgPresent
	if !registered {
		message = models.ScanMsgNotRegistered
	}
	// The scan was accepted and produced a record, so the audit row reads
	// successful even when the record itself is flagged.
	s.finalize(ctx, scanLog, true, message, &session.ID)

	s.enqueueReview(ctx, rec, evidencePath)

	resp := &dto.ScanResultResponse{
		Success:      true,
		Message:      message,
		Status:       status,
		SessionID:    &session.ID,
		AttendanceID: &rec.ID,
	}
	if course, err := s.courses.GetByID(ctx, session.CourseID); err == nil {
		resp.CourseName = course.CourseName
	}
	resp.RoomName = s.roomName(ctx, session)

	return resp, nil
}

// reject finalizes the audit row for a scan against a room code that does not
// exist. This is the only outcome reported as unsuccessful to the client.
func (s *scanVerifierImpl) reject(ctx context.Context, scanLog *models.ScanLog, message string) (*dto.ScanResultResponse, error) {
	s.finalize(ctx, scanLog, false, message, nil)
	return &dto.ScanResultResponse{
		Success: false,
		Message: message,
	}, nil
}

// noActiveSession records a scan against a known room outside any scheduled
// class. Nothing was marked, but the scan itself was accepted.
func (s *scanVerifierImpl) noActiveSession(ctx context.Context, scanLog *models.ScanLog, roomCode string) (*dto.ScanResultResponse, error) {
	s.finalize(ctx, scanLog, false, models.ScanMsgNoClass, nil)
	resp := &dto.ScanResultResponse{
		Success: true,
		Message: models.ScanMsgNoClass,
	}
	if room, err := s.classrooms.GetByRoomCode(ctx, roomCode); err == nil {
		resp.RoomName = room.RoomName
	}
	return resp, nil
}

// duplicate answers a repeat scan without touching the stored record.
func (s *scanVerifierImpl) duplicate(ctx context.Context, scanLog *models.ScanLog, session *models.ClassSession) (*dto.ScanResultResponse, error) {
	s.finalize(ctx, scanLog, true, models.ScanMsgDuplicate, &session.ID)
	resp := &dto.ScanResultResponse{
		Success:       true,
		AlreadyMarked: true,
		Message:       models.ScanMsgDuplicate,
		SessionID:     &session.ID,
	}
	if course, err := s.courses.GetByID(ctx, session.CourseID); err == nil {
		resp.CourseName = course.CourseName
	}
	resp.RoomName = s.roomName(ctx, session)
	return resp, nil
}

func (s *scanVerifierImpl) roomName(ctx context.Context, session *models.ClassSession) string {
	if session.ClassroomID == nil {
		return ""
	}
	room, err := s.classrooms.GetByID(ctx, *session.ClassroomID)
	if err != nil {
		return ""
	}
	return room.RoomName
}

func (s *scanVerifierImpl) finalize(ctx context.Context, scanLog *models.ScanLog, successful bool, message string, sessionID *uuid.UUID) {
	metrics.ScanAttempts.WithLabelValues(message).Inc()
	if err := s.scanLogs.Finalize(ctx, scanLog.ID, successful, message, sessionID); err != nil {
		logger.Error().Err(err).Str("scan_log_id", scanLog.ID.String()).Msg("Failed to finalize scan log")
	}
}

// encodeMetadata folds the evidence report and client signals into the JSON
// document stored on the record.
func (s *scanVerifierImpl) encodeMetadata(input ScanInput, report EvidenceReport, registration *models.StudentCourseRegistration) []byte {
	doc := map[string]interface{}{
		"registered": registration != nil,
	}
	if registration != nil && registration.Semester != "" {
		doc["semester"] = registration.Semester
	}
	for k, v := range report.Metadata {
		doc[k] = v
	}
	if len(report.Signals) > 0 {
		doc["signals"] = report.Signals
	}
	if input.ConnectionType != "" {
		doc["connection_type"] = input.ConnectionType
	}
	if input.LocationStatus != "" {
		doc["location_status"] = input.LocationStatus
	}

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode scan metadata")
		return []byte("{}")
	}
	return data
}

// enqueueReview hands the record to the deferred review worker. Best effort;
// a queue outage never fails the scan.
func (s *scanVerifierImpl) enqueueReview(ctx context.Context, rec *models.AttendanceRecord, evidencePath *string) {
	if s.reviewQueue == nil || evidencePath == nil {
		return
	}

	body, err := json.Marshal(ReviewJob{AttendanceID: rec.ID, StudentID: rec.StudentID})
	if err != nil {
		return
	}
	if err := s.reviewQueue.Publish(ctx, queue.Message{Type: ReviewJobType, Body: body}); err != nil {
		logger.Warn().Err(err).Str("attendance_id", rec.ID.String()).Msg("Failed to enqueue evidence review")
	}
}

package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
	"github.com/jkarani/campusgate/internal/pkg/logger"
)

// SessionService handles the lecturer-facing session lifecycle and views.
type SessionService interface {
	StartSession(ctx context.Context, lecturerID uuid.UUID, req dto.StartSessionRequest) (*models.ClassSession, error)
	EndSession(ctx context.Context, sessionID, actorID uuid.UUID, role models.RoleType) error
	GetActiveSession(ctx context.Context, lecturerID uuid.UUID) (*models.ClassSession, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.ClassSession, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, limit int) ([]models.ClassSession, error)
	LiveView(ctx context.Context, sessionID uuid.UUID) (*dto.LiveSessionResponse, error)
	WriteReportCSV(ctx context.Context, sessionID uuid.UUID, w io.Writer) error
}

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	sessions      sessionStore
	classrooms    classroomStore
	courses       courseStore
	attendance    attendanceStore
	registrations registrationStore
	cohort        CohortAnalyzer
}

// NewSessionService creates a new session service
func NewSessionService(sessions sessionStore, classrooms classroomStore, courses courseStore, attendance attendanceStore, registrations registrationStore, cohort CohortAnalyzer) SessionService {
	return &sessionServiceImpl{
		sessions:      sessions,
		classrooms:    classrooms,
		courses:       courses,
		attendance:    attendance,
		registrations: registrations,
		cohort:        cohort,
	}
}

// StartSession starts an ad-hoc session for a lecturer. Any session the
// lecturer still has active is completed first; a lecturer teaches one live
// session at a time.
func (s *sessionServiceImpl) StartSession(ctx context.Context, lecturerID uuid.UUID, req dto.StartSessionRequest) (*models.ClassSession, error) {
	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	classroom, err := s.classrooms.GetByID(ctx, req.ClassroomID)
	if err != nil {
		return nil, err
	}
	if classroom.Status != models.ClassroomAvailable {
		return nil, apperrors.ErrValidationFailed
	}

	now := time.Now()
	session := &models.ClassSession{
		CourseID:       course.ID,
		SessionDate:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:      now,
		EndTime:        now.Add(time.Duration(req.DurationMinutes) * time.Minute),
		ClassroomID:    &classroom.ID,
		LecturerID:     &lecturerID,
		QRCode:         uuid.New().String(),
		RoomUniqueCode: classroom.RoomCode,
		Status:         models.SessionOngoing,
	}

	if err := s.sessions.StartSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Info().
		Str("session_id", session.ID.String()).
		Str("course_code", course.CourseCode).
		Str("room_code", classroom.RoomCode).
		Msg("Session started")

	return session, nil
}

// EndSession completes a session. Lecturers may only end their own sessions;
// admins may end any.
func (s *sessionServiceImpl) EndSession(ctx context.Context, sessionID, actorID uuid.UUID, role models.RoleType) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if role != models.RoleAdmin {
		if session.LecturerID == nil || *session.LecturerID != actorID {
			return apperrors.ErrPermissionDenied
		}
	}

	if err := s.sessions.EndSession(ctx, sessionID); err != nil {
		return err
	}

	attended, err := s.attendance.CountBySession(ctx, sessionID)
	if err != nil {
		attended = -1
	}
	logger.Info().
		Str("session_id", sessionID.String()).
		Int64("attended", attended).
		Msg("Session ended")

	return nil
}

// ListByCourse returns a course's session history, newest first.
func (s *sessionServiceImpl) ListByCourse(ctx context.Context, courseID uuid.UUID, limit int) ([]models.ClassSession, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.sessions.GetByCourse(ctx, courseID, limit)
}

// GetActiveSession returns the lecturer's currently running session.
func (s *sessionServiceImpl) GetActiveSession(ctx context.Context, lecturerID uuid.UUID) (*models.ClassSession, error) {
	return s.sessions.GetActiveByLecturer(ctx, lecturerID)
}

// GetSession retrieves a session by ID.
func (s *sessionServiceImpl) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.ClassSession, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

// LiveView builds the lecturer's live view of a session: every scan so far,
// with the cohort verdict layered on top as display-only downgrades.
func (s *sessionServiceImpl) LiveView(ctx context.Context, sessionID uuid.UUID) (*dto.LiveSessionResponse, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	verdict := s.cohort.Analyze(records)

	resp := &dto.LiveSessionResponse{
		SessionID:     session.ID,
		Mode:          verdict.Mode,
		AttendeeCount: len(records),
		DominantIP:    verdict.DominantIP,
		DominantRatio: verdict.DominantRatio,
		Attendees:     make([]dto.LiveAttendeeView, 0, len(records)),
	}
	if registered, err := s.registrations.CountByCourse(ctx, session.CourseID); err == nil {
		resp.RegisteredCount = registered
	}

	for _, rec := range records {
		view := dto.LiveAttendeeView{
			AttendanceID:    rec.ID,
			StudentID:       rec.StudentID,
			Student:         rec.StudentName,
			AdmissionNumber: rec.AdmissionNumber,
			ScanTime:        rec.ScanTime,
			Status:          rec.Status,
			Connection:      derefOr(rec.ConnectionType, "unknown"),
			IP:              derefOr(rec.IPAddress, "unknown"),
			EvidenceURL:     deref(rec.EvidencePath),
		}
		if verdict.Outliers[rec.ID] {
			view.AIFlag = SuspiciousIPMessage
		}
		if verdict.Downgraded[rec.ID] {
			view.Status = models.AttendanceFlaggedIPMismatch
		}
		resp.Attendees = append(resp.Attendees, view)
	}

	return resp, nil
}

// WriteReportCSV streams the session's attendance as CSV.
func (s *sessionServiceImpl) WriteReportCSV(ctx context.Context, sessionID uuid.UUID, w io.Writer) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	records, err := s.attendance.ListBySession(ctx, session.ID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"admission_number", "student_name", "scan_time", "status", "connection_type", "ip_address", "flags"}); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, rec := range records {
		flags := make([]string, 0, len(rec.Flags))
		for _, f := range rec.Flags {
			flags = append(flags, f.Reason)
		}

		row := []string{
			rec.AdmissionNumber,
			rec.StudentName,
			rec.ScanTime.Format(time.RFC3339),
			string(rec.Status),
			deref(rec.ConnectionType),
			deref(rec.IPAddress),
			strings.Join(flags, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

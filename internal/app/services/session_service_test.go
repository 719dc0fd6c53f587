package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

func newSessionServiceFixture() (*fakeSessionStore, *fakeAttendanceStore, *fakeRegistrationStore, SessionService, *models.Classroom, *models.Course) {
	room := &models.Classroom{ID: uuid.New(), RoomCode: "B-204", Status: models.ClassroomAvailable}
	classrooms := &fakeClassroomStore{byCode: map[string]*models.Classroom{room.RoomCode: room}}

	course := &models.Course{ID: uuid.New(), CourseCode: "MATH101", CourseName: "Calculus I"}
	courses := &fakeCourseStore{courses: map[uuid.UUID]*models.Course{course.ID: course}}

	sessions := newFakeSessionStore()
	attendance := newFakeAttendanceStore()
	registrations := &fakeRegistrationStore{registered: map[string]bool{}}

	svc := NewSessionService(sessions, classrooms, courses, attendance, registrations, NewCohortAnalyzer())
	return sessions, attendance, registrations, svc, room, course
}

func TestStartSessionCompletesPreviousActive(t *testing.T) {
	sessions, _, _, svc, room, course := newSessionServiceFixture()

	lecturerID := uuid.New()
	req := dto.StartSessionRequest{CourseID: course.ID, ClassroomID: room.ID, DurationMinutes: 90}

	first, err := svc.StartSession(context.Background(), lecturerID, req)
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, room.RoomCode, first.RoomUniqueCode)
	assert.NotEmpty(t, first.QRCode)

	second, err := svc.StartSession(context.Background(), lecturerID, req)
	require.NoError(t, err)

	prev := sessions.sessions[first.ID]
	assert.False(t, prev.Active)
	assert.Equal(t, models.SessionCompleted, prev.Status)
	assert.True(t, sessions.sessions[second.ID].Active)
}

func TestStartSessionRejectsUnavailableRoom(t *testing.T) {
	_, _, _, svc, room, course := newSessionServiceFixture()
	room.Status = models.ClassroomMaintenance

	_, err := svc.StartSession(context.Background(), uuid.New(), dto.StartSessionRequest{
		CourseID: course.ID, ClassroomID: room.ID, DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEndSessionPermissions(t *testing.T) {
	sessions, _, _, svc, _, _ := newSessionServiceFixture()

	owner := uuid.New()
	session := &models.ClassSession{
		ID:         uuid.New(),
		CourseID:   uuid.New(),
		LecturerID: &owner,
		Status:     models.SessionOngoing,
		Active:     true,
	}
	sessions.sessions[session.ID] = session

	err := svc.EndSession(context.Background(), session.ID, uuid.New(), models.RoleLecturer)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.EndSession(context.Background(), session.ID, uuid.New(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, session.Status)

	// Ending a completed session fails.
	err = svc.EndSession(context.Background(), session.ID, owner, models.RoleLecturer)
	assert.ErrorIs(t, err, apperrors.ErrSessionCompleted)
}

func TestLiveViewAppliesDisplayDowngrade(t *testing.T) {
	sessions, attendance, _, svc, _, _ := newSessionServiceFixture()

	session := &models.ClassSession{ID: uuid.New(), CourseID: uuid.New(), Status: models.SessionOngoing, Active: true}
	sessions.sessions[session.ID] = session

	campus := "10.0.0.1"
	offsite := "203.0.113.5"
	for i := 0; i < 3; i++ {
		rec := &models.AttendanceRecord{
			ID: uuid.New(), SessionID: session.ID, StudentID: uuid.New(),
			Status: models.AttendancePresent, IPAddress: &campus, ScanTime: time.Now(),
		}
		attendance.records[rec.ID] = rec
	}
	outlier := &models.AttendanceRecord{
		ID: uuid.New(), SessionID: session.ID, StudentID: uuid.New(),
		Status: models.AttendancePresent, IPAddress: &offsite, ScanTime: time.Now(),
	}
	attendance.records[outlier.ID] = outlier

	view, err := svc.LiveView(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, dto.CohortModePhysical, view.Mode)
	assert.Equal(t, 4, view.AttendeeCount)

	assert.Equal(t, campus, view.DominantIP)

	var found bool
	for _, a := range view.Attendees {
		if a.AttendanceID == outlier.ID {
			found = true
			assert.Equal(t, models.AttendanceFlaggedIPMismatch, a.Status)
			assert.Equal(t, SuspiciousIPMessage, a.AIFlag)
			assert.Equal(t, offsite, a.IP)
		} else {
			assert.Equal(t, models.AttendancePresent, a.Status)
			assert.Empty(t, a.AIFlag)
		}
	}
	assert.True(t, found)

	// The stored record is untouched.
	assert.Equal(t, models.AttendancePresent, attendance.records[outlier.ID].Status)
}

func TestLiveViewFlagsEveryKnownIPOutlier(t *testing.T) {
	sessions, attendance, _, svc, _, _ := newSessionServiceFixture()

	session := &models.ClassSession{ID: uuid.New(), CourseID: uuid.New(), Status: models.SessionOngoing, Active: true}
	sessions.sessions[session.ID] = session

	campus := "10.0.0.1"
	offsite := "203.0.113.5"
	for i := 0; i < 3; i++ {
		rec := &models.AttendanceRecord{
			ID: uuid.New(), SessionID: session.ID, StudentID: uuid.New(),
			Status: models.AttendancePresent, IPAddress: &campus, ScanTime: time.Now(),
		}
		attendance.records[rec.ID] = rec
	}
	// Already evidence-flagged, so the status must not be rewritten.
	outlier := &models.AttendanceRecord{
		ID: uuid.New(), SessionID: session.ID, StudentID: uuid.New(),
		Status: models.AttendanceFlaggedNoLocation, IPAddress: &offsite, ScanTime: time.Now(),
	}
	attendance.records[outlier.ID] = outlier

	view, err := svc.LiveView(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, dto.CohortModePhysical, view.Mode)

	var found bool
	for _, a := range view.Attendees {
		if a.AttendanceID == outlier.ID {
			found = true
			assert.Equal(t, models.AttendanceFlaggedNoLocation, a.Status)
			assert.Equal(t, SuspiciousIPMessage, a.AIFlag)
		}
	}
	assert.True(t, found)
}

func TestLiveViewReportsRegisteredCount(t *testing.T) {
	sessions, attendance, registrations, svc, _, course := newSessionServiceFixture()

	session := &models.ClassSession{ID: uuid.New(), CourseID: course.ID, Status: models.SessionOngoing, Active: true}
	sessions.sessions[session.ID] = session

	studentA, studentB := uuid.New(), uuid.New()
	registrations.registered[regKey(studentA, course.ID)] = true
	registrations.registered[regKey(studentB, course.ID)] = true

	rec := &models.AttendanceRecord{
		ID: uuid.New(), SessionID: session.ID, StudentID: studentA,
		Status: models.AttendancePresent, ScanTime: time.Now(),
	}
	attendance.records[rec.ID] = rec

	view, err := svc.LiveView(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), view.RegisteredCount)
	assert.Equal(t, 1, view.AttendeeCount)
}

func TestListByCourseReturnsNewestFirst(t *testing.T) {
	sessions, _, _, svc, _, course := newSessionServiceFixture()

	older := &models.ClassSession{
		ID: uuid.New(), CourseID: course.ID, Status: models.SessionCompleted,
		SessionDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	newer := &models.ClassSession{
		ID: uuid.New(), CourseID: course.ID, Status: models.SessionCompleted,
		SessionDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	sessions.sessions[older.ID] = older
	sessions.sessions[newer.ID] = newer

	list, err := svc.ListByCourse(context.Background(), course.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	_, err = svc.ListByCourse(context.Background(), uuid.New(), 0)
	assert.Error(t, err)
}

func TestWriteReportCSV(t *testing.T) {
	sessions, attendance, _, svc, _, _ := newSessionServiceFixture()

	session := &models.ClassSession{ID: uuid.New(), CourseID: uuid.New(), Status: models.SessionCompleted}
	sessions.sessions[session.ID] = session

	ip := "10.0.0.9"
	rec := &models.AttendanceRecord{
		ID: uuid.New(), SessionID: session.ID, StudentID: uuid.New(),
		StudentName: "Jane Scholar", AdmissionNumber: "SC/042/2024",
		Status: models.AttendancePresent, IPAddress: &ip,
		ScanTime: time.Date(2026, 3, 11, 10, 31, 0, 0, time.UTC),
		Flags: []models.CheatingFlag{{Reason: FaceMismatchReason, SimilarityScore: 0.31}},
	}
	attendance.records[rec.ID] = rec

	var buf bytes.Buffer
	require.NoError(t, svc.WriteReportCSV(context.Background(), session.ID, &buf))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "admission_number")
	assert.Contains(t, lines[1], "SC/042/2024")
	assert.Contains(t, lines[1], "Jane Scholar")
	assert.Contains(t, lines[1], "present")
	assert.Contains(t, lines[1], FaceMismatchReason)
}

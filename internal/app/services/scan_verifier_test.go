package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/queue"
)

type verifierFixture struct {
	classrooms    *fakeClassroomStore
	slots         *fakeSlotStore
	sessions      *fakeSessionStore
	attendance    *fakeAttendanceStore
	scanLogs      *fakeScanLogStore
	registrations *fakeRegistrationStore
	courses       *fakeCourseStore
	storage       *fakeStorage
	queue         *queue.InMemory
	verifier      ScanVerifier

	room    *models.Classroom
	course  *models.Course
	session *models.ClassSession
	student uuid.UUID
}

func newVerifierFixture(t *testing.T, report EvidenceReport) *verifierFixture {
	t.Helper()

	f := &verifierFixture{
		slots:         &fakeSlotStore{},
		sessions:      newFakeSessionStore(),
		attendance:    newFakeAttendanceStore(),
		scanLogs:      newFakeScanLogStore(),
		registrations: &fakeRegistrationStore{registered: map[string]bool{}},
		storage:       &fakeStorage{},
		queue:         queue.NewInMemory(16),
		student:       uuid.New(),
	}

	f.room = &models.Classroom{ID: uuid.New(), RoomCode: "A-101", RoomName: "Lecture Hall A", Status: models.ClassroomAvailable}
	f.classrooms = &fakeClassroomStore{byCode: map[string]*models.Classroom{f.room.RoomCode: f.room}}

	f.course = &models.Course{ID: uuid.New(), CourseCode: "CS201", CourseName: "Data Structures"}
	f.courses = &fakeCourseStore{courses: map[uuid.UUID]*models.Course{f.course.ID: f.course}}

	f.session = &models.ClassSession{
		ID:          uuid.New(),
		CourseID:    f.course.ID,
		SessionDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC),
		ClassroomID: &f.room.ID,
		Status:      models.SessionOngoing,
		Active:      true,
	}
	f.sessions.sessions[f.session.ID] = f.session

	f.registrations.registered[regKey(f.student, f.course.ID)] = true

	resolver := NewSessionResolver(f.classrooms, f.slots, f.sessions)
	f.verifier = NewScanVerifier(resolver, &stubAnalyzer{report: report},
		f.classrooms, f.attendance, f.scanLogs, f.registrations, f.courses, f.storage, f.queue)

	return f
}

func cleanReport() EvidenceReport {
	return EvidenceReport{Status: models.AttendancePresent, Metadata: map[string]interface{}{}}
}

func (f *verifierFixture) input() ScanInput {
	return ScanInput{
		StudentID:      f.student,
		RoomCode:       f.room.RoomCode,
		ConnectionType: "wifi",
		LocationStatus: "granted",
		Latitude:       "-1.29",
		Longitude:      "36.82",
		IPAddress:      "10.0.0.7",
		Evidence:       []byte("jpeg bytes"),
		EvidenceExt:    ".jpg",
		At:             wednesdayMorning,
	}
}

func TestVerifyScanMarksPresent(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())

	resp, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.False(t, resp.AlreadyMarked)
	assert.Equal(t, models.ScanMsgPresent, resp.Message)
	assert.Equal(t, models.AttendancePresent, resp.Status)
	assert.Equal(t, "Data Structures", resp.CourseName)
	assert.Equal(t, "Lecture Hall A", resp.RoomName)
	require.NotNil(t, resp.AttendanceID)

	rec := f.attendance.records[*resp.AttendanceID]
	require.NotNil(t, rec)
	assert.Equal(t, f.session.ID, rec.SessionID)
	assert.NotNil(t, rec.EvidencePath)
	assert.Equal(t, "10.0.0.7", *rec.IPAddress)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Metadata, &meta))
	assert.Equal(t, true, meta["registered"])
	assert.Equal(t, "2026-S1", meta["semester"])

	log := f.scanLogs.single()
	require.NotNil(t, log)
	assert.True(t, log.IsSuccessful)
	assert.Equal(t, models.ScanMsgPresent, log.StatusMessage)
	require.NotNil(t, log.SessionID)
	assert.Equal(t, f.session.ID, *log.SessionID)
}

func TestVerifyScanEnqueuesReviewJob(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())

	resp, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msgs, err := f.queue.Consume(ctx)
	require.NoError(t, err)

	msg := <-msgs
	assert.Equal(t, ReviewJobType, msg.Type)
	assert.Contains(t, string(msg.Body), resp.AttendanceID.String())
}

func TestVerifyScanInvalidRoom(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())

	input := f.input()
	input.RoomCode = "GHOST"

	resp, err := f.verifier.VerifyScan(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Equal(t, models.ScanMsgInvalidRoom, resp.Message)
	assert.Empty(t, f.attendance.records)

	log := f.scanLogs.single()
	require.NotNil(t, log)
	assert.False(t, log.IsSuccessful)
	assert.Equal(t, models.ScanMsgInvalidRoom, log.StatusMessage)
}

func TestVerifyScanNoClassScheduled(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())
	f.session.Active = false

	resp, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, models.ScanMsgNoClass, resp.Message)
	assert.Equal(t, "Lecture Hall A", resp.RoomName)
	assert.Nil(t, resp.AttendanceID)
	assert.Empty(t, f.attendance.records)
}

func TestVerifyScanDuplicate(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())

	_, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	resp, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.AlreadyMarked)
	assert.Equal(t, models.ScanMsgDuplicate, resp.Message)
	assert.Equal(t, "Data Structures", resp.CourseName)
	assert.Len(t, f.attendance.records, 1)
}

// racingAttendanceStore reports no existing record even when one is there,
// simulating a second scan racing past the existence check. The insert's
// uniqueness error is the backstop.
type racingAttendanceStore struct {
	*fakeAttendanceStore
}

func (r *racingAttendanceStore) Exists(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func TestVerifyScanDuplicateRaceMapsToAlreadyMarked(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())

	resolver := NewSessionResolver(f.classrooms, f.slots, f.sessions)
	verifier := NewScanVerifier(resolver, &stubAnalyzer{report: cleanReport()},
		f.classrooms, &racingAttendanceStore{f.attendance}, f.scanLogs,
		f.registrations, f.courses, f.storage, f.queue)

	_, err := verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	resp, err := verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.AlreadyMarked)
	assert.Len(t, f.attendance.records, 1)
}

func TestVerifyScanNotRegistered(t *testing.T) {
	f := newVerifierFixture(t, cleanReport())
	delete(f.registrations.registered, regKey(f.student, f.course.ID))

	resp, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, models.ScanMsgNotRegistered, resp.Message)
	assert.Equal(t, models.AttendanceFlagged, resp.Status)

	log := f.scanLogs.single()
	require.NotNil(t, log)
	assert.True(t, log.IsSuccessful)
	assert.Equal(t, models.ScanMsgNotRegistered, log.StatusMessage)
}

func TestVerifyScanFlaggedEvidenceStillPersisted(t *testing.T) {
	report := EvidenceReport{
		Status:   models.AttendanceFlaggedNoLocation,
		Signals:  []string{"location_unavailable"},
		Metadata: map[string]interface{}{},
	}
	f := newVerifierFixture(t, report)

	resp, err := f.verifier.VerifyScan(context.Background(), f.input())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, models.AttendanceFlaggedNoLocation, resp.Status)

	rec := f.attendance.records[*resp.AttendanceID]
	require.NotNil(t, rec)
	assert.NotNil(t, rec.EvidencePath)
	assert.Contains(t, string(rec.Metadata), "location_unavailable")
	assert.Len(t, f.storage.saved, 1)
}

package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/repositories"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
	"github.com/jkarani/campusgate/internal/pkg/faceclient"
)

// Hand-written fakes over the store interfaces. State lives in maps keyed the
// same way the real tables are.

type fakeClassroomStore struct {
	byCode map[string]*models.Classroom
}

func (f *fakeClassroomStore) GetByRoomCode(_ context.Context, roomCode string) (*models.Classroom, error) {
	if c, ok := f.byCode[roomCode]; ok {
		return c, nil
	}
	return nil, apperrors.ErrClassroomNotFound
}

func (f *fakeClassroomStore) GetByID(_ context.Context, id uuid.UUID) (*models.Classroom, error) {
	for _, c := range f.byCode {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrClassroomNotFound
}

type fakeSlotStore struct {
	slots []models.TimetableSlot
}

func (f *fakeSlotStore) FindSlotAt(_ context.Context, classroomID uuid.UUID, dayOfWeek int, at time.Time) (*models.TimetableSlot, error) {
	clock := time.Date(0, 1, 1, at.Hour(), at.Minute(), at.Second(), 0, time.UTC)
	for i := range f.slots {
		s := &f.slots[i]
		if s.ClassroomID != classroomID || s.DayOfWeek != dayOfWeek || !s.IsActive {
			continue
		}
		start := time.Date(0, 1, 1, s.StartTime.Hour(), s.StartTime.Minute(), s.StartTime.Second(), 0, time.UTC)
		end := time.Date(0, 1, 1, s.EndTime.Hour(), s.EndTime.Minute(), s.EndTime.Second(), 0, time.UTC)
		if !clock.Before(start) && !clock.After(end) {
			return s, nil
		}
	}
	return nil, apperrors.ErrSlotNotFound
}

func (f *fakeSlotStore) GetByClassroomAndDay(_ context.Context, classroomID uuid.UUID, dayOfWeek int) ([]models.TimetableSlot, error) {
	var out []models.TimetableSlot
	for _, s := range f.slots {
		if s.ClassroomID == classroomID && s.DayOfWeek == dayOfWeek && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotStore) Create(_ context.Context, slot *models.TimetableSlot) error {
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	f.slots = append(f.slots, *slot)
	return nil
}

func (f *fakeSlotStore) GetByID(_ context.Context, id uuid.UUID) (*models.TimetableSlot, error) {
	for i := range f.slots {
		if f.slots[i].ID == id {
			s := f.slots[i]
			return &s, nil
		}
	}
	return nil, apperrors.ErrSlotNotFound
}

func (f *fakeSlotStore) Update(_ context.Context, slot *models.TimetableSlot) error {
	for i := range f.slots {
		if f.slots[i].ID == slot.ID {
			f.slots[i] = *slot
			return nil
		}
	}
	return apperrors.ErrSlotNotFound
}

func (f *fakeSlotStore) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.slots {
		if f.slots[i].ID == id {
			f.slots = append(f.slots[:i], f.slots[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrSlotNotFound
}

func (f *fakeSlotStore) GetWeekly(_ context.Context, courseID, lecturerID *uuid.UUID) ([]models.TimetableSlot, error) {
	var out []models.TimetableSlot
	for _, s := range f.slots {
		if !s.IsActive {
			continue
		}
		if courseID != nil && s.CourseID != *courseID {
			continue
		}
		if lecturerID != nil && (s.LecturerID == nil || *s.LecturerID != *lecturerID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeSessionStore struct {
	sessions     map[uuid.UUID]*models.ClassSession
	materialized int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uuid.UUID]*models.ClassSession{}}
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*models.ClassSession, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeSessionStore) GetActiveByRoomAt(_ context.Context, classroomID uuid.UUID, at time.Time) (*models.ClassSession, error) {
	for _, s := range f.sessions {
		if s.ClassroomID != nil && *s.ClassroomID == classroomID && s.Active && s.WindowContains(at) {
			return s, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeSessionStore) GetOrCreateFromSlot(_ context.Context, slot *models.TimetableSlot, date time.Time) (*models.ClassSession, bool, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	for _, s := range f.sessions {
		if s.TimetableSlotID != nil && *s.TimetableSlotID == slot.ID && s.SessionDate.Equal(day) {
			return s, false, nil
		}
	}

	slotID := slot.ID
	classroomID := slot.ClassroomID
	session := &models.ClassSession{
		ID:              uuid.New(),
		CourseID:        slot.CourseID,
		TimetableSlotID: &slotID,
		SessionDate:     day,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		ClassroomID:     &classroomID,
		RoomUniqueCode:  slot.RoomCode,
		Status:          models.SessionOngoing,
		Active:          true,
	}
	f.sessions[session.ID] = session
	f.materialized++
	return session, true, nil
}

func (f *fakeSessionStore) StartSession(_ context.Context, session *models.ClassSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	for _, s := range f.sessions {
		if s.LecturerID != nil && session.LecturerID != nil && *s.LecturerID == *session.LecturerID && s.Active {
			s.Active = false
			s.Status = models.SessionCompleted
		}
	}
	session.Active = true
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) EndSession(_ context.Context, id uuid.UUID) error {
	s, ok := f.sessions[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if s.Status.Terminal() {
		return apperrors.ErrSessionCompleted
	}
	s.Active = false
	s.Status = models.SessionCompleted
	return nil
}

func (f *fakeSessionStore) GetActiveByLecturer(_ context.Context, lecturerID uuid.UUID) (*models.ClassSession, error) {
	for _, s := range f.sessions {
		if s.LecturerID != nil && *s.LecturerID == lecturerID && s.Active {
			return s, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeSessionStore) GetByCourse(_ context.Context, courseID uuid.UUID, limit int) ([]models.ClassSession, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.ClassSession
	for _, s := range f.sessions {
		if s.CourseID == courseID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SessionDate.After(out[j].SessionDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAttendanceStore struct {
	records map[uuid.UUID]*models.AttendanceRecord
	flags   []models.CheatingFlag
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: map[uuid.UUID]*models.AttendanceRecord{}}
}

func (f *fakeAttendanceStore) Insert(_ context.Context, rec *models.AttendanceRecord) error {
	for _, r := range f.records {
		if r.SessionID == rec.SessionID && r.StudentID == rec.StudentID {
			return apperrors.ErrAttendanceExists
		}
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeAttendanceStore) Exists(_ context.Context, sessionID, studentID uuid.UUID) (bool, error) {
	for _, r := range f.records {
		if r.SessionID == sessionID && r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceStore) GetByID(_ context.Context, id uuid.UUID) (*models.AttendanceRecord, error) {
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, apperrors.ErrRecordNotFound
}

func (f *fakeAttendanceStore) ListBySession(_ context.Context, sessionID uuid.UUID) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, r := range f.records {
		if r.SessionID == sessionID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) CountBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttendanceStore) AddCheatingFlag(_ context.Context, flag *models.CheatingFlag) error {
	if flag.ID == uuid.Nil {
		flag.ID = uuid.New()
	}
	f.flags = append(f.flags, *flag)
	return nil
}

type fakeScanLogStore struct {
	logs map[uuid.UUID]*models.ScanLog
}

func newFakeScanLogStore() *fakeScanLogStore {
	return &fakeScanLogStore{logs: map[uuid.UUID]*models.ScanLog{}}
}

func (f *fakeScanLogStore) Insert(_ context.Context, log *models.ScanLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.Timestamp = time.Now()
	f.logs[log.ID] = log
	return nil
}

func (f *fakeScanLogStore) Finalize(_ context.Context, id uuid.UUID, successful bool, statusMessage string, sessionID *uuid.UUID) error {
	l, ok := f.logs[id]
	if !ok {
		return apperrors.ErrRecordNotFound
	}
	l.IsSuccessful = successful
	l.StatusMessage = statusMessage
	if sessionID != nil {
		l.SessionID = sessionID
	}
	return nil
}

func (f *fakeScanLogStore) List(_ context.Context, _ repositories.ScanLogFilter, _, _ int) ([]models.ScanLog, int64, error) {
	var out []models.ScanLog
	for _, l := range f.logs {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

// single returns the only log in the store.
func (f *fakeScanLogStore) single() *models.ScanLog {
	for _, l := range f.logs {
		return l
	}
	return nil
}

type fakeRegistrationStore struct {
	registered map[string]bool // studentID|courseID
}

func regKey(studentID, courseID uuid.UUID) string {
	return studentID.String() + "|" + courseID.String()
}

func (f *fakeRegistrationStore) Find(_ context.Context, studentID, courseID uuid.UUID) (*models.StudentCourseRegistration, error) {
	if !f.registered[regKey(studentID, courseID)] {
		return nil, nil
	}
	return &models.StudentCourseRegistration{
		ID:        uuid.New(),
		StudentID: studentID,
		CourseID:  courseID,
		Semester:  "2026-S1",
	}, nil
}

func (f *fakeRegistrationStore) CountByCourse(_ context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	for key := range f.registered {
		if f.registered[key] && strings.HasSuffix(key, "|"+courseID.String()) {
			n++
		}
	}
	return n, nil
}

type fakeCourseStore struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseStore) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeStorage struct {
	saved [][]byte
}

func (f *fakeStorage) SaveBytes(data []byte, ext string) (string, error) {
	return f.SaveBytesWithPath(data, ext, "")
}

func (f *fakeStorage) SaveBytesWithPath(data []byte, _, _ string) (string, error) {
	f.saved = append(f.saved, data)
	return "uploads/evidence/" + uuid.New().String() + ".jpg", nil
}

func (f *fakeStorage) SaveFile(_ *multipart.FileHeader) (string, error) { return "", nil }

func (f *fakeStorage) DeleteFile(string) error { return nil }

func (f *fakeStorage) GetFullPath(p string) string { return "/data/" + p }

type stubAnalyzer struct {
	report EvidenceReport
}

func (s *stubAnalyzer) Analyze(EvidenceInput) EvidenceReport {
	return s.report
}

type stubComparer struct {
	result *faceclient.CompareResult
	err    error
	calls  int
}

func (s *stubComparer) Compare(_ context.Context, _, _ string) (*faceclient.CompareResult, error) {
	s.calls++
	return s.result, s.err
}

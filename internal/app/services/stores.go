package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/repositories"
)

// Narrow store interfaces over the repository layer. Services depend on
// these rather than the concrete repositories so tests can substitute fakes.

type classroomStore interface {
	GetByRoomCode(ctx context.Context, roomCode string) (*models.Classroom, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error)
}

type slotStore interface {
	FindSlotAt(ctx context.Context, classroomID uuid.UUID, dayOfWeek int, at time.Time) (*models.TimetableSlot, error)
	GetByClassroomAndDay(ctx context.Context, classroomID uuid.UUID, dayOfWeek int) ([]models.TimetableSlot, error)
	Create(ctx context.Context, slot *models.TimetableSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TimetableSlot, error)
	Update(ctx context.Context, slot *models.TimetableSlot) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetWeekly(ctx context.Context, courseID, lecturerID *uuid.UUID) ([]models.TimetableSlot, error)
}

type sessionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClassSession, error)
	GetActiveByRoomAt(ctx context.Context, classroomID uuid.UUID, at time.Time) (*models.ClassSession, error)
	GetOrCreateFromSlot(ctx context.Context, slot *models.TimetableSlot, date time.Time) (*models.ClassSession, bool, error)
	StartSession(ctx context.Context, session *models.ClassSession) error
	EndSession(ctx context.Context, id uuid.UUID) error
	GetActiveByLecturer(ctx context.Context, lecturerID uuid.UUID) (*models.ClassSession, error)
	GetByCourse(ctx context.Context, courseID uuid.UUID, limit int) ([]models.ClassSession, error)
}

type attendanceStore interface {
	Insert(ctx context.Context, rec *models.AttendanceRecord) error
	Exists(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRecord, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.AttendanceRecord, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	AddCheatingFlag(ctx context.Context, flag *models.CheatingFlag) error
}

type scanLogStore interface {
	Insert(ctx context.Context, log *models.ScanLog) error
	Finalize(ctx context.Context, id uuid.UUID, successful bool, statusMessage string, sessionID *uuid.UUID) error
	List(ctx context.Context, filter repositories.ScanLogFilter, page, pageSize int) ([]models.ScanLog, int64, error)
}

type registrationStore interface {
	Find(ctx context.Context, studentID, courseID uuid.UUID) (*models.StudentCourseRegistration, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
}

type courseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

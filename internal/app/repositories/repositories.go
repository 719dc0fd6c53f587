package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	ClassroomRepository    *ClassroomRepository
	CourseRepository       *CourseRepository
	RegistrationRepository *RegistrationRepository
	TimetableRepository    *TimetableRepository
	SessionRepository      *SessionRepository
	AttendanceRepository   *AttendanceRepository
	ScanLogRepository      *ScanLogRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		ClassroomRepository:    NewClassroomRepository(db),
		CourseRepository:       NewCourseRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		TimetableRepository:    NewTimetableRepository(db),
		SessionRepository:      NewSessionRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		ScanLogRepository:      NewScanLogRepository(db),
	}
}

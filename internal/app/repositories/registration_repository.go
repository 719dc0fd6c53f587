package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jkarani/campusgate/internal/app/models"
)

// RegistrationRepository reads student course registrations
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

// Find returns the registration for (student, course), or nil when the
// student is not registered. Absence is an answer here, not an error.
func (r *RegistrationRepository) Find(ctx context.Context, studentID, courseID uuid.UUID) (*models.StudentCourseRegistration, error) {
	query := `
		SELECT id, student_id, course_id, COALESCE(semester, '')
		FROM student_course_registrations
		WHERE student_id = $1 AND course_id = $2
	`

	var reg models.StudentCourseRegistration
	err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(
		&reg.ID,
		&reg.StudentID,
		&reg.CourseID,
		&reg.Semester,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking registration: %w", err)
	}

	return &reg, nil
}

// CountByCourse returns the number of students registered for a course.
func (r *RegistrationRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM student_course_registrations WHERE course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting registrations: %w", err)
	}
	return count, nil
}

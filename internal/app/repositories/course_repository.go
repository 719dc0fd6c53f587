package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `
		SELECT id, course_code, course_name, department, credits, semester, classroom_id, lecturer_id
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.Department,
		&course.Credits,
		&course.Semester,
		&course.ClassroomID,
		&course.LecturerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetByLecturer retrieves all courses taught by a lecturer
func (r *CourseRepository) GetByLecturer(ctx context.Context, lecturerID uuid.UUID) ([]models.Course, error) {
	query := `
		SELECT id, course_code, course_name, department, credits, semester, classroom_id, lecturer_id
		FROM courses
		WHERE lecturer_id = $1
		ORDER BY course_code
	`

	rows, err := r.db.Query(ctx, query, lecturerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.CourseCode,
			&course.CourseName,
			&course.Department,
			&course.Credits,
			&course.Semester,
			&course.ClassroomID,
			&course.LecturerID,
		); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

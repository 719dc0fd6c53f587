package models

import "github.com/google/uuid"

// Course represents a taught course. Courses, their lecturers and the student
// registrations are owned by an external module; the attendance pipeline only
// reads them.
type Course struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CourseCode  string     `json:"course_code" db:"course_code"`
	CourseName  string     `json:"course_name" db:"course_name"`
	Department  *string    `json:"department,omitempty" db:"department"`
	Credits     int        `json:"credits" db:"credits"`
	Semester    *string    `json:"semester,omitempty" db:"semester"`
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty" db:"classroom_id"`
	LecturerID  *uuid.UUID `json:"lecturer_id,omitempty" db:"lecturer_id"`
}

// StudentCourseRegistration is the (student, course, semester) gate used to
// decide registered vs flagged scans. Read-only for this subsystem.
type StudentCourseRegistration struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID uuid.UUID `json:"student_id" db:"student_id"`
	CourseID  uuid.UUID `json:"course_id" db:"course_id"`
	Semester  string    `json:"semester" db:"semester"`
}

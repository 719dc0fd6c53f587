package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Classroom errors
var (
	ErrClassroomNotFound      = errors.New("classroom not found")
	ErrClassroomAlreadyExists = errors.New("classroom with this room code already exists")
)

// Course errors
var (
	ErrCourseNotFound = errors.New("course not found")
)

// Timetable errors
var (
	ErrSlotNotFound = errors.New("timetable slot not found")
	ErrSlotConflict = errors.New("timetable slot overlaps an existing slot")
)

// Session errors
var (
	ErrSessionNotFound  = errors.New("class session not found")
	ErrSessionCompleted = errors.New("class session already completed")
)

// Attendance errors
var (
	ErrAttendanceExists = errors.New("attendance already marked for this session")
	ErrRecordNotFound   = errors.New("attendance record not found")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

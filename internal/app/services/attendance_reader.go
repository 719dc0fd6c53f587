package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// AttendanceReader exposes read access to stored attendance records.
type AttendanceReader interface {
	GetRecord(ctx context.Context, id uuid.UUID) (*models.AttendanceRecord, error)
}

type attendanceReaderImpl struct {
	attendance attendanceStore
}

// NewAttendanceReader creates a new attendance reader
func NewAttendanceReader(attendance attendanceStore) AttendanceReader {
	return &attendanceReaderImpl{attendance: attendance}
}

func (s *attendanceReaderImpl) GetRecord(ctx context.Context, id uuid.UUID) (*models.AttendanceRecord, error) {
	return s.attendance.GetByID(ctx, id)
}

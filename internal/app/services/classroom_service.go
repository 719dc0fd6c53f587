package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/repositories"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// ClassroomService handles classroom administration.
type ClassroomService interface {
	Create(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClassroomRequest) (*models.Classroom, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error)
	List(ctx context.Context, building *string, status *models.ClassroomStatus, page, pageSize int) ([]models.Classroom, int64, error)
}

// classroomServiceImpl implements the ClassroomService interface
type classroomServiceImpl struct {
	classrooms *repositories.ClassroomRepository
}

// NewClassroomService creates a new classroom service
func NewClassroomService(classrooms *repositories.ClassroomRepository) ClassroomService {
	return &classroomServiceImpl{
		classrooms: classrooms,
	}
}

// Create creates a classroom. Room codes are normalized to uppercase so the
// code printed next to the door always matches the stored one.
func (s *classroomServiceImpl) Create(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error) {
	roomCode := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	if roomCode == "" {
		return nil, fmt.Errorf("%w: room code cannot be empty", apperrors.ErrValidationFailed)
	}

	classroom := &models.Classroom{
		RoomCode: roomCode,
		RoomName: strings.TrimSpace(req.RoomName),
		Capacity: req.Capacity,
		RoomType: req.RoomType,
		Status:   models.ClassroomAvailable,
	}
	if req.Building != "" {
		b := req.Building
		classroom.Building = &b
	}
	if req.Floor != "" {
		f := req.Floor
		classroom.Floor = &f
	}

	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, err
	}

	return classroom, nil
}

// Update updates mutable classroom fields.
func (s *classroomServiceImpl) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClassroomRequest) (*models.Classroom, error) {
	classroom, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	classroom.RoomName = strings.TrimSpace(req.RoomName)
	classroom.Capacity = req.Capacity
	classroom.RoomType = req.RoomType
	if req.Status != "" {
		classroom.Status = req.Status
	}
	classroom.Building = nil
	if req.Building != "" {
		b := req.Building
		classroom.Building = &b
	}
	classroom.Floor = nil
	if req.Floor != "" {
		f := req.Floor
		classroom.Floor = &f
	}

	if err := s.classrooms.Update(ctx, classroom); err != nil {
		return nil, err
	}

	return classroom, nil
}

// Delete removes a classroom.
func (s *classroomServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.classrooms.Delete(ctx, id)
}

// GetByID retrieves a classroom.
func (s *classroomServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error) {
	return s.classrooms.GetByID(ctx, id)
}

// List retrieves classrooms with filtering and pagination.
func (s *classroomServiceImpl) List(ctx context.Context, building *string, status *models.ClassroomStatus, page, pageSize int) ([]models.Classroom, int64, error) {
	return s.classrooms.GetAll(ctx, building, status, page, pageSize)
}

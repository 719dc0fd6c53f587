package dto

import (
	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
)

// ClassroomResponse represents basic classroom information
type ClassroomResponse struct {
	ID       uuid.UUID              `json:"id"`
	RoomCode string                 `json:"roomCode"`
	RoomName string                 `json:"roomName"`
	Building *string                `json:"building,omitempty"`
	Floor    *string                `json:"floor,omitempty"`
	Capacity int                    `json:"capacity"`
	RoomType string                 `json:"roomType"`
	Status   models.ClassroomStatus `json:"status"`
}

// CreateClassroomRequest represents classroom creation data
type CreateClassroomRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
	RoomName string `json:"roomName" binding:"required"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Capacity int    `json:"capacity" binding:"gte=0"`
	RoomType string `json:"roomType"`
}

// UpdateClassroomRequest represents classroom update data
type UpdateClassroomRequest struct {
	RoomName string                 `json:"roomName" binding:"required"`
	Building string                 `json:"building"`
	Floor    string                 `json:"floor"`
	Capacity int                    `json:"capacity" binding:"gte=0"`
	RoomType string                 `json:"roomType"`
	Status   models.ClassroomStatus `json:"status"`
}

// ClassroomListResponse represents a list of classrooms
type ClassroomListResponse struct {
	Classrooms []ClassroomResponse `json:"classrooms"`
	PaginationInfo
}

// NewClassroomResponse maps a classroom model to its response form.
func NewClassroomResponse(c *models.Classroom) ClassroomResponse {
	return ClassroomResponse{
		ID:       c.ID,
		RoomCode: c.RoomCode,
		RoomName: c.RoomName,
		Building: c.Building,
		Floor:    c.Floor,
		Capacity: c.Capacity,
		RoomType: c.RoomType,
		Status:   c.Status,
	}
}

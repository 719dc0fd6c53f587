package models

import (
	"time"

	"github.com/google/uuid"
)

// Classroom represents a physical room identified by a unique room code.
type Classroom struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	RoomCode string          `json:"room_code" db:"room_code"`
	RoomName string          `json:"room_name" db:"room_name"`
	Building *string         `json:"building,omitempty" db:"building"`
	Floor    *string         `json:"floor,omitempty" db:"floor"`
	Capacity int             `json:"capacity" db:"capacity"`
	RoomType string          `json:"room_type" db:"room_type"`
	Status   ClassroomStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

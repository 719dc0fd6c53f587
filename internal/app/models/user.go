package models

import "github.com/google/uuid"

// User is the minimal read model of an identity. Account storage and
// authentication live in an external module; this subsystem only needs the
// fields surfaced on attendance listings plus the role carried by the token.
type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	AdmissionNumber string    `json:"admission_number" db:"admission_number"`
	FullName        string    `json:"full_name" db:"full_name"`
	Email           *string   `json:"email,omitempty" db:"email"`
	Role            RoleType  `json:"role" db:"role"`

	// ReferencePhoto is the enrolled photo evidence submissions are compared
	// against by the review worker.
	ReferencePhoto *string `json:"reference_photo,omitempty" db:"reference_photo"`
}

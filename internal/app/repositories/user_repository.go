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

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, admission_number, full_name, email, role, reference_photo
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.AdmissionNumber,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.ReferencePhoto,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetByAdmissionNumber retrieves a user by admission number
func (r *UserRepository) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.User, error) {
	query := `
		SELECT id, admission_number, full_name, email, role, reference_photo
		FROM users
		WHERE admission_number = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, admissionNumber).Scan(
		&user.ID,
		&user.AdmissionNumber,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.ReferencePhoto,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// UpdateReferencePhoto sets the stored reference photo path for a user.
func (r *UserRepository) UpdateReferencePhoto(ctx context.Context, id uuid.UUID, path string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET reference_photo = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("error updating reference photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

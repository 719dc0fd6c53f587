package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
	"github.com/jkarani/campusgate/internal/pkg/dberrors"
)

// ClassroomRepository handles database operations for classrooms
type ClassroomRepository struct {
	db *pgxpool.Pool
}

// NewClassroomRepository creates a new classroom repository
func NewClassroomRepository(db *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{
		db: db,
	}
}

// Create creates a new classroom
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	query := `
		INSERT INTO classrooms (id, room_code, room_name, building, floor, capacity, room_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	if classroom.ID == uuid.Nil {
		classroom.ID = uuid.New()
	}
	if classroom.Status == "" {
		classroom.Status = models.ClassroomAvailable
	}

	err := r.db.QueryRow(ctx, query,
		classroom.ID,
		classroom.RoomCode,
		classroom.RoomName,
		classroom.Building,
		classroom.Floor,
		classroom.Capacity,
		classroom.RoomType,
		classroom.Status,
	).Scan(&classroom.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrClassroomAlreadyExists
		}
		return fmt.Errorf("error creating classroom: %w", err)
	}

	return nil
}

// GetByID retrieves a classroom by ID
func (r *ClassroomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByRoomCode retrieves a classroom by its unique room code
func (r *ClassroomRepository) GetByRoomCode(ctx context.Context, roomCode string) (*models.Classroom, error) {
	return r.getOne(ctx, "room_code = $1", roomCode)
}

func (r *ClassroomRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Classroom, error) {
	query := `
		SELECT id, room_code, room_name, building, floor, capacity, room_type, status, created_at
		FROM classrooms
		WHERE ` + where

	var classroom models.Classroom
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&classroom.ID,
		&classroom.RoomCode,
		&classroom.RoomName,
		&classroom.Building,
		&classroom.Floor,
		&classroom.Capacity,
		&classroom.RoomType,
		&classroom.Status,
		&classroom.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassroomNotFound
		}
		return nil, fmt.Errorf("error retrieving classroom: %w", err)
	}

	return &classroom, nil
}

// GetAll retrieves classrooms with optional filtering and pagination
func (r *ClassroomRepository) GetAll(ctx context.Context, building *string, status *models.ClassroomStatus, page, pageSize int) ([]models.Classroom, int64, error) {
	query := squirrel.Select("id", "room_code", "room_name", "building", "floor", "capacity", "room_type", "status", "created_at").
		Column("COUNT(*) OVER()").
		From("classrooms").
		OrderBy("room_code").
		PlaceholderFormat(squirrel.Dollar)

	if building != nil {
		query = query.Where("building = ?", *building)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	offset := (page - 1) * pageSize
	query = query.Limit(uint64(pageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var classrooms []models.Classroom
	var total int64

	for rows.Next() {
		var c models.Classroom
		if err := rows.Scan(
			&c.ID,
			&c.RoomCode,
			&c.RoomName,
			&c.Building,
			&c.Floor,
			&c.Capacity,
			&c.RoomType,
			&c.Status,
			&c.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		classrooms = append(classrooms, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return classrooms, total, nil
}

// Update updates mutable classroom fields
func (r *ClassroomRepository) Update(ctx context.Context, classroom *models.Classroom) error {
	query := `
		UPDATE classrooms
		SET room_name = $2, building = $3, floor = $4, capacity = $5, room_type = $6, status = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		classroom.ID,
		classroom.RoomName,
		classroom.Building,
		classroom.Floor,
		classroom.Capacity,
		classroom.RoomType,
		classroom.Status,
	)
	if err != nil {
		return fmt.Errorf("error updating classroom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}

	return nil
}

// Delete removes a classroom
func (r *ClassroomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM classrooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting classroom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}

	return nil
}

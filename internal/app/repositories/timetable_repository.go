package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// TimetableRepository handles database operations for timetable slots
type TimetableRepository struct {
	db *pgxpool.Pool
}

// NewTimetableRepository creates a new timetable repository
func NewTimetableRepository(db *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{
		db: db,
	}
}

const slotJoinColumns = `
	ts.id, ts.course_id, ts.classroom_id, ts.lecturer_id, ts.day_of_week,
	ts.start_time, ts.end_time, ts.effective_from, ts.effective_until, ts.is_active,
	c.course_code, c.course_name, r.room_code, r.room_name, COALESCE(u.full_name, '')
`

const slotJoins = `
	FROM timetable_slots ts
	JOIN courses c ON c.id = ts.course_id
	JOIN classrooms r ON r.id = ts.classroom_id
	LEFT JOIN users u ON u.id = ts.lecturer_id
`

func scanSlot(row pgx.Row) (*models.TimetableSlot, error) {
	var slot models.TimetableSlot
	var start, end pgtype.Time
	err := row.Scan(
		&slot.ID,
		&slot.CourseID,
		&slot.ClassroomID,
		&slot.LecturerID,
		&slot.DayOfWeek,
		&start,
		&end,
		&slot.EffectiveFrom,
		&slot.EffectiveUntil,
		&slot.IsActive,
		&slot.CourseCode,
		&slot.CourseName,
		&slot.RoomCode,
		&slot.RoomName,
		&slot.LecturerName,
	)
	if err != nil {
		return nil, err
	}
	slot.StartTime = clockFromPg(start)
	slot.EndTime = clockFromPg(end)
	return &slot, nil
}

// Create creates a new timetable slot
func (r *TimetableRepository) Create(ctx context.Context, slot *models.TimetableSlot) error {
	query := `
		INSERT INTO timetable_slots
			(id, course_id, classroom_id, lecturer_id, day_of_week, start_time, end_time,
			 effective_from, effective_until, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.CourseID,
		slot.ClassroomID,
		slot.LecturerID,
		slot.DayOfWeek,
		pgFromClock(slot.StartTime),
		pgFromClock(slot.EndTime),
		slot.EffectiveFrom,
		slot.EffectiveUntil,
		slot.IsActive,
	)
	if err != nil {
		return fmt.Errorf("error creating timetable slot: %w", err)
	}

	return nil
}

// GetByID retrieves a timetable slot with its course and room
func (r *TimetableRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TimetableSlot, error) {
	query := "SELECT " + slotJoinColumns + slotJoins + " WHERE ts.id = $1"

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("error retrieving timetable slot: %w", err)
	}

	return slot, nil
}

// Update updates a timetable slot's schedule fields
func (r *TimetableRepository) Update(ctx context.Context, slot *models.TimetableSlot) error {
	query := `
		UPDATE timetable_slots
		SET day_of_week = $2, start_time = $3, end_time = $4, is_active = $5
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.DayOfWeek,
		pgFromClock(slot.StartTime),
		pgFromClock(slot.EndTime),
		slot.IsActive,
	)
	if err != nil {
		return fmt.Errorf("error updating timetable slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSlotNotFound
	}

	return nil
}

// Delete removes a timetable slot
func (r *TimetableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timetable_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting timetable slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSlotNotFound
	}

	return nil
}

// GetByClassroomAndDay retrieves all active slots for a room on a weekday.
// Used for overlap checks when creating or moving slots.
func (r *TimetableRepository) GetByClassroomAndDay(ctx context.Context, classroomID uuid.UUID, dayOfWeek int) ([]models.TimetableSlot, error) {
	query := "SELECT " + slotJoinColumns + slotJoins + `
		WHERE ts.classroom_id = $1 AND ts.day_of_week = $2 AND ts.is_active
		ORDER BY ts.start_time
	`

	return r.querySlots(ctx, query, classroomID, dayOfWeek)
}

// FindSlotAt finds the active slot covering the given wall clock instant in a
// room: matching weekday, window containing the clock time, and effective
// date range (when set) covering the date.
func (r *TimetableRepository) FindSlotAt(ctx context.Context, classroomID uuid.UUID, dayOfWeek int, at time.Time) (*models.TimetableSlot, error) {
	query := "SELECT " + slotJoinColumns + slotJoins + `
		WHERE ts.classroom_id = $1
		  AND ts.day_of_week = $2
		  AND ts.is_active
		  AND ts.start_time <= $3 AND ts.end_time >= $3
		  AND (ts.effective_from IS NULL OR ts.effective_from <= $4)
		  AND (ts.effective_until IS NULL OR ts.effective_until >= $4)
		ORDER BY ts.start_time
		LIMIT 1
	`

	date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	slot, err := scanSlot(r.db.QueryRow(ctx, query, classroomID, dayOfWeek, pgFromClock(at), date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("error resolving timetable slot: %w", err)
	}

	return slot, nil
}

// GetWeekly retrieves active slots, optionally filtered by course or lecturer.
func (r *TimetableRepository) GetWeekly(ctx context.Context, courseID, lecturerID *uuid.UUID) ([]models.TimetableSlot, error) {
	builder := squirrel.Select(
		"ts.id", "ts.course_id", "ts.classroom_id", "ts.lecturer_id", "ts.day_of_week",
		"ts.start_time", "ts.end_time", "ts.effective_from", "ts.effective_until", "ts.is_active",
		"c.course_code", "c.course_name", "r.room_code", "r.room_name", "COALESCE(u.full_name, '')").
		From("timetable_slots ts").
		Join("courses c ON c.id = ts.course_id").
		Join("classrooms r ON r.id = ts.classroom_id").
		LeftJoin("users u ON u.id = ts.lecturer_id").
		Where("ts.is_active").
		OrderBy("ts.day_of_week", "ts.start_time").
		PlaceholderFormat(squirrel.Dollar)

	if courseID != nil {
		builder = builder.Where("ts.course_id = ?", *courseID)
	}
	if lecturerID != nil {
		builder = builder.Where("ts.lecturer_id = ?", *lecturerID)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return r.querySlots(ctx, sql, args...)
}

func (r *TimetableRepository) querySlots(ctx context.Context, query string, args ...interface{}) ([]models.TimetableSlot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.TimetableSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

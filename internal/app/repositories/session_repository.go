package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// SessionRepository handles database operations for class sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

const sessionColumns = `
	id, course_id, timetable_slot_id, session_date, start_time, end_time,
	classroom_id, lecturer_id, qr_code, room_unique_code, status, active, created_at
`

func scanSession(row pgx.Row) (*models.ClassSession, error) {
	var s models.ClassSession
	var start, end pgtype.Time
	err := row.Scan(
		&s.ID,
		&s.CourseID,
		&s.TimetableSlotID,
		&s.SessionDate,
		&start,
		&end,
		&s.ClassroomID,
		&s.LecturerID,
		&s.QRCode,
		&s.RoomUniqueCode,
		&s.Status,
		&s.Active,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.StartTime = clockFromPg(start)
	s.EndTime = clockFromPg(end)
	return &s, nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClassSession, error) {
	query := "SELECT " + sessionColumns + " FROM class_sessions WHERE id = $1"

	session, err := scanSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return session, nil
}

// GetActiveByRoomAt finds the active session running in a room at the given
// instant: same date and a window containing the clock time.
func (r *SessionRepository) GetActiveByRoomAt(ctx context.Context, classroomID uuid.UUID, at time.Time) (*models.ClassSession, error) {
	query := "SELECT " + sessionColumns + `
		FROM class_sessions
		WHERE classroom_id = $1
		  AND active
		  AND session_date = $2
		  AND start_time <= $3 AND end_time >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	session, err := scanSession(r.db.QueryRow(ctx, query, classroomID, date, pgFromClock(at)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error resolving active session: %w", err)
	}

	return session, nil
}

// GetOrCreateFromSlot materializes the session for a timetable slot on the
// given date. Concurrent calls race on the partial unique index; the loser's
// insert is a no-op and both return the same row.
func (r *SessionRepository) GetOrCreateFromSlot(ctx context.Context, slot *models.TimetableSlot, date time.Time) (*models.ClassSession, bool, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	insert := `
		INSERT INTO class_sessions
			(id, course_id, timetable_slot_id, session_date, start_time, end_time,
			 classroom_id, lecturer_id, qr_code, room_unique_code, status, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
		ON CONFLICT (timetable_slot_id, session_date) WHERE timetable_slot_id IS NOT NULL
		DO NOTHING
	`

	tag, err := r.db.Exec(ctx, insert,
		uuid.New(),
		slot.CourseID,
		slot.ID,
		date,
		pgFromClock(slot.StartTime),
		pgFromClock(slot.EndTime),
		slot.ClassroomID,
		slot.LecturerID,
		uuid.New().String(),
		slot.RoomCode,
		models.SessionOngoing,
	)
	if err != nil {
		return nil, false, fmt.Errorf("error materializing session: %w", err)
	}
	created := tag.RowsAffected() == 1

	query := "SELECT " + sessionColumns + `
		FROM class_sessions
		WHERE timetable_slot_id = $1 AND session_date = $2
	`

	session, err := scanSession(r.db.QueryRow(ctx, query, slot.ID, date))
	if err != nil {
		return nil, false, fmt.Errorf("error reading materialized session: %w", err)
	}

	return session, created, nil
}

// StartSession inserts a lecturer-started session, completing any session the
// lecturer still has active. Runs in a single transaction.
func (r *SessionRepository) StartSession(ctx context.Context, session *models.ClassSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE class_sessions
		SET active = false, status = $2
		WHERE lecturer_id = $1 AND active
	`, session.LecturerID, models.SessionCompleted)
	if err != nil {
		return fmt.Errorf("error completing previous sessions: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO class_sessions
			(id, course_id, timetable_slot_id, session_date, start_time, end_time,
			 classroom_id, lecturer_id, qr_code, room_unique_code, status, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
		RETURNING created_at
	`,
		session.ID,
		session.CourseID,
		session.TimetableSlotID,
		session.SessionDate,
		pgFromClock(session.StartTime),
		pgFromClock(session.EndTime),
		session.ClassroomID,
		session.LecturerID,
		session.QRCode,
		session.RoomUniqueCode,
		session.Status,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}

	session.Active = true

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// EndSession completes an active session. Returns ErrSessionCompleted if the
// session is already terminal.
func (r *SessionRepository) EndSession(ctx context.Context, id uuid.UUID) error {
	session, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if session.Status.Terminal() {
		return apperrors.ErrSessionCompleted
	}

	_, err = r.db.Exec(ctx, `
		UPDATE class_sessions
		SET active = false, status = $2
		WHERE id = $1
	`, id, models.SessionCompleted)
	if err != nil {
		return fmt.Errorf("error ending session: %w", err)
	}

	return nil
}

// GetActiveByLecturer retrieves the lecturer's currently active session.
func (r *SessionRepository) GetActiveByLecturer(ctx context.Context, lecturerID uuid.UUID) (*models.ClassSession, error) {
	query := "SELECT " + sessionColumns + `
		FROM class_sessions
		WHERE lecturer_id = $1 AND active
		ORDER BY created_at DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.QueryRow(ctx, query, lecturerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving active session: %w", err)
	}

	return session, nil
}

// GetByCourse retrieves sessions for a course, newest first.
func (r *SessionRepository) GetByCourse(ctx context.Context, courseID uuid.UUID, limit int) ([]models.ClassSession, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT " + sessionColumns + `
		FROM class_sessions
		WHERE course_id = $1
		ORDER BY session_date DESC, start_time DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, courseID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ClassSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jkarani/campusgate/internal/app/models"
)

// ScanLogRepository handles the append-only scan audit log. Inserts run as
// standalone statements, never inside the verification transaction, so the
// audit trail survives failures later in the flow.
type ScanLogRepository struct {
	db *pgxpool.Pool
}

// NewScanLogRepository creates a new scan log repository
func NewScanLogRepository(db *pgxpool.Pool) *ScanLogRepository {
	return &ScanLogRepository{
		db: db,
	}
}

// Insert writes the initial log row for a scan attempt.
func (r *ScanLogRepository) Insert(ctx context.Context, log *models.ScanLog) error {
	query := `
		INSERT INTO scan_logs
			(id, student_id, room_code, is_successful, status_message, session_id, detected_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING timestamp
	`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.StatusMessage == "" {
		log.StatusMessage = models.ScanMsgInitializing
	}

	err := r.db.QueryRow(ctx, query,
		log.ID,
		log.StudentID,
		log.RoomCode,
		log.IsSuccessful,
		log.StatusMessage,
		log.SessionID,
		log.DetectedLocation,
	).Scan(&log.Timestamp)
	if err != nil {
		return fmt.Errorf("error inserting scan log: %w", err)
	}

	return nil
}

// Finalize records the outcome of a scan attempt. The only post-insert
// mutation the log permits.
func (r *ScanLogRepository) Finalize(ctx context.Context, id uuid.UUID, successful bool, statusMessage string, sessionID *uuid.UUID) error {
	query := `
		UPDATE scan_logs
		SET is_successful = $2, status_message = $3,
		    session_id = COALESCE($4, session_id)
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, id, successful, statusMessage, sessionID)
	if err != nil {
		return fmt.Errorf("error finalizing scan log: %w", err)
	}

	return nil
}

// ScanLogFilter narrows List results. Zero values mean no filter.
type ScanLogFilter struct {
	StudentID  *uuid.UUID
	RoomCode   string
	Successful *bool
	Since      *time.Time
	Until      *time.Time
}

// List retrieves audit log entries, newest first, with student details.
func (r *ScanLogRepository) List(ctx context.Context, filter ScanLogFilter, page, pageSize int) ([]models.ScanLog, int64, error) {
	query := squirrel.Select(
		"l.id", "l.timestamp", "l.student_id", "l.room_code",
		"l.is_successful", "l.status_message", "l.session_id", "l.detected_location",
		"u.full_name", "u.admission_number").
		Column("COUNT(*) OVER()").
		From("scan_logs l").
		Join("users u ON u.id = l.student_id").
		OrderBy("l.timestamp DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.StudentID != nil {
		query = query.Where("l.student_id = ?", *filter.StudentID)
	}
	if filter.RoomCode != "" {
		query = query.Where("l.room_code = ?", filter.RoomCode)
	}
	if filter.Successful != nil {
		query = query.Where("l.is_successful = ?", *filter.Successful)
	}
	if filter.Since != nil {
		query = query.Where("l.timestamp >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("l.timestamp <= ?", *filter.Until)
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

	var logs []models.ScanLog
	var total int64

	for rows.Next() {
		var l models.ScanLog
		if err := rows.Scan(
			&l.ID,
			&l.Timestamp,
			&l.StudentID,
			&l.RoomCode,
			&l.IsSuccessful,
			&l.StatusMessage,
			&l.SessionID,
			&l.DetectedLocation,
			&l.StudentName,
			&l.AdmissionNumber,
			&total,
		); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

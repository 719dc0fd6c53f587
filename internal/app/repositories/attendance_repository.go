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
	"github.com/jkarani/campusgate/internal/pkg/dberrors"
)

// AttendanceRepository handles database operations for attendance records
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

// Insert writes a new attendance record. A unique constraint on
// (session_id, student_id) backstops duplicate scans that race past the
// existence check; those surface as ErrAttendanceExists.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records
			(id, session_id, student_id, scan_time, status, evidence_path,
			 connection_type, ip_address, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.StudentID,
		rec.ScanTime,
		rec.Status,
		rec.EvidencePath,
		rec.ConnectionType,
		rec.IPAddress,
		rec.Metadata,
	)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAttendanceExists
		}
		return fmt.Errorf("error inserting attendance record: %w", err)
	}

	return nil
}

// Exists reports whether the student already has a record for the session.
func (r *AttendanceRepository) Exists(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE session_id = $1 AND student_id = $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, sessionID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking attendance: %w", err)
	}

	return exists, nil
}

// GetByID retrieves an attendance record by ID
func (r *AttendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.session_id, a.student_id, a.scan_time, a.status,
		       a.evidence_path, a.connection_type, a.ip_address, a.metadata,
		       u.full_name, u.admission_number
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.id = $1
	`

	var rec models.AttendanceRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.StudentID,
		&rec.ScanTime,
		&rec.Status,
		&rec.EvidencePath,
		&rec.ConnectionType,
		&rec.IPAddress,
		&rec.Metadata,
		&rec.StudentName,
		&rec.AdmissionNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving attendance record: %w", err)
	}

	return &rec, nil
}

// ListBySession retrieves all attendance records for a session with student
// details and integrity flags, in scan order.
func (r *AttendanceRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.session_id, a.student_id, a.scan_time, a.status,
		       a.evidence_path, a.connection_type, a.ip_address, a.metadata,
		       u.full_name, u.admission_number
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.session_id = $1
		ORDER BY a.scan_time
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.StudentID,
			&rec.ScanTime,
			&rec.Status,
			&rec.EvidencePath,
			&rec.ConnectionType,
			&rec.IPAddress,
			&rec.Metadata,
			&rec.StudentName,
			&rec.AdmissionNumber,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return records, nil
	}

	flags, err := r.flagsForRecords(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Flags = flags[records[i].ID]
	}

	return records, nil
}

func (r *AttendanceRepository) flagsForRecords(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.CheatingFlag, error) {
	query := `
		SELECT id, attendance_id, reason, similarity_score, created_at
		FROM cheating_flags
		WHERE attendance_id = ANY($1)
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error retrieving cheating flags: %w", err)
	}
	defer rows.Close()

	byRecord := make(map[uuid.UUID][]models.CheatingFlag)
	for rows.Next() {
		var f models.CheatingFlag
		if err := rows.Scan(&f.ID, &f.AttendanceID, &f.Reason, &f.SimilarityScore, &f.CreatedAt); err != nil {
			return nil, err
		}
		byRecord[f.AttendanceID] = append(byRecord[f.AttendanceID], f)
	}

	return byRecord, rows.Err()
}

// AddCheatingFlag attaches an integrity flag to an attendance record.
func (r *AttendanceRepository) AddCheatingFlag(ctx context.Context, flag *models.CheatingFlag) error {
	query := `
		INSERT INTO cheating_flags (id, attendance_id, reason, similarity_score)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if flag.ID == uuid.Nil {
		flag.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query, flag.ID, flag.AttendanceID, flag.Reason, flag.SimilarityScore).Scan(&flag.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting cheating flag: %w", err)
	}

	return nil
}

// CountBySession returns the number of attendance records for a session.
func (r *AttendanceRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_records WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting attendance: %w", err)
	}
	return count, nil
}

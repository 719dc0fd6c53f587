package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/repositories"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// AuditService exposes the scan audit log to staff dashboards.
type AuditService interface {
	ListScanLogs(ctx context.Context, req dto.ScanLogFilterRequest) ([]models.ScanLog, int64, error)
}

// auditServiceImpl implements the AuditService interface
type auditServiceImpl struct {
	scanLogs scanLogStore
}

// NewAuditService creates a new audit service
func NewAuditService(scanLogs scanLogStore) AuditService {
	return &auditServiceImpl{
		scanLogs: scanLogs,
	}
}

// ListScanLogs retrieves audit log entries for the given filters.
func (s *auditServiceImpl) ListScanLogs(ctx context.Context, req dto.ScanLogFilterRequest) ([]models.ScanLog, int64, error) {
	filter := repositories.ScanLogFilter{
		RoomCode:   req.RoomCode,
		Successful: req.Successful,
	}

	if req.StudentID != "" {
		id, err := uuid.Parse(req.StudentID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid studentId", apperrors.ErrValidationFailed)
		}
		filter.StudentID = &id
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid since timestamp", apperrors.ErrValidationFailed)
		}
		filter.Since = &since
	}
	if req.Until != "" {
		until, err := time.Parse(time.RFC3339, req.Until)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid until timestamp", apperrors.ErrValidationFailed)
		}
		filter.Until = &until
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	return s.scanLogs.List(ctx, filter, page, pageSize)
}

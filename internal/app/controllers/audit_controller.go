package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/middleware"
	"github.com/jkarani/campusgate/internal/pkg/helpers"
)

// AuditController exposes the scan audit log
type AuditController struct {
	auditService services.AuditService
}

// NewAuditController creates a new AuditController
func NewAuditController(auditService services.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// ListScanLogs retrieves scan audit log entries
// @Summary List scan audit logs
// @Description Retrieves scan attempts with optional filters on student, room code, outcome and time range
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param studentId query string false "Filter by student ID" Format(uuid)
// @Param roomCode query string false "Filter by scanned room code"
// @Param successful query bool false "Filter by scan outcome"
// @Param since query string false "Lower timestamp bound (RFC 3339)"
// @Param until query string false "Upper timestamp bound (RFC 3339)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} dto.APIResponse{data=dto.ScanLogListResponse} "Scan logs retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit/scan-logs [get]
func (c *AuditController) ListScanLogs(ctx *gin.Context) {
	var req dto.ScanLogFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	logs, total, err := c.auditService.ListScanLogs(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ScanLogListResponse{
		Logs:           make([]dto.ScanLogResponse, 0, len(logs)),
		PaginationInfo: helpers.NewPaginationInfo(total, req.Page, req.PageSize),
	}
	for i := range logs {
		resp.Logs = append(resp.Logs, dto.NewScanLogResponse(&logs[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

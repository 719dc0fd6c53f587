package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/middleware"
	"github.com/jkarani/campusgate/internal/pkg/logger"
)

// maxEvidenceSize caps the uploaded evidence photo at 8 MiB.
const maxEvidenceSize = 8 << 20

// AttendanceController handles scan verification and attendance records
type AttendanceController struct {
	scanVerifier services.ScanVerifier
	attendance   services.AttendanceReader
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(scanVerifier services.ScanVerifier, attendance services.AttendanceReader) *AttendanceController {
	return &AttendanceController{
		scanVerifier: scanVerifier,
		attendance:   attendance,
	}
}

// VerifyScan processes one attendance scan attempt
// @Summary Verify an attendance scan
// @Description Resolves the scanned room code to a running session, analyzes the evidence photo and marks attendance
// @Tags attendance
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param roomCode formData string true "Room unique code from the scanned QR"
// @Param connectionType formData string false "Client network type (wifi, cellular)"
// @Param locationStatus formData string false "Location permission status (granted, denied)"
// @Param latitude formData string false "Client latitude"
// @Param longitude formData string false "Client longitude"
// @Param evidence formData file false "Evidence photo"
// @Success 200 {object} dto.APIResponse{data=dto.ScanResultResponse} "Scan processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 429 {object} dto.ErrorResponse "Too many scan attempts"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/verify-scan [post]
func (c *AttendanceController) VerifyScan(ctx *gin.Context) {
	studentID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.VerifyScanRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid scan data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	input := services.ScanInput{
		StudentID:      studentID,
		RoomCode:       req.RoomCode,
		ConnectionType: req.ConnectionType,
		LocationStatus: req.LocationStatus,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		IPAddress:      ctx.ClientIP(),
		At:             time.Now(),
	}

	// The evidence photo is optional at the transport level; a missing file
	// becomes a flagged record downstream, not a request error.
	if fileHeader, err := ctx.FormFile("evidence"); err == nil {
		if fileHeader.Size > maxEvidenceSize {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Evidence photo too large")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open evidence upload")
		} else {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxEvidenceSize))
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to read evidence upload")
			} else {
				input.Evidence = data
				input.EvidenceExt = filepath.Ext(fileHeader.Filename)
			}
		}
	}

	result, err := c.scanVerifier.VerifyScan(ctx.Request.Context(), input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// GetRecord retrieves a single attendance record
// @Summary Get an attendance record
// @Description Retrieves an attendance record with its cheating flags
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance record ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceRecordResponse} "Record retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid record ID format"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/records/{id} [get]
func (c *AttendanceController) GetRecord(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record ID")
		errorDetail = errorDetail.WithDetails("Record ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.attendance.GetRecord(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewAttendanceRecordResponse(record),
		Timestamp: time.Now(),
	})
}

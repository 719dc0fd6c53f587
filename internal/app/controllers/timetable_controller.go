package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/middleware"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// TimetableController handles timetable slots and session resolution
type TimetableController struct {
	timetableService services.TimetableService
	sessionResolver  services.SessionResolver
}

// NewTimetableController creates a new TimetableController
func NewTimetableController(timetableService services.TimetableService, sessionResolver services.SessionResolver) *TimetableController {
	return &TimetableController{
		timetableService: timetableService,
		sessionResolver:  sessionResolver,
	}
}

// CreateSlot creates a recurring timetable slot
// @Summary Create a timetable slot
// @Description Creates a recurring weekly slot for a course in a classroom
// @Tags timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSlotRequest true "Slot information"
// @Success 201 {object} dto.APIResponse{data=dto.SlotResponse} "Slot created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course or classroom not found"
// @Failure 409 {object} dto.ErrorResponse "Slot overlaps an existing slot"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /timetable/slots [post]
func (c *TimetableController) CreateSlot(ctx *gin.Context) {
	var req dto.CreateSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid slot data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	slot, err := c.timetableService.CreateSlot(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewSlotResponse(slot),
		Timestamp: time.Now(),
	})
}

// UpdateSlot updates a timetable slot
// @Summary Update a timetable slot
// @Description Updates the day, time window or active flag of a slot
// @Tags timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID" Format(uuid)
// @Param request body dto.UpdateSlotRequest true "Updated slot information"
// @Success 200 {object} dto.APIResponse{data=dto.SlotResponse} "Slot updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Failure 409 {object} dto.ErrorResponse "Slot overlaps an existing slot"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /timetable/slots/{id} [put]
func (c *TimetableController) UpdateSlot(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid slot ID")
		errorDetail = errorDetail.WithDetails("Slot ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid slot data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	slot, err := c.timetableService.UpdateSlot(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSlotResponse(slot),
		Timestamp: time.Now(),
	})
}

// DeleteSlot deletes a timetable slot
// @Summary Delete a timetable slot
// @Description Removes a slot from the timetable
// @Tags timetable
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Slot deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid slot ID format"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /timetable/slots/{id} [delete]
func (c *TimetableController) DeleteSlot(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid slot ID")
		errorDetail = errorDetail.WithDetails("Slot ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.timetableService.DeleteSlot(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Slot deleted"},
		Timestamp: time.Now(),
	})
}

// GetSlot retrieves a timetable slot
// @Summary Get slot details
// @Description Retrieves a timetable slot by its ID
// @Tags timetable
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SlotResponse} "Slot retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid slot ID format"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /timetable/slots/{id} [get]
func (c *TimetableController) GetSlot(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid slot ID")
		errorDetail = errorDetail.WithDetails("Slot ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	slot, err := c.timetableService.GetSlot(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSlotResponse(slot),
		Timestamp: time.Now(),
	})
}

// GetWeekly retrieves the weekly timetable
// @Summary Get the weekly timetable
// @Description Retrieves active slots grouped by day of week, optionally filtered by course or lecturer
// @Tags timetable
// @Produce json
// @Security BearerAuth
// @Param courseId query string false "Filter by course ID" Format(uuid)
// @Param lecturerId query string false "Filter by lecturer ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.WeeklyTimetableResponse} "Weekly timetable"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /timetable/weekly [get]
func (c *TimetableController) GetWeekly(ctx *gin.Context) {
	var courseID, lecturerID *uuid.UUID

	if raw := ctx.Query("courseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		courseID = &id
	}
	if raw := ctx.Query("lecturerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lecturer ID")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		lecturerID = &id
	}

	weekly, err := c.timetableService.Weekly(ctx.Request.Context(), courseID, lecturerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      weekly,
		Timestamp: time.Now(),
	})
}

// ResolveSession resolves a room code to the running session
// @Summary Resolve a room code to a session
// @Description Maps a room code and instant to the session active at that time, materializing one from the timetable if needed
// @Tags timetable
// @Produce json
// @Security BearerAuth
// @Param roomCode query string true "Room unique code"
// @Param at query string false "Instant to resolve at (RFC 3339, default now)"
// @Success 200 {object} dto.APIResponse{data=dto.ResolveSessionResponse} "Resolution result"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Room code not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /timetable/resolve-session [get]
func (c *TimetableController) ResolveSession(ctx *gin.Context) {
	roomCode := ctx.Query("roomCode")
	if roomCode == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Room code is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	at := time.Now()
	if raw := ctx.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid timestamp")
			errorDetail = errorDetail.WithDetails("at must be RFC 3339")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		at = parsed
	}

	session, err := c.sessionResolver.Resolve(ctx.Request.Context(), roomCode, at)
	if err != nil {
		// No scheduled class is a negative resolution, not an HTTP error.
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			ctx.JSON(http.StatusOK, dto.APIResponse{
				Data:      dto.ResolveSessionResponse{Resolved: false},
				Timestamp: time.Now(),
			})
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewSessionResponse(session)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ResolveSessionResponse{Resolved: true, SessionID: &session.ID, Session: &resp},
		Timestamp: time.Now(),
	})
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/middleware"
	"github.com/jkarani/campusgate/internal/pkg/helpers"
)

// ClassroomController handles classroom management
type ClassroomController struct {
	classroomService services.ClassroomService
}

// NewClassroomController creates a new ClassroomController
func NewClassroomController(classroomService services.ClassroomService) *ClassroomController {
	return &ClassroomController{
		classroomService: classroomService,
	}
}

// CreateClassroom creates a classroom
// @Summary Create a new classroom
// @Description Creates a classroom with a unique room code
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassroomRequest true "Classroom information"
// @Success 201 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Room code already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms [post]
func (c *ClassroomController) CreateClassroom(ctx *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	classroom, err := c.classroomService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewClassroomResponse(classroom),
		Timestamp: time.Now(),
	})
}

// GetClassroom retrieves a classroom by ID
// @Summary Get classroom details
// @Description Retrieves a classroom by its ID
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID format"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id} [get]
func (c *ClassroomController) GetClassroom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom ID")
		errorDetail = errorDetail.WithDetails("Classroom ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	classroom, err := c.classroomService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewClassroomResponse(classroom),
		Timestamp: time.Now(),
	})
}

// ListClassrooms retrieves classrooms with optional filters
// @Summary List classrooms
// @Description Retrieves a paginated list of classrooms, optionally filtered by building and status
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param building query string false "Filter by building"
// @Param status query string false "Filter by status" Enums(available, maintenance, reserved)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomListResponse} "Classrooms retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms [get]
func (c *ClassroomController) ListClassrooms(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	var building *string
	if raw := ctx.Query("building"); raw != "" {
		building = &raw
	}
	var status *models.ClassroomStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.ClassroomStatus(raw)
		status = &s
	}

	classrooms, total, err := c.classroomService.List(ctx.Request.Context(), building, status, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ClassroomListResponse{
		Classrooms:     make([]dto.ClassroomResponse, 0, len(classrooms)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for i := range classrooms {
		resp.Classrooms = append(resp.Classrooms, dto.NewClassroomResponse(&classrooms[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateClassroom updates an existing classroom
// @Summary Update a classroom
// @Description Updates classroom details and status
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID" Format(uuid)
// @Param request body dto.UpdateClassroomRequest true "Updated classroom information"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse} "Classroom updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id} [put]
func (c *ClassroomController) UpdateClassroom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom ID")
		errorDetail = errorDetail.WithDetails("Classroom ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	classroom, err := c.classroomService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewClassroomResponse(classroom),
		Timestamp: time.Now(),
	})
}

// DeleteClassroom deletes a classroom
// @Summary Delete a classroom
// @Description Removes a classroom
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Classroom ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Classroom deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid classroom ID format"
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /classrooms/{id} [delete]
func (c *ClassroomController) DeleteClassroom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classroom ID")
		errorDetail = errorDetail.WithDetails("Classroom ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.classroomService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Classroom deleted"},
		Timestamp: time.Now(),
	})
}

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/middleware"
)

// SessionController handles class session lifecycle and live monitoring
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// StartSession starts an ad-hoc session for the authenticated lecturer
// @Summary Start a class session
// @Description Starts a new session for a course in a classroom, completing any previous active session of the lecturer
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartSessionRequest true "Session information"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Session started"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course or classroom not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	lecturerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	session, err := c.sessionService.StartSession(ctx.Request.Context(), lecturerID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewSessionResponse(session),
		Timestamp: time.Now(),
	})
}

// EndSession ends a session
// @Summary End a class session
// @Description Marks a session as completed. Only the owning lecturer or an admin may end it.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Session ended"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not the session owner"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{id}/end [post]
func (c *SessionController) EndSession(ctx *gin.Context) {
	actorID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")
		errorDetail = errorDetail.WithDetails("Session ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	role := models.RoleType(ctx.GetString("roleType"))
	if err := c.sessionService.EndSession(ctx.Request.Context(), sessionID, actorID, role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Session ended"},
		Timestamp: time.Now(),
	})
}

// ListSessions lists the most recent sessions of a course
// @Summary List course sessions
// @Description Retrieves the most recent sessions for a course, newest first
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param courseId query string true "Course ID" Format(uuid)
// @Param limit query int false "Maximum number of sessions to return (default 50)"
// @Success 200 {object} dto.APIResponse{data=[]dto.SessionResponse} "Sessions retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	courseID, err := uuid.Parse(ctx.Query("courseId"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
		errorDetail = errorDetail.WithDetails("courseId must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid limit")
			errorDetail = errorDetail.WithDetails("limit must be a non-negative integer")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	sessions, err := c.sessionService.ListByCourse(ctx.Request.Context(), courseID, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, dto.NewSessionResponse(&sessions[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      responses,
		Timestamp: time.Now(),
	})
}

// GetActiveSession retrieves the lecturer's currently active session
// @Summary Get the active session
// @Description Retrieves the authenticated lecturer's currently running session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Active session"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "No active session"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/active [get]
func (c *SessionController) GetActiveSession(ctx *gin.Context) {
	lecturerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	session, err := c.sessionService.GetActiveSession(ctx.Request.Context(), lecturerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSessionResponse(session),
		Timestamp: time.Now(),
	})
}

// GetSession retrieves a session by ID
// @Summary Get session details
// @Description Retrieves a session by its ID
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")
		errorDetail = errorDetail.WithDetails("Session ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	session, err := c.sessionService.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewSessionResponse(session),
		Timestamp: time.Now(),
	})
}

// LiveView retrieves the live attendee list with cohort analysis
// @Summary Get the live session view
// @Description Retrieves the attendee list for a session with the inferred cohort mode and display-level downgrades
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.LiveSessionResponse} "Live view retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{id}/live [get]
func (c *SessionController) LiveView(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")
		errorDetail = errorDetail.WithDetails("Session ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	view, err := c.sessionService.LiveView(ctx.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      view,
		Timestamp: time.Now(),
	})
}

// DownloadReport streams the session attendance report as CSV
// @Summary Download the session report
// @Description Streams the attendance report for a session as a CSV file
// @Tags sessions
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Session ID" Format(uuid)
// @Success 200 {string} string "CSV report"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID format"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/{id}/report [get]
func (c *SessionController) DownloadReport(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid session ID")
		errorDetail = errorDetail.WithDetails("Session ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="attendance-`+sessionID.String()+`.csv"`)

	if err := c.sessionService.WriteReportCSV(ctx.Request.Context(), sessionID, ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jkarani/campusgate/internal/app/controllers"
	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	attendanceController *controllers.AttendanceController,
	sessionController *controllers.SessionController,
	timetableController *controllers.TimetableController,
	classroomController *controllers.ClassroomController,
	auditController *controllers.AuditController,
	authMiddleware *middleware.AuthMiddleware,
	scanLimiter *middleware.SimpleTokenBucket,
) {
	// Operational endpoints outside the API version group
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      dto.SuccessResponse{Message: "ok"},
			Timestamp: time.Now(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Attendance routes - scan verification is student-facing and rate limited
		attendance := authenticated.Group("/attendance")
		{
			verifyScan := attendance.Group("")
			verifyScan.Use(authMiddleware.RoleRequired(models.RoleStudent))
			if scanLimiter != nil {
				verifyScan.Use(scanLimiter.GinMiddleware())
			}
			verifyScan.POST("/verify-scan", attendanceController.VerifyScan)

			attendanceStaff := attendance.Group("")
			attendanceStaff.Use(authMiddleware.RoleRequired(models.RoleLecturer, models.RoleAdmin))
			{
				attendanceStaff.GET("/records/:id", attendanceController.GetRecord)
			}
		}

		// Session routes - lifecycle and live monitoring for lecturers
		sessions := authenticated.Group("/sessions")
		sessions.Use(authMiddleware.RoleRequired(models.RoleLecturer, models.RoleAdmin))
		{
			sessions.POST("", sessionController.StartSession)
			sessions.GET("", sessionController.ListSessions)
			sessions.GET("/active", sessionController.GetActiveSession)
			sessions.GET("/:id", sessionController.GetSession)
			sessions.POST("/:id/end", sessionController.EndSession)
			sessions.GET("/:id/live", sessionController.LiveView)
			sessions.GET("/:id/report", sessionController.DownloadReport)
		}

		// Timetable routes - resolution is open to all authenticated users,
		// slot management is admin-only
		timetable := authenticated.Group("/timetable")
		{
			timetable.GET("/resolve-session", timetableController.ResolveSession)
			timetable.GET("/weekly", timetableController.GetWeekly)
			timetable.GET("/slots/:id", timetableController.GetSlot)

			timetableAdmin := timetable.Group("")
			timetableAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				timetableAdmin.POST("/slots", timetableController.CreateSlot)
				timetableAdmin.PUT("/slots/:id", timetableController.UpdateSlot)
				timetableAdmin.DELETE("/slots/:id", timetableController.DeleteSlot)
			}
		}

		// Classroom routes - reads for everyone, writes for admins
		classrooms := authenticated.Group("/classrooms")
		{
			classrooms.GET("", classroomController.ListClassrooms)
			classrooms.GET("/:id", classroomController.GetClassroom)

			classroomsAdmin := classrooms.Group("")
			classroomsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				classroomsAdmin.POST("", classroomController.CreateClassroom)
				classroomsAdmin.PUT("/:id", classroomController.UpdateClassroom)
				classroomsAdmin.DELETE("/:id", classroomController.DeleteClassroom)
			}
		}

		// Audit routes - scan log is staff-only
		audit := authenticated.Group("/audit")
		audit.Use(authMiddleware.RoleRequired(models.RoleLecturer, models.RoleAdmin))
		{
			audit.GET("/scan-logs", auditController.ListScanLogs)
		}
	}
}

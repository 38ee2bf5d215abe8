package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/extracenter/backend/internal/app/controllers"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	centerController *controllers.CenterController,
	courseController *controllers.CourseController,
	rosterController *controllers.RosterController,
	attendanceController *controllers.AttendanceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.RegisterTeacher)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Self-service account routes
		authenticated.GET("/auth/profile", authController.GetProfile)
		authenticated.PUT("/auth/profile", authController.UpdateProfile)
		authenticated.PUT("/auth/password", authController.ChangePassword)

		// Center routes
		centers := authenticated.Group("/centers")
		{
			centers.GET("", centerController.GetAllCenters)
			centers.GET("/:id", centerController.GetCenter)
			centers.GET("/manager/:teacherId", centerController.GetManagedCenters)
			centers.GET("/teaching/:teacherId", centerController.GetTeachingCenters)
			centers.GET("/:id/teachers", centerController.GetCenterTeachers)
			centers.GET("/:id/students", centerController.GetCenterStudents)

			// Mutations are manager-scoped; the service layer enforces
			// ownership, the route only requires the TEACHER role.
			centersTeacherProtected := centers.Group("")
			centersTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				centersTeacherProtected.POST("", centerController.CreateCenter)
				centersTeacherProtected.PUT("/:id", centerController.UpdateCenter)
				centersTeacherProtected.DELETE("/:id", centerController.DeleteCenter)
				centersTeacherProtected.POST("/:id/students", centerController.AssignStudent)
				centersTeacherProtected.DELETE("/:id/students/:studentId", centerController.RemoveStudent)
			}
		}

		// Course routes
		courses := authenticated.Group("/courses")
		{
			courses.GET("/:id", courseController.GetCourse)
			courses.GET("/center/:centerId", courseController.GetCoursesByCenter)
			courses.GET("/teacher/:teacherId", courseController.GetCoursesByTeacher)
			courses.GET("/:id/students", courseController.GetCourseStudents)
			courses.GET("/:id/slots", attendanceController.GetCourseSlots)

			coursesTeacherProtected := courses.Group("")
			coursesTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				coursesTeacherProtected.POST("", courseController.CreateCourse)
				coursesTeacherProtected.PUT("/:id", courseController.UpdateCourse)
				coursesTeacherProtected.DELETE("/:id", courseController.DeleteCourse)

				// Invitation handshake
				coursesTeacherProtected.POST("/:id/invite", courseController.InviteTeacher)
				coursesTeacherProtected.POST("/:id/respond", courseController.RespondToInvitation)
				coursesTeacherProtected.GET("/invitations/:teacherId", courseController.GetPendingInvitations)

				// Enrollment management
				coursesTeacherProtected.POST("/:id/students", courseController.EnrollStudent)
				coursesTeacherProtected.DELETE("/:id/students/:studentId", courseController.UnenrollStudent)

				// Weekly class slots
				coursesTeacherProtected.POST("/:id/slots", attendanceController.CreateClassSlot)
				coursesTeacherProtected.DELETE("/:id/slots/:slotId", attendanceController.DeleteClassSlot)
			}
		}

		// Attendance sheets
		attendance := authenticated.Group("/attendance")
		attendance.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			attendance.POST("", attendanceController.MarkAttendance)
			attendance.GET("", attendanceController.GetAttendance)
		}

		// Weekly schedule views
		schedule := authenticated.Group("/schedule")
		{
			schedule.GET("/teacher/:teacherId", attendanceController.GetTeacherSchedule)
			schedule.GET("/student/:studentId", attendanceController.GetStudentSchedule)
		}

		// Cross-center roster for teachers
		rosterProtected := authenticated.Group("/roster")
		rosterProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			rosterProtected.GET("", rosterController.GetRoster)
		}

		// Student account management
		users := authenticated.Group("/users")
		{
			users.GET("/students", userController.SearchStudents)
			users.POST("/students", userController.CreateStudent)
			users.PUT("/students/:id", userController.UpdateStudent)

			usersAdminProtected := users.Group("")
			usersAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				usersAdminProtected.DELETE("/:id", userController.DeleteUser)
			}
		}

		// Admin oversight routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			admin.GET("/users", userController.GetAllUsers)
			admin.POST("/lock", userController.ToggleUserLock)
			admin.GET("/stats", userController.GetUserStats)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

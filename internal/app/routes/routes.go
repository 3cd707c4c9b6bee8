package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmelo/shiftboard/internal/app/controllers"
	"github.com/dmelo/shiftboard/internal/app/models"
	"github.com/dmelo/shiftboard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	shiftController *controllers.ShiftController,
	studentController *controllers.StudentController,
	allocationController *controllers.AllocationController,
	shiftRequestController *controllers.ShiftRequestController,
	distributionController *controllers.DistributionController,
	publicationController *controllers.PublicationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		directorOnly := authMiddleware.RoleRequired(models.RoleDirector)

		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.GetAllCourses)
			courses.GET("/:id", courseController.GetCourseByID)
			courses.POST("", directorOnly, courseController.CreateCourse)
		}

		shifts := authenticated.Group("/shifts")
		{
			shifts.GET("", shiftController.GetAllShifts)
			shifts.GET("/:id", shiftController.GetShiftByID)
			shifts.POST("", directorOnly, shiftController.CreateShift)
		}

		students := authenticated.Group("/students")
		students.Use(directorOnly)
		{
			students.GET("", studentController.GetAllStudents)
			students.GET("/:id", studentController.GetStudentByID)
			students.POST("", studentController.CreateStudent)
			students.POST("/:id/enrolments/:courseId", studentController.EnrolStudent)
		}

		// Allocation reads are scoped in the controller: students see only
		// their own rows, and only once the schedule is published.
		authenticated.GET("/allocations", allocationController.GetAllocations)
		authenticated.GET("/conflicts", allocationController.GetConflicts)

		shiftRequests := authenticated.Group("/shift-requests")
		{
			shiftRequests.POST("", shiftRequestController.SubmitRequest)
			shiftRequests.GET("/my", shiftRequestController.ListOwnRequests)
			shiftRequests.GET("", directorOnly, shiftRequestController.ListRequests)
			shiftRequests.PATCH("/:id", directorOnly, shiftRequestController.ResolveRequest)
		}

		distribution := authenticated.Group("/distribution")
		distribution.Use(directorOnly)
		{
			distribution.POST("/plan", distributionController.BuildPlan)
			distribution.POST("/commit", distributionController.CommitPlan)
		}

		publication := authenticated.Group("/publication")
		{
			publication.GET("", publicationController.GetState)
			publication.POST("/publish", directorOnly, publicationController.Publish)
		}
	}
}

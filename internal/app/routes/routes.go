package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaustack/catalog/internal/app/controllers"
	"github.com/kaustack/catalog/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	searchController *controllers.SearchController,
	courseController *controllers.CourseController,
	instructorController *controllers.InstructorController,
	syncController *controllers.SyncController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Section search
	v1.GET("/sections", searchController.SearchSections)

	// Catalog read routes
	catalog := v1.Group("/catalog")
	{
		courses := catalog.Group("/courses")
		{
			courses.GET("", courseController.GetCourses)
			courses.GET("/:courseId", courseController.GetCourseByID)
			courses.GET("/:courseId/sections", courseController.GetCourseSections)
		}

		instructors := catalog.Group("/instructors")
		{
			instructors.GET("", instructorController.GetInstructors)
			instructors.GET("/:instructorId", instructorController.GetInstructorDetails)
		}
	}

	// Manual sync triggers, meant for operators and schedulers
	internal := v1.Group("/internal")
	{
		internal.POST("/sync/courses", syncController.SyncCourses)
		internal.POST("/sync/instructors", syncController.SyncInstructors)
	}

	// Health check
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      dto.SuccessResponse{Message: "ok"},
			Timestamp: time.Now(),
		})
	})
}

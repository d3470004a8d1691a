package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/app/services"
	"github.com/kaustack/catalog/internal/middleware"
)

// CourseController handles course catalog endpoints
type CourseController struct {
	catalogService *services.CatalogService
}

// NewCourseController creates a new CourseController
func NewCourseController(catalogService *services.CatalogService) *CourseController {
	return &CourseController{catalogService: catalogService}
}

// GetCourses lists a term's courses
// @Summary List courses
// @Description Lists the distinct courses offered in a term, optionally narrowed by free text. With grouped=true the response maps each course label to its matching section codes instead.
// @Tags catalog
// @Accept json
// @Produce json
// @Param termCode query string false "Term code; the latest synchronized term when omitted"
// @Param q query string false "Free text over course title/code/number"
// @Param grouped query bool false "Group section codes by course label"
// @Param section query string false "Section code substring (grouped mode)"
// @Param gender query string false "male or female (grouped mode)"
// @Param branch query string false "Branch substring (grouped mode)"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseSummary} "Courses"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	termCode := ctx.Query("termCode")
	query := ctx.Query("q")

	if ctx.Query("grouped") == "true" {
		grouped, err := c.catalogService.GetGroupedSections(ctx,
			termCode, query, ctx.Query("section"), ctx.Query("gender"), ctx.Query("branch"))
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.APIResponse{Data: grouped, Timestamp: time.Now()})
		return
	}

	courses, err := c.catalogService.GetCourses(ctx, termCode, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses, Timestamp: time.Now()})
}

// GetCourseByID retrieves a single course
// @Summary Get course by ID
// @Description Retrieves one course of the catalog
// @Tags catalog
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseSummary} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/courses/{courseId} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	course, err := c.catalogService.GetCourseByID(ctx, ctx.Param("courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course, Timestamp: time.Now()})
}

// GetCourseSections lists one course's sections in a term
// @Summary List course sections
// @Description Lists a course's sections in a term with their meetings
// @Tags catalog
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param termCode query string false "Term code; the latest synchronized term when omitted"
// @Param gender query string false "male or female"
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionResponse} "Sections"
// @Failure 404 {object} dto.ErrorResponse "Term or course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/courses/{courseId}/sections [get]
func (c *CourseController) GetCourseSections(ctx *gin.Context) {
	sections, err := c.catalogService.GetSectionsByCourse(ctx,
		ctx.Query("termCode"), ctx.Param("courseId"), ctx.Query("gender"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: sections, Timestamp: time.Now()})
}

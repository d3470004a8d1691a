package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/app/services"
	"github.com/kaustack/catalog/internal/middleware"
)

// InstructorController handles instructor directory endpoints
type InstructorController struct {
	catalogService *services.CatalogService
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(catalogService *services.CatalogService) *InstructorController {
	return &InstructorController{catalogService: catalogService}
}

// GetInstructors lists a term's instructors
// @Summary List instructors
// @Description Lists the distinct instructors teaching in a term, name-sorted and optionally name-filtered. With grouped=true each entry carries the instructor's sections grouped by course.
// @Tags catalog
// @Accept json
// @Produce json
// @Param termCode query string false "Term code; the latest synchronized term when omitted"
// @Param q query string false "Instructor name substring"
// @Param grouped query bool false "Group each instructor's sections by course"
// @Success 200 {object} dto.APIResponse{data=[]dto.InstructorSummary} "Instructors"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/instructors [get]
func (c *InstructorController) GetInstructors(ctx *gin.Context) {
	termCode := ctx.Query("termCode")
	query := ctx.Query("q")

	if ctx.Query("grouped") == "true" {
		hierarchy, err := c.catalogService.GetInstructorHierarchy(ctx, termCode, query)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.APIResponse{Data: hierarchy, Timestamp: time.Now()})
		return
	}

	instructors, err := c.catalogService.GetInstructors(ctx, termCode, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: instructors, Timestamp: time.Now()})
}

// GetInstructorDetails retrieves one instructor's meetings grouped by course
// @Summary Get instructor details
// @Description Retrieves one instructor's weekly meetings in a term, grouped by course label
// @Tags catalog
// @Accept json
// @Produce json
// @Param instructorId path string true "Instructor ID"
// @Param termCode query string false "Term code; the latest synchronized term when omitted"
// @Success 200 {object} dto.APIResponse{data=dto.InstructorDetails} "Instructor details"
// @Failure 404 {object} dto.ErrorResponse "Term or instructor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catalog/instructors/{instructorId} [get]
func (c *InstructorController) GetInstructorDetails(ctx *gin.Context) {
	details, err := c.catalogService.GetInstructorDetails(ctx,
		ctx.Param("instructorId"), ctx.Query("termCode"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: details, Timestamp: time.Now()})
}

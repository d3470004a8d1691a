// Package controllers wires the catalog services to their HTTP endpoints.
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/app/search"
	"github.com/kaustack/catalog/internal/app/services"
	"github.com/kaustack/catalog/internal/middleware"
)

// SearchController handles the section search endpoint
type SearchController struct {
	catalogService *services.CatalogService
}

// NewSearchController creates a new SearchController
func NewSearchController(catalogService *services.CatalogService) *SearchController {
	return &SearchController{catalogService: catalogService}
}

// SearchSections searches sections with composable filters
// @Summary Search sections
// @Description Searches a term's sections with free text, day, time, instructor, CRN and cohort filters. Filters that fail to parse are ignored rather than rejected.
// @Tags sections
// @Accept json
// @Produce json
// @Param termCode query string false "Term code; the latest synchronized term when omitted"
// @Param q query string false "Free text over course title/code/number, section code and CRN"
// @Param days query string false "Day letters, any order (M T W R F S U)"
// @Param instructor query string false "Instructor name substring"
// @Param startTime query string false "Earliest meeting start, HH:MM"
// @Param endTime query string false "Latest meeting end, HH:MM"
// @Param level query string false "Level substring"
// @Param crn query string false "Exact CRN"
// @Param section query string false "Section code substring"
// @Param gender query string false "male or female"
// @Param branch query string false "Branch substring"
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionResponse} "Matching sections"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections [get]
func (c *SearchController) SearchSections(ctx *gin.Context) {
	var params search.Params
	if err := ctx.ShouldBindQuery(&params); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid search parameters")
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			errorDetail = errorDetail.WithField(validationErrs[0].Field())
		}
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	sections, pagination, err := c.catalogService.Search(ctx, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      sections,
		Meta:      &pagination,
		Timestamp: time.Now(),
	})
}

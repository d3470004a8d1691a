package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to the standard error envelope. Not
// found resolutions are client-visible 404s; everything unrecognized is a
// 500 without leaking the underlying error.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrTermNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Term not found").WithField("termCode"),
		})
	case errors.Is(err, apperrors.ErrCourseNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found").WithField("courseId"),
		})
	case errors.Is(err, apperrors.ErrInstructorNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Instructor not found").WithField("instructorId"),
		})
	case errors.Is(err, apperrors.ErrSectionNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Section not found"),
		})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"),
		})
	case errors.Is(err, apperrors.ErrSyncSkipped):
		// Not an error condition: the feed was unavailable or empty and
		// the store was left untouched.
		c.JSON(200, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeSyncSkipped, err.Error()).WithSeverity(dto.ErrorSeverityWarning),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}

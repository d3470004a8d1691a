package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/app/services"
	"github.com/kaustack/catalog/internal/middleware"
)

// SyncController exposes the manual synchronization triggers
type SyncController struct {
	syncService *services.SyncService
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService *services.SyncService) *SyncController {
	return &SyncController{syncService: syncService}
}

// SyncCourses triggers the course feed synchronization
// @Summary Sync courses
// @Description Fetches the course feed and reconciles terms, courses, sections and schedules. An unavailable or empty feed yields a report with a skip reason and leaves the store untouched.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SyncReport} "Sync report"
// @Failure 500 {object} dto.ErrorResponse "Sync failed and was rolled back"
// @Router /internal/sync/courses [post]
func (c *SyncController) SyncCourses(ctx *gin.Context) {
	report, err := c.syncService.SyncCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report, Timestamp: time.Now()})
}

// SyncInstructors triggers the instructor feed synchronization
// @Summary Sync instructors
// @Description Fetches the instructor feed, fills in instructor names and emails, and links sections to their primary instructors
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SyncReport} "Sync report"
// @Failure 500 {object} dto.ErrorResponse "Sync failed and was rolled back"
// @Router /internal/sync/instructors [post]
func (c *SyncController) SyncInstructors(ctx *gin.Context) {
	report, err := c.syncService.SyncInstructors(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report, Timestamp: time.Now()})
}

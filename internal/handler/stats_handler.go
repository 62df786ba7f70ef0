package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/fitness-backend-go/internal/middleware"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/service"
	"github.com/jengzang/fitness-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for aggregated statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetSummary handles GET /api/v1/stats/summary
func (h *StatsHandler) GetSummary(c *gin.Context) {
	startTime, err := strconv.ParseInt(c.DefaultQuery("startTime", "0"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid startTime parameter")
		return
	}
	endTime, err := strconv.ParseInt(c.DefaultQuery("endTime", "0"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid endTime parameter")
		return
	}

	summaries, err := h.statsService.GetTypeSummaries(middleware.UserID(c), startTime, endTime)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, summaries)
}

// GetRecords handles GET /api/v1/stats/records
func (h *StatsHandler) GetRecords(c *gin.Context) {
	typeName := c.Query("activityType")
	if typeName == "" {
		response.BadRequest(c, "Missing activityType parameter")
		return
	}

	records, err := h.statsService.GetPersonalRecords(middleware.UserID(c), models.ClassifyActivityType(typeName))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, records)
}

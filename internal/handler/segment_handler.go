package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/fitness-backend-go/internal/middleware"
	"github.com/jengzang/fitness-backend-go/internal/models"
	"github.com/jengzang/fitness-backend-go/internal/service"
	"github.com/jengzang/fitness-backend-go/pkg/response"
)

// SegmentHandler handles HTTP requests for segments
type SegmentHandler struct {
	segmentService *service.SegmentService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(segmentService *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
	}
}

// createSegmentRequest is the JSON body for segment creation
type createSegmentRequest struct {
	Name         string        `json:"name" binding:"required"`
	ActivityType string        `json:"activity_type" binding:"required"`
	Gates        []models.Gate `json:"gates" binding:"required"`
}

// CreateSegment handles POST /api/v1/segments
func (h *SegmentHandler) CreateSegment(c *gin.Context) {
	var req createSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if len(req.Gates) < 2 {
		response.BadRequest(c, "A segment needs at least 2 gates")
		return
	}

	segment := &models.Segment{
		UserID:       middleware.UserID(c),
		Name:         req.Name,
		ActivityType: models.ClassifyActivityType(req.ActivityType),
		Gates:        req.Gates,
	}

	created, err := h.segmentService.Create(segment)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Created(c, created)
}

// GetSegments handles GET /api/v1/segments
func (h *SegmentHandler) GetSegments(c *gin.Context) {
	var filter models.SegmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.UserID = middleware.UserID(c)

	segments, total, err := h.segmentService.GetSegments(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  segments,
		"total": total,
	})
}

// GetSegmentByID handles GET /api/v1/segments/:id
func (h *SegmentHandler) GetSegmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	segment, err := h.segmentService.GetByID(id, middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if segment == nil {
		response.NotFound(c, "Segment not found")
		return
	}

	response.Success(c, segment)
}

// GetMatches handles GET /api/v1/segments/:id/matches
func (h *SegmentHandler) GetMatches(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	matches, err := h.segmentService.GetMatches(id, middleware.UserID(c))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if matches == nil {
		response.NotFound(c, "Segment not found")
		return
	}

	response.Success(c, gin.H{
		"data":  matches,
		"count": len(matches),
	})
}

// RefreshMatches handles POST /api/v1/segments/:id/refresh
func (h *SegmentHandler) RefreshMatches(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid segment ID")
		return
	}

	laps, err := h.segmentService.RefreshMatches(id, middleware.UserID(c))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{"laps": laps})
}
